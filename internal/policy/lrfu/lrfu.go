// Package lrfu implements the LRFU (Least Recently/Frequently Used)
// policy: a combined recency-frequency rank computed by exponentially
// decaying a running CRF (Combined Recency/Frequency) value between
// accesses, per Lee et al.'s original formulation. The teacher's pack
// ships no LRFU policy to ground the algorithm itself on, so the CRF
// recurrence follows the published formula directly; the surrounding
// Policy shape (meta payload + Less + OnAdmit/OnAccess) still follows
// the teacher's policy.Policy contract, generalized the same way lru
// and fifo are.
package lrfu

import (
	"math"

	"github.com/kosmo-mrc/kosmo/internal/otree"
	"github.com/kosmo-mrc/kosmo/internal/policy"
)

// lambda controls the recency/frequency tradeoff: larger values decay
// faster and behave more like LRU, smaller values decay slower and
// behave more like LFU. At 0.5 an entry's CRF contribution halves every
// 2 ticks. It is a package constant; no flag sets it.
const lambda = 0.5

type meta struct {
	crf      float64
	lastTick uint64
}

type instance struct{}

// New returns a fresh LRFU policy instance. Capacity is unused.
func New(uint64) policy.Instance { return &instance{} }

func (*instance) Tag() policy.Tag { return policy.LRFU }

// Less: the entry with the higher CRF is less evictable. Both CRFs are
// first decayed to the later of the two entries' last-access ticks, so
// entries touched at different times are compared at a common tick; the
// resulting order does not change as time advances, since decaying both
// sides by the same further elapsed time preserves it.
func (*instance) Less(a, b *otree.Node) bool {
	ma, mb := a.Payload.(meta), b.Payload.(meta)
	return decay(ma, lastOf(ma, mb)) > decay(mb, lastOf(ma, mb))
}

func lastOf(a, b meta) uint64 {
	if a.lastTick > b.lastTick {
		return a.lastTick
	}
	return b.lastTick
}

func decay(m meta, toTick uint64) float64 {
	if toTick <= m.lastTick {
		return m.crf
	}
	return m.crf * math.Pow(2, -lambda*float64(toTick-m.lastTick))
}

func (*instance) OnAdmit(tick uint64) any { return meta{crf: 1, lastTick: tick} }

func (*instance) OnGhostHit(tick, key uint64) (any, bool) { return nil, false }

// OnAccess folds the new reference into the CRF recurrence:
// CRF(now) = CRF(last) * F(now-last) + F(0), F(t) = 2^(-lambda*t).
func (*instance) OnAccess(tick uint64, payload any) (any, bool) {
	m := payload.(meta)
	m.crf = decay(m, tick) + 1
	m.lastTick = tick
	return m, true
}

func (*instance) Track(n *otree.Node)   {}
func (*instance) Promote(n *otree.Node) {}

func (*instance) Victim(t *otree.Tree) *otree.Node { return t.Max() }

func (*instance) Evict(n *otree.Node) {}
