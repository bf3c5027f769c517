// Package lfu implements Least-Frequently-Used eviction: position tracks
// a monotonically incremented per-key reference count, with the last
// access tick used only to break ties between equal counts. Grounded on the teacher's policy.Policy shape; frequency
// counting itself follows dgraph-io-ristretto's policy.go admission
// counters (a plain increment-on-hit scheme, no probabilistic sketch —
// Kosmo needs an exact count per tracked key, not an approximate one).
package lfu

import (
	"github.com/kosmo-mrc/kosmo/internal/otree"
	"github.com/kosmo-mrc/kosmo/internal/policy"
)

type meta struct {
	freq uint64
	tick uint64
}

type instance struct{}

// New returns a fresh LFU policy instance. Capacity is unused.
func New(uint64) policy.Instance { return &instance{} }

func (*instance) Tag() policy.Tag { return policy.LFU }

// Less: the more frequently referenced entry is less evictable; between
// equal counts, the more recently accessed one is (LRU tiebreak).
func (*instance) Less(a, b *otree.Node) bool {
	ma, mb := a.Payload.(meta), b.Payload.(meta)
	if ma.freq != mb.freq {
		return ma.freq > mb.freq
	}
	return ma.tick > mb.tick
}

func (*instance) OnAdmit(tick uint64) any { return meta{freq: 1, tick: tick} }

func (*instance) OnGhostHit(tick, key uint64) (any, bool) { return nil, false }

// OnAccess increments the reference count and records the access tick;
// the entry always needs repositioning since its rank relative to
// neighbors may have changed.
func (*instance) OnAccess(tick uint64, payload any) (any, bool) {
	m := payload.(meta)
	m.freq++
	m.tick = tick
	return m, true
}

func (*instance) Track(n *otree.Node)   {}
func (*instance) Promote(n *otree.Node) {}

func (*instance) Victim(t *otree.Tree) *otree.Node { return t.Max() }

func (*instance) Evict(n *otree.Node) {}
