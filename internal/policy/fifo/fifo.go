// Package fifo implements plain first-in-first-out eviction: position is
// fixed at insertion time and never changes on access, unlike lru's
// move-to-front. Grounded on the teacher's lru.go structure with OnGet
// turned into a no-op, since the teacher's pack never ships FIFO itself.
package fifo

import (
	"github.com/kosmo-mrc/kosmo/internal/otree"
	"github.com/kosmo-mrc/kosmo/internal/policy"
)

type meta struct {
	tick uint64
}

type instance struct{}

// New returns a fresh FIFO policy instance. Capacity is unused.
func New(uint64) policy.Instance { return &instance{} }

func (*instance) Tag() policy.Tag { return policy.FIFO }

// Less: the more recently inserted entry is less evictable, and insertion
// order never changes afterward.
func (*instance) Less(a, b *otree.Node) bool {
	return a.Payload.(meta).tick > b.Payload.(meta).tick
}

func (*instance) OnAdmit(tick uint64) any { return meta{tick: tick} }

func (*instance) OnGhostHit(tick, key uint64) (any, bool) { return nil, false }

// OnAccess leaves the entry's position untouched: FIFO ignores reuse.
func (*instance) OnAccess(tick uint64, payload any) (any, bool) {
	return payload, false
}

func (*instance) Track(n *otree.Node)   {}
func (*instance) Promote(n *otree.Node) {}

func (*instance) Victim(t *otree.Tree) *otree.Node { return t.Max() }

func (*instance) Evict(n *otree.Node) {}
