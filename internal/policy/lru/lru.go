// Package lru implements the classic move-to-front Least-Recently-Used
// policy, adapted from the teacher's policy/lru package: where the
// original promoted an intrusive list node, this orders an otree.Node by
// a recency tick so PrefixSize/Max give the same LRU ranking without a
// separate list.
package lru

import (
	"github.com/kosmo-mrc/kosmo/internal/otree"
	"github.com/kosmo-mrc/kosmo/internal/policy"
)

type meta struct {
	tick uint64
}

type instance struct{}

// New returns a fresh LRU policy instance. Capacity is unused: LRU keeps
// no capacity-relative state.
func New(uint64) policy.Instance { return &instance{} }

func (*instance) Tag() policy.Tag { return policy.LRU }

// Less: the more recently touched entry (larger tick) is less evictable.
func (*instance) Less(a, b *otree.Node) bool {
	return a.Payload.(meta).tick > b.Payload.(meta).tick
}

// OnAdmit places a brand-new entry at MRU, matching the teacher's OnAdd
// (PushFront): a new item starts out maximally protected.
func (*instance) OnAdmit(tick uint64) any { return meta{tick: tick} }

func (*instance) OnGhostHit(tick, key uint64) (any, bool) { return nil, false }

// OnAccess promotes the entry to MRU, mirroring the teacher's OnGet
// (MoveToFront).
func (*instance) OnAccess(tick uint64, payload any) (any, bool) {
	return meta{tick: tick}, true
}

func (*instance) Track(n *otree.Node)   {}
func (*instance) Promote(n *otree.Node) {}

// Victim defers to the tree's own order: the most evictable entry is the
// global LRU tail.
func (*instance) Victim(t *otree.Tree) *otree.Node { return t.Max() }

func (*instance) Evict(n *otree.Node) {}
