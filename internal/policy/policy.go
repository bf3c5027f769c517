// Package policy defines the pluggable eviction-policy contract Kosmo and
// MiniSim both build on, generalizing the teacher's Policy/Hooks/Node
// capability-set (shardcache's policy.Policy[K,V]/Hooks[K,V]/Node[K,V])
// away from an intrusive container/list and onto the shared
// internal/otree order-statistic tree: instead of a policy moving list
// elements, it owns a small per-entry payload that otree.Less compares,
// and a handful of lifecycle hooks a simulator calls around tree
// mutations.
package policy

import (
	"fmt"

	"github.com/kosmo-mrc/kosmo/internal/kerrors"
	"github.com/kosmo-mrc/kosmo/internal/otree"
)

// Tag names a concrete eviction policy, matching the CLI's --policy flag.
type Tag string

const (
	LRU  Tag = "lru"
	FIFO Tag = "fifo"
	LFU  Tag = "lfu"
	LRFU Tag = "lrfu"
	TwoQ Tag = "2q"
)

// Instance is one running policy bound to a single simulated cache (one
// per Kosmo run, one per MiniSim grid point — 2Q's ghost/probation state
// is capacity-relative and must not be shared across grid points).
type Instance interface {
	Tag() Tag

	// Less implements otree.Less for this policy's payload type.
	Less(a, b *otree.Node) bool

	// OnAdmit returns the initial payload for a key seen for the first
	// time (or returning after its ghost expired).
	OnAdmit(tick uint64) any

	// OnGhostHit is consulted before OnAdmit for a key not currently
	// resident. If the key matches a ghost entry, hit is true and
	// payload is what the re-admitted node should start with. Policies
	// without ghosts (everything but 2Q) always return hit=false.
	OnGhostHit(tick, key uint64) (payload any, hit bool)

	// OnAccess updates payload for a cache hit on a resident entry,
	// returning the new payload and whether the entry's tree position
	// needs to change (moved=false lets the caller skip a Reposition,
	// which matters for FIFO and 2Q's A1in hits).
	OnAccess(tick uint64, payload any) (newPayload any, moved bool)

	// Track and Promote maintain auxiliary bookkeeping a policy keeps
	// outside the shared tree. Only 2Q uses these (its A1in/Am queues);
	// every other policy no-ops them. Track runs once, right after a new
	// node is inserted; Promote runs after a hit whose OnAccess reported
	// moved=true.
	Track(n *otree.Node)
	Promote(n *otree.Node)

	// Victim picks the next node a capacity-bound cache should evict.
	// Most policies defer to the tree's own ordering (Max()); 2Q applies
	// its capIn threshold instead.
	Victim(t *otree.Tree) *otree.Node

	// Evict notifies the policy that a node was actually evicted under
	// capacity pressure (MiniSim only: Kosmo's tree never evicts), after
	// it has already been removed from the tree. 2Q uses this to drop the
	// node from its A1in/Am bookkeeping and populate its ghost list;
	// other policies no-op it.
	Evict(n *otree.Node)
}

// AllTags lists every policy tag accepted by New, for CLI help text.
var AllTags = []Tag{LRU, FIFO, LFU, LRFU, TwoQ}

// ParseTag validates a raw CLI flag value against AllTags, wrapping
// internal/kerrors.ErrArgInvalid on an unrecognized tag so callers get a
// consistent fatal error kind regardless of which flag it came from.
func ParseTag(raw string) (Tag, error) {
	tag := Tag(raw)
	for _, want := range AllTags {
		if tag == want {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w: unknown policy tag %q, want one of %v", kerrors.ErrArgInvalid, raw, AllTags)
}
