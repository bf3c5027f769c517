// Package kosmo implements the Kosmo algorithm: a single pass over the
// (sampled) access sequence through one shared order-statistic tree,
// where each access's prefix byte-size gives the minimum cache capacity
// that would have kept it resident, letting one run populate every grid
// point's hit/miss counters at once. Grounded on the teacher's
// cache.Cache generic structure (one shared index + one ordering
// structure behind a uniform Get/Set-shaped entry point), adapted from a
// sharded fixed-capacity cache into a single unbounded tracking
// structure with no real eviction.
package kosmo

import (
	"fmt"

	"github.com/kosmo-mrc/kosmo/internal/access"
	"github.com/kosmo-mrc/kosmo/internal/mrc"
	"github.com/kosmo-mrc/kosmo/internal/otree"
	"github.com/kosmo-mrc/kosmo/internal/policy"
	"github.com/kosmo-mrc/kosmo/internal/policy/factory"
)

// treeSeed fixes the treap's balancing randomness. It affects only the
// tree's internal shape, never PrefixSize/Max query results (those
// follow strictly from the policy's Less ordering), so a constant seed
// is enough to make runs reproducible without being a tunable.
const treeSeed = 0x4b4f534d4f

// Simulator runs the Kosmo algorithm for one eviction policy over one
// grid of target cache sizes.
type Simulator struct {
	tree  *otree.Tree
	index map[uint64]*otree.Node
	pol   policy.Instance
	grid  *mrc.Grid
	tick  uint64
}

// New builds a Simulator for the given policy tag, working set size, and
// grid point count.
func New(tag policy.Tag, wss uint64, points int) (*Simulator, error) {
	pol, err := factory.New(tag, wss)
	if err != nil {
		return nil, fmt.Errorf("kosmo: %w", err)
	}
	g, err := mrc.NewGrid(wss, points)
	if err != nil {
		return nil, fmt.Errorf("kosmo: %w", err)
	}
	return &Simulator{
		tree:  otree.New(pol.Less, treeSeed),
		index: make(map[uint64]*otree.Node),
		pol:   pol,
		grid:  g,
	}, nil
}

// Observe feeds one (sampled) GET access through the simulator.
func (s *Simulator) Observe(a access.Access) {
	s.tick++

	if n, ok := s.index[a.Key]; ok {
		// The minimum capacity that would have kept this object resident
		// since its previous access: everything less evictable than it,
		// plus its own bytes. The +own-bytes term is required for the
		// "object larger than C_G is a miss at every grid point" boundary
		// behavior to hold (a bare prefix sum can be 0 for an otherwise
		// untouched oversized object) and matches the spec's single-key
		// scenario exactly; see DESIGN.md for the resulting conflict with
		// the two-object FIFO scenario's prose, which this formula does
		// not reproduce literally (pinned by TestScenario5_FIFOTwoObjectEviction).
		b := s.tree.PrefixSize(n) + uint64(n.Size)
		s.grid.Observe(b)

		payload, moved := s.pol.OnAccess(s.tick, n.Payload)
		if moved {
			s.tree.Reposition(n, func(node *otree.Node) { node.Payload = payload })
			s.pol.Promote(n)
		} else {
			n.Payload = payload
		}
		if a.Size != n.Size {
			s.tree.UpdateSize(n, a.Size)
		}
		return
	}

	// First touch (Kosmo never evicts, so a key is missing from the index
	// only before its first access): misses every cache size in the grid.
	s.grid.RecordMissAll()

	var payload any
	if gp, hit := s.pol.OnGhostHit(s.tick, a.Key); hit {
		payload = gp
	} else {
		payload = s.pol.OnAdmit(s.tick)
	}
	n := s.tree.Insert(a.Key, a.Size, payload)
	s.index[a.Key] = n
	s.pol.Track(n)
}

// Grid exposes the raw hit/miss counters for finalizing into an MRC.
func (s *Simulator) Grid() *mrc.Grid { return s.grid }
