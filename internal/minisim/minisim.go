// Package minisim implements the MiniSim baseline: G independent,
// really-evicting fixed-capacity caches, one per grid point, each a
// direct simulation of the target policy at that one cache size. It
// exists to validate Kosmo's single-pass byte-prefix trick against a
// straightforward multi-cache simulation, and shares otree/policy with
// internal/kosmo so both run the exact same eviction semantics.
//
// Grounded on the teacher's cache.shard.go: MiniSim's per-grid-point
// cache is the same "index map + ordering structure + capacity-bound
// evict loop" shape as one teacher shard, just with the intrusive list
// swapped for the shared otree.Tree.
package minisim

import (
	"fmt"

	"github.com/kosmo-mrc/kosmo/internal/access"
	"github.com/kosmo-mrc/kosmo/internal/mrc"
	"github.com/kosmo-mrc/kosmo/internal/otree"
	"github.com/kosmo-mrc/kosmo/internal/policy"
	"github.com/kosmo-mrc/kosmo/internal/policy/factory"
)

const treeSeedBase = 0x4d494e49

type gridCache struct {
	tree     *otree.Tree
	index    map[uint64]*otree.Node
	pol      policy.Instance
	capacity uint64
}

// Simulator runs MiniSim for one eviction policy over one grid of target
// cache sizes.
type Simulator struct {
	caches []*gridCache
	grid   *mrc.Grid
	tick   uint64
}

// New builds a Simulator for the given policy tag, working set size, and
// grid point count.
func New(tag policy.Tag, wss uint64, points int) (*Simulator, error) {
	g, err := mrc.NewGrid(wss, points)
	if err != nil {
		return nil, fmt.Errorf("minisim: %w", err)
	}

	caches := make([]*gridCache, g.Len())
	for i, c := range g.Sizes {
		pol, err := factory.New(tag, c)
		if err != nil {
			return nil, fmt.Errorf("minisim: %w", err)
		}
		caches[i] = &gridCache{
			tree:     otree.New(pol.Less, treeSeedBase+int64(i)),
			index:    make(map[uint64]*otree.Node),
			pol:      pol,
			capacity: c,
		}
	}
	return &Simulator{caches: caches, grid: g}, nil
}

// Observe feeds one (sampled) GET access through every grid point's
// independent cache.
func (s *Simulator) Observe(a access.Access) {
	s.tick++
	for i, c := range s.caches {
		if n, ok := c.index[a.Key]; ok {
			s.grid.RecordHit(i)

			payload, moved := c.pol.OnAccess(s.tick, n.Payload)
			if moved {
				c.tree.Reposition(n, func(node *otree.Node) { node.Payload = payload })
				c.pol.Promote(n)
			} else {
				n.Payload = payload
			}
			if a.Size != n.Size {
				c.tree.UpdateSize(n, a.Size)
				// A grown object can push the cache past its capacity.
				for c.tree.TotalSize() > c.capacity {
					v := c.pol.Victim(c.tree)
					if v == nil {
						break
					}
					delete(c.index, v.Key)
					c.tree.Remove(v)
					c.pol.Evict(v)
				}
			}
			continue
		}

		s.grid.RecordMiss(i)

		var payload any
		if gp, hit := c.pol.OnGhostHit(s.tick, a.Key); hit {
			payload = gp
		} else {
			payload = c.pol.OnAdmit(s.tick)
		}
		n := c.tree.Insert(a.Key, a.Size, payload)
		c.index[a.Key] = n
		c.pol.Track(n)

		for c.tree.TotalSize() > c.capacity {
			v := c.pol.Victim(c.tree)
			if v == nil {
				break
			}
			delete(c.index, v.Key)
			c.tree.Remove(v)
			c.pol.Evict(v)
		}
	}
}

// Grid exposes the raw hit/miss counters for finalizing into an MRC.
func (s *Simulator) Grid() *mrc.Grid { return s.grid }
