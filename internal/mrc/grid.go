// Package mrc builds the cache-size grid, accumulates hit/miss counters
// for it, and finalizes those counters into a miss-ratio curve.
package mrc

import (
	"fmt"

	"github.com/kosmo-mrc/kosmo/internal/kerrors"
	"github.com/kosmo-mrc/kosmo/internal/util"
)

// DefaultPoints is the default grid size G.
const DefaultPoints = 100

// Grid holds G linearly spaced target cache sizes, C_1=WSS/G ... C_G=WSS,
// each with its own hit and miss counter. Hit/miss counters are padded to
// a cache line: Kosmo and MiniSim each update their own Grid concurrently
// from their own goroutine, so false sharing between adjacent grid points
// would otherwise show up under -race-style contention profiling.
type Grid struct {
	Sizes []uint64

	hits   []util.PaddedAtomicInt64
	misses []util.PaddedAtomicInt64
}

// NewGrid builds a grid of n linearly spaced sizes from wss/n to wss.
// wss == 0 is a numeric-degenerate error: no grid can be constructed.
func NewGrid(wss uint64, n int) (*Grid, error) {
	if wss == 0 {
		return nil, kerrors.ErrDegenerateWSS
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: grid point count must be > 0, got %d", kerrors.ErrArgInvalid, n)
	}

	sizes := make([]uint64, n)
	for i := 0; i < n; i++ {
		// C_i = i_1-based * wss/n, linearly spaced from wss/n to wss.
		sizes[i] = uint64(float64(wss) * float64(i+1) / float64(n))
		if sizes[i] == 0 {
			sizes[i] = 1
		}
	}
	return &Grid{
		Sizes:  sizes,
		hits:   make([]util.PaddedAtomicInt64, n),
		misses: make([]util.PaddedAtomicInt64, n),
	}, nil
}

// Len returns G, the number of grid points.
func (g *Grid) Len() int { return len(g.Sizes) }

// RecordMiss increments the miss counter for grid point i.
func (g *Grid) RecordMiss(i int) { g.misses[i].Add(1) }

// RecordHit increments the hit counter for grid point i.
func (g *Grid) RecordHit(i int) { g.hits[i].Add(1) }

// RecordMissAll increments the miss counter for every grid point (the
// first-touch / miss path, which misses every size).
func (g *Grid) RecordMissAll() {
	for i := range g.misses {
		g.misses[i].Add(1)
	}
}

// Observe records a hit at every grid point with C_i >= b (the reuse
// byte-distance) and a miss at every grid point with C_i < b.
func (g *Grid) Observe(b uint64) {
	for i, c := range g.Sizes {
		if c >= b {
			g.hits[i].Add(1)
		} else {
			g.misses[i].Add(1)
		}
	}
}

// Counts returns the raw (hits, misses) pair at grid point i.
func (g *Grid) Counts(i int) (hits, misses int64) {
	return g.hits[i].Load(), g.misses[i].Load()
}
