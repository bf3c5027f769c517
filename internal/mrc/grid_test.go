package mrc

import (
	"errors"
	"testing"

	"github.com/kosmo-mrc/kosmo/internal/kerrors"
)

func TestNewGrid_ZeroWSS(t *testing.T) {
	t.Parallel()
	if _, err := NewGrid(0, 100); !errors.Is(err, kerrors.ErrDegenerateWSS) {
		t.Fatalf("got %v, want ErrDegenerateWSS", err)
	}
}

func TestNewGrid_LinearSpacing(t *testing.T) {
	t.Parallel()
	g, err := NewGrid(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 100 {
		t.Fatalf("got %d points, want 100", g.Len())
	}
	if g.Sizes[0] != 1 || g.Sizes[99] != 100 {
		t.Fatalf("got first=%d last=%d, want 1 and 100", g.Sizes[0], g.Sizes[99])
	}
}

func TestGrid_Observe_SplitsHitsAndMisses(t *testing.T) {
	t.Parallel()
	g, err := NewGrid(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	g.Observe(50) // hit at C_i >= 50, miss below

	for i, size := range g.Sizes {
		hits, misses := g.Counts(i)
		wantHit, wantMiss := int64(0), int64(1)
		if size >= 50 {
			wantHit, wantMiss = 1, 0
		}
		if hits != wantHit || misses != wantMiss {
			t.Fatalf("grid point %d (size %d): got hits=%d misses=%d, want %d/%d",
				i, size, hits, misses, wantHit, wantMiss)
		}
	}
}

func TestFinalize_EmptyTraceReportsOne(t *testing.T) {
	t.Parallel()
	g, err := NewGrid(100, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range Finalize(g, 0) {
		if p.MissRatio != 1.0 {
			t.Fatalf("got %v, want 1.0 for an untouched grid point", p.MissRatio)
		}
	}
}

func TestFinalize_SingleKeyRepeated(t *testing.T) {
	t.Parallel()
	g, err := NewGrid(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	// First access: miss everywhere.
	g.RecordMissAll()
	// 9 more accesses, all hits at every size (object fully resident).
	for i := 0; i < 9; i++ {
		g.Observe(0)
	}

	points := Finalize(g, 0)
	last := points[len(points)-1]
	if last.MissRatio != 0.1 {
		t.Fatalf("got %v at C_100, want 0.1 (1 miss / 10 total)", last.MissRatio)
	}
}

func TestMAE_ComputesMeanAbsoluteError(t *testing.T) {
	t.Parallel()
	est := []Point{{CacheSize: 1, MissRatio: 0.5}, {CacheSize: 2, MissRatio: 0.2}}
	ref := []Point{{CacheSize: 1, MissRatio: 0.4}, {CacheSize: 2, MissRatio: 0.3}}
	got := MAE(est, ref)
	want := 0.1
	if got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}
