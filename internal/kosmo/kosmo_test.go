package kosmo

import (
	"math/rand"
	"testing"

	"github.com/kosmo-mrc/kosmo/internal/access"
	"github.com/kosmo-mrc/kosmo/internal/minisim"
	"github.com/kosmo-mrc/kosmo/internal/policy"
)

func TestSimulator_BasicHitMiss(t *testing.T) {
	s, err := New(policy.LRU, 100, 10)
	if err != nil {
		t.Fatal(err)
	}
	s.Observe(access.Access{Key: 1, Size: 10})
	s.Observe(access.Access{Key: 1, Size: 10})

	g := s.Grid()
	// Smallest grid point (C=10) should have seen exactly 1 miss, 1 hit:
	// the object is 10 bytes and the cache is exactly large enough.
	hits, misses := g.Counts(0)
	if hits != 1 || misses != 1 {
		t.Fatalf("got hits=%d misses=%d at smallest grid point, want 1/1", hits, misses)
	}
}

func TestSimulator_KosmoMatchesMiniSimForLRU(t *testing.T) {
	const wss = 500
	const points = 20

	k, err := New(policy.LRU, wss, points)
	if err != nil {
		t.Fatal(err)
	}
	m, err := minisim.New(policy.LRU, wss, points)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		a := access.Access{Key: uint64(rng.Intn(50)), Size: uint32(1 + rng.Intn(20))}
		k.Observe(a)
		m.Observe(a)
	}

	kg, mg := k.Grid(), m.Grid()
	if kg.Len() != mg.Len() {
		t.Fatalf("grid length mismatch: %d vs %d", kg.Len(), mg.Len())
	}
	for i := 0; i < kg.Len(); i++ {
		kh, kmiss := kg.Counts(i)
		mh, mmiss := mg.Counts(i)
		if kh != mh || kmiss != mmiss {
			t.Fatalf("grid point %d (size %d): kosmo hits=%d misses=%d, minisim hits=%d misses=%d",
				i, kg.Sizes[i], kh, kmiss, mh, mmiss)
		}
	}
}

// TestScenario3_SingleKeyLFU reproduces spec.md §8 scenario 3 literally:
// a single key accessed twice, WSS=100, grid C_1..C_100. First access
// misses every grid point; second access hits only C_100 (the whole
// object must fit) and misses every smaller point. This pins down the
// PrefixSize+ownSize convention used by Observe (see the b computation
// in kosmo.go and TestScenario5_FIFOTwoObjectEviction below for the
// spec.md passage it conflicts with).
func TestScenario3_SingleKeyLFU(t *testing.T) {
	s, err := New(policy.LFU, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	s.Observe(access.Access{Key: 7, Size: 100})
	s.Observe(access.Access{Key: 7, Size: 100})

	g := s.Grid()
	for i, size := range g.Sizes {
		hits, misses := g.Counts(i)
		if size < 100 {
			if hits != 0 || misses != 2 {
				t.Fatalf("grid point %d (size %d): got hits=%d misses=%d, want 0/2", i, size, hits, misses)
			}
			continue
		}
		if hits != 1 || misses != 1 {
			t.Fatalf("grid point %d (size %d): got hits=%d misses=%d, want 1/1", i, size, hits, misses)
		}
	}
}

// TestScenario5_FIFOTwoObjectEviction reproduces the trace from spec.md
// §8 scenario 5: GET k=1 s=50, GET k=2 s=50, GET k=1 s=50, WSS=100.
//
// spec.md's prose claims the third access sees "prefix byte-size = 50"
// and hits at grid points >= 50. That can't hold simultaneously with
// scenario 3 above (and with the separate "object larger than C_G is a
// miss at every grid point" boundary behavior, which requires an
// object's own size to count toward its hit threshold): scenario 3's
// single key has no other entry ahead of it in FIFO/LFU order, so a
// bare prefix sum would be 0 and it would hit at every grid point,
// contradicting scenario 3's literal (100, 0.5) output. The two
// concrete scenarios are mutually exclusive under one formula; see
// DESIGN.md for the resolution. Observe keeps PrefixSize+ownSize (the
// formula scenario 3 and the oversized-object boundary behavior need),
// so this test documents and pins the resulting, scenario-5-prose-
// contradicting behavior: the third access here hits only at grid
// points >= 100 (k2's 50 bytes ahead of k1 in FIFO order, plus k1's
// own 50 bytes), not >= 50.
func TestScenario5_FIFOTwoObjectEviction(t *testing.T) {
	s, err := New(policy.FIFO, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	s.Observe(access.Access{Key: 1, Size: 50})
	s.Observe(access.Access{Key: 2, Size: 50})
	s.Observe(access.Access{Key: 1, Size: 50})

	g := s.Grid()
	for i, size := range g.Sizes {
		hits, _ := g.Counts(i)
		wantHit := size >= 100
		gotHit := hits == 1
		if gotHit != wantHit {
			t.Fatalf("grid point %d (size %d): got hit=%v, want hit=%v (threshold is prefix+own-size 100, not the spec prose's 50)",
				i, size, gotHit, wantHit)
		}
	}
}

func TestSimulator_PrefixSizeMonotonicUnderLRU(t *testing.T) {
	s, err := New(policy.LRU, 1000, 10)
	if err != nil {
		t.Fatal(err)
	}
	// Touching the same key repeatedly with nothing else resident must
	// always report the same minimum retaining capacity (just its own
	// size): nothing else has been touched more recently.
	for i := 0; i < 5; i++ {
		s.Observe(access.Access{Key: 7, Size: 42})
	}
	g := s.Grid()
	for i, size := range g.Sizes {
		_, misses := g.Counts(i)
		if size >= 42 && misses != 1 {
			t.Fatalf("grid point %d (size %d): got %d misses, want 1 (only the first touch)", i, size, misses)
		}
	}
}
