// Package shards implements SHARDS spatial sampling (Waldspurger et al.,
// "Efficient MRC Construction with SHARDS"): a hash-threshold admission
// filter that lets Kosmo and MiniSim track only a fraction of the key
// space while still producing a representative MRC.
//
// Two modes are supported, matching the paper's SHARDS_FR (fixed-rate)
// and SHARDS_Sm (fixed-size) variants:
//
//   - Fixed-rate: a key is admitted iff hash(key) falls below a constant
//     threshold set from the target rate. The admitted fraction of the
//     key space stays constant for the whole run.
//   - Fixed-size: the threshold starts at its maximum and shrinks as
//     distinct admitted keys accumulate past Smax, evicting the
//     highest-hash admitted key each time — bounding sampled-set size
//     (and therefore simulator memory) regardless of trace length.
//
// Grounded on the pack's hashing and ordered-set libraries: hashing
// follows spaolacci/murmur3 (pulled in via jonathanfoster-loki's and
// TheEntropyCollective-noisefs's go.mod in the retrieval pack), and the
// fixed-size mode's shrinking-threshold set is kept in a google/btree
// ordered tree (rishabhverma17-HyperCache's go.mod) rather than a plain
// sorted slice, since admitted hashes are inserted and the maximum
// evicted repeatedly as the trace streams by.
package shards

import (
	"encoding/binary"
	"math"

	"github.com/google/btree"
	"github.com/spaolacci/murmur3"
)

// P is the SHARDS hash modulus from spec.md §4.4: thresholds and rates
// are expressed as T/P, with P = 2^24.
const P = 16_777_216

// Mode selects a SHARDS sampling variant.
type Mode int

const (
	FixedRate Mode = iota
	FixedSize
)

// Sampler is a streaming SHARDS admission filter. Not safe for
// concurrent use.
type Sampler struct {
	mode Mode
	seed uint32

	rateThreshold uint64 // FixedRate: constant admission threshold

	smax      int // FixedSize: maximum distinct admitted keys
	threshold uint64
	admitted  map[uint64]uint64 // key -> hash, for currently admitted keys
	hashOwner map[uint64]uint64 // hash -> key, reverse index for eviction
	byHash    *btree.BTreeG[uint64]
}

// NewFixedRate builds a sampler admitting a constant rate in (0, 1] of
// the key space.
func NewFixedRate(rate float64, seed uint32) *Sampler {
	if rate <= 0 {
		rate = 1e-9
	}
	// float64(math.MaxUint64) rounds up to 2^64, which does not convert
	// back to a uint64, so rate 1 takes the maximum threshold directly.
	threshold := uint64(math.MaxUint64)
	if rate < 1 {
		threshold = uint64(rate * float64(math.MaxUint64))
	}
	return &Sampler{
		mode:          FixedRate,
		seed:          seed,
		rateThreshold: threshold,
	}
}

// NewFixedRateThreshold builds a fixed-rate sampler from the raw integer
// threshold T over modulus P (spec.md §4.4's `--shards-t`), rather than a
// derived 0..1 rate: T = P is the documented no-op (scenario 4).
func NewFixedRateThreshold(t int, seed uint32) *Sampler {
	return NewFixedRate(float64(t)/float64(P), seed)
}

// NewFixedSize builds a sampler that bounds the sampled key set at smax
// distinct keys, shrinking its effective rate as the trace grows.
func NewFixedSize(smax int, seed uint32) *Sampler {
	if smax < 1 {
		smax = 1
	}
	return &Sampler{
		mode:      FixedSize,
		seed:      seed,
		smax:      smax,
		threshold: math.MaxUint64,
		admitted:  make(map[uint64]uint64),
		hashOwner: make(map[uint64]uint64),
		byHash:    btree.NewG(32, func(a, b uint64) bool { return a < b }),
	}
}

func (s *Sampler) hash(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return murmur3.Sum64WithSeed(buf[:], s.seed)
}

// Admit reports whether key should be tracked by the simulators.
func (s *Sampler) Admit(key uint64) bool {
	if s.mode == FixedRate {
		return s.hash(key) < s.rateThreshold
	}
	return s.admitFixedSize(key)
}

func (s *Sampler) admitFixedSize(key uint64) bool {
	if _, seen := s.admitted[key]; seen {
		// Still in the sample: every key in the admitted set has a hash at
		// or below the current threshold, because lowering the threshold
		// drops the highest-hash key from the set (below). A key dropped
		// that way is rejected from then on, but the simulators keep the
		// state they already built for it; Correction stays 0 in both
		// modes (see DESIGN.md).
		return true
	}
	h := s.hash(key)
	if h > s.threshold {
		return false
	}
	s.admitted[key] = h
	s.hashOwner[h] = key
	s.byHash.ReplaceOrInsert(h)

	if len(s.admitted) > s.smax {
		maxH, ok := s.byHash.Max()
		if ok {
			s.byHash.Delete(maxH)
			if owner, ok := s.hashOwner[maxH]; ok {
				delete(s.admitted, owner)
				delete(s.hashOwner, maxH)
			}
		}
		if newMax, ok := s.byHash.Max(); ok {
			s.threshold = newMax
		}
	}
	return true
}

// Rate returns the sampler's current effective admission rate: constant
// for FixedRate, shrinking over the run for FixedSize.
func (s *Sampler) Rate() float64 {
	if s.mode == FixedRate {
		return float64(s.rateThreshold) / float64(math.MaxUint64)
	}
	return float64(s.threshold) / float64(math.MaxUint64)
}

// Scale converts a byte count accumulated over sampled keys back into an
// estimate of its true value (e.g. working set size), correcting for the
// fraction of the key space that was never admitted.
func (s *Sampler) Scale(sampledBytes uint64) uint64 {
	r := s.Rate()
	if r <= 0 {
		return sampledBytes
	}
	return uint64(float64(sampledBytes) / r)
}

// Correction returns the additive term SHARDS contributes to an MRC
// point's denominator (see internal/mrc.Finalize). Both modes admit or
// reject a key independently of grid size, so the hit/miss ratio itself
// is already unbiased by the sampling rate; 0 in both modes.
func (s *Sampler) Correction() float64 { return 0 }
