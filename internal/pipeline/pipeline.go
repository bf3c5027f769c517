// Package pipeline wires a trace reader, an optional SHARDS sampler, and
// one Kosmo and/or MiniSim simulator per requested eviction policy into a single
// concurrent run: one goroutine reads and samples the trace, fanning
// sampled accesses out over buffered channels to per-policy simulator
// goroutines, with golang.org/x/sync/errgroup managing the whole group's
// lifecycle and error propagation — the same fan-out-over-channels shape
// the teacher's cache_test.go exercises with errgroup, generalized here
// from a one-shot concurrent-request test into the module's actual
// run loop.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/kosmo-mrc/kosmo/internal/access"
	"github.com/kosmo-mrc/kosmo/internal/kerrors"
	"github.com/kosmo-mrc/kosmo/internal/kosmo"
	"github.com/kosmo-mrc/kosmo/internal/minisim"
	"github.com/kosmo-mrc/kosmo/internal/mrc"
	"github.com/kosmo-mrc/kosmo/internal/policy"
	"github.com/kosmo-mrc/kosmo/internal/shards"
	"github.com/kosmo-mrc/kosmo/internal/trace"
)

// chanBuf is the per-simulator channel depth: large enough to absorb
// scheduling jitter between the single reader goroutine and however many
// policies are running concurrently, small enough not to let a slow
// simulator buffer the entire trace in memory.
const chanBuf = 4096

// RunType selects between the two scheduling modes spec.md §5 requires.
type RunType string

const (
	// RunMemory streams accesses with progress reporting active and
	// reports the process's peak resident set size at the end.
	RunMemory RunType = "memory"

	// RunThroughput loads the trace into memory once, then replays it in
	// one contiguous batch with progress reporting paused, measuring
	// peak accesses/second.
	RunThroughput RunType = "throughput"
)

// Metrics receives progress counters as the pipeline runs. A nil Metrics
// in Config is a valid no-op.
type Metrics interface {
	Access()
	Sampled()
	Get()
	Set()
	ObserveMAE(policyTag, algorithm string, mae float64)
	RSS(bytes uint64)
	Elapsed(seconds float64)
	Throughput(accessesPerSecond float64)
}

// Config describes one pipeline run.
type Config struct {
	TracePath string
	WSS       uint64
	Points    int

	// KosmoPolicies and MiniSimPolicies are independent: a policy tag
	// missing from one list leaves that simulator untouched for it.
	// Both empty is a caller error (internal/kerrors.ErrArgInvalid).
	KosmoPolicies   []policy.Tag
	MiniSimPolicies []policy.Tag

	// Sampler, if non-nil, filters accesses through SHARDS before they
	// reach any simulator.
	Sampler *shards.Sampler

	// Reference, if non-empty, holds the accurate MRC for each policy
	// (keyed by tag) to compute MAE against, for whichever algorithm(s)
	// ran that tag.
	Reference map[policy.Tag][]mrc.Point

	Metrics Metrics

	// RunType selects the scheduling mode; the zero value is RunMemory.
	RunType RunType
}

// Result holds one (algorithm, policy) pair's finalized MRC.
type Result struct {
	Algorithm string // "kosmo" or "minisim"
	Policy    policy.Tag
	MRC       []mrc.Point
	MAE       float64
	HasMAE    bool
}

// Run executes the configured pipeline to completion and returns one
// Result per (algorithm, policy) pair requested, Kosmo results first in
// Config.KosmoPolicies order, then MiniSim results in Config.MiniSimPolicies
// order.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	runType := cfg.RunType
	if runType == "" {
		runType = RunMemory
	}
	if runType != RunMemory && runType != RunThroughput {
		return nil, fmt.Errorf("pipeline: %w: run type %q, want %q or %q",
			kerrors.ErrArgInvalid, runType, RunMemory, RunThroughput)
	}
	if len(cfg.KosmoPolicies) == 0 && len(cfg.MiniSimPolicies) == 0 {
		return nil, fmt.Errorf("pipeline: %w: both simulators disabled", kerrors.ErrArgInvalid)
	}

	g, gctx := errgroup.WithContext(ctx)

	kosmoChans := make(map[policy.Tag]chan access.Access, len(cfg.KosmoPolicies))
	miniChans := make(map[policy.Tag]chan access.Access, len(cfg.MiniSimPolicies))
	kosmoGrids := make(map[policy.Tag]*mrc.Grid, len(cfg.KosmoPolicies))
	miniGrids := make(map[policy.Tag]*mrc.Grid, len(cfg.MiniSimPolicies))

	for _, tag := range cfg.KosmoPolicies {
		tag := tag
		ch := make(chan access.Access, chanBuf)
		kosmoChans[tag] = ch
		g.Go(func() error {
			sim, err := kosmo.New(tag, cfg.WSS, cfg.Points)
			if err != nil {
				return err
			}
			for a := range ch {
				sim.Observe(a)
			}
			kosmoGrids[tag] = sim.Grid()
			return nil
		})
	}
	for _, tag := range cfg.MiniSimPolicies {
		tag := tag
		ch := make(chan access.Access, chanBuf)
		miniChans[tag] = ch
		g.Go(func() error {
			sim, err := minisim.New(tag, cfg.WSS, cfg.Points)
			if err != nil {
				return err
			}
			for a := range ch {
				sim.Observe(a)
			}
			miniGrids[tag] = sim.Grid()
			return nil
		})
	}

	dispatch := func(a access.Access) {
		for _, tag := range cfg.KosmoPolicies {
			kosmoChans[tag] <- a
		}
		for _, tag := range cfg.MiniSimPolicies {
			miniChans[tag] <- a
		}
	}
	closeAll := func() {
		for _, ch := range kosmoChans {
			close(ch)
		}
		for _, ch := range miniChans {
			close(ch)
		}
	}
	observe := func(a access.Access) {
		if cfg.Metrics != nil {
			cfg.Metrics.Access()
		}
		if a.Op == access.Set {
			if cfg.Metrics != nil {
				cfg.Metrics.Set()
			}
			return
		}
		if cfg.Metrics != nil {
			cfg.Metrics.Get()
		}
		if cfg.Sampler != nil && !cfg.Sampler.Admit(a.Key) {
			return
		}
		if cfg.Metrics != nil {
			cfg.Metrics.Sampled()
		}
		if cfg.Sampler != nil {
			// An admitted object stands for size/R bytes of the full
			// trace, which is what the grid's sizes are measured in.
			scaled := cfg.Sampler.Scale(uint64(a.Size))
			if scaled > 1<<32-1 {
				scaled = 1<<32 - 1
			}
			a.Size = uint32(scaled)
		}
		dispatch(a)
	}

	var start time.Time
	var totalAccesses int64

	switch runType {
	case RunThroughput:
		// Load the whole trace into memory up front, then replay it in
		// one contiguous batch with progress reporting paused: this
		// isolates processing time from trace-file I/O so the resulting
		// rate reflects peak accesses/second, per spec.md §5.
		r, err := trace.Open(cfg.TracePath)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		var batch []access.Access
		for {
			a, ok, err := r.Next()
			if err != nil {
				r.Close()
				return nil, fmt.Errorf("pipeline: %w", err)
			}
			if !ok {
				break
			}
			batch = append(batch, a)
		}
		r.Close()

		start = time.Now()
		g.Go(func() error {
			defer closeAll()
			for _, a := range batch {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				observe(a)
				totalAccesses++
			}
			return nil
		})

	case RunMemory:
		r, err := trace.Open(cfg.TracePath)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}

		start = time.Now()
		g.Go(func() error {
			defer r.Close()
			defer closeAll()

			bar := progressbar.Default(-1, "simulating")
			defer bar.Close()

			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				a, ok, err := r.Next()
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				observe(a)
				totalAccesses++
				_ = bar.Add(1)
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	elapsed := time.Since(start).Seconds()
	if cfg.Metrics != nil {
		cfg.Metrics.Elapsed(elapsed)
		switch runType {
		case RunThroughput:
			if elapsed > 0 {
				cfg.Metrics.Throughput(float64(totalAccesses) / elapsed)
			}
		case RunMemory:
			if rss, err := rssHighWaterMark(); err == nil {
				cfg.Metrics.RSS(rss)
			}
		}
	}

	delta := 0.0
	if cfg.Sampler != nil {
		delta = cfg.Sampler.Correction()
	}

	results := make([]Result, 0, len(cfg.KosmoPolicies)+len(cfg.MiniSimPolicies))
	for _, tag := range cfg.KosmoPolicies {
		res := Result{Algorithm: "kosmo", Policy: tag, MRC: mrc.Finalize(kosmoGrids[tag], delta)}
		if ref, ok := cfg.Reference[tag]; ok {
			res.HasMAE = true
			res.MAE = mrc.MAE(res.MRC, ref)
			if cfg.Metrics != nil {
				cfg.Metrics.ObserveMAE(string(tag), res.Algorithm, res.MAE)
			}
		}
		results = append(results, res)
	}
	for _, tag := range cfg.MiniSimPolicies {
		res := Result{Algorithm: "minisim", Policy: tag, MRC: mrc.Finalize(miniGrids[tag], delta)}
		if ref, ok := cfg.Reference[tag]; ok {
			res.HasMAE = true
			res.MAE = mrc.MAE(res.MRC, ref)
			if cfg.Metrics != nil {
				cfg.Metrics.ObserveMAE(string(tag), res.Algorithm, res.MAE)
			}
		}
		results = append(results, res)
	}
	return results, nil
}
