package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/kosmo-mrc/kosmo/internal/kerrors"
	"github.com/kosmo-mrc/kosmo/internal/mrc"
	"github.com/kosmo-mrc/kosmo/internal/pipeline"
	"github.com/kosmo-mrc/kosmo/internal/plot"
	"github.com/kosmo-mrc/kosmo/internal/policy"
	"github.com/kosmo-mrc/kosmo/internal/refcsv"
	"github.com/kosmo-mrc/kosmo/internal/shards"
	"github.com/kosmo-mrc/kosmo/internal/wss"
	"github.com/kosmo-mrc/kosmo/metrics/prom"
)

func newMRCCmd() *cobra.Command {
	var (
		tracePath    string
		kosmoTags    []string
		miniSimTags  []string
		points       int
		wssHint      uint64
		outDir       string
		accuratePath string
		shardsT      int
		shardsS      int
		runType      string
		metricsAddr  string
		plotPDF      bool
	)

	cmd := &cobra.Command{
		Use:   "mrc",
		Short: "Run Kosmo and MiniSim over a trace, optionally under SHARDS sampling",
		RunE: func(cmd *cobra.Command, args []string) error {
			kosmoPolicies, err := parseTags(kosmoTags)
			if err != nil {
				return err
			}
			miniSimPolicies, err := parseTags(miniSimTags)
			if err != nil {
				return err
			}
			if len(kosmoPolicies) == 0 && len(miniSimPolicies) == 0 {
				return fmt.Errorf("%w: at least one of --kosmo-policy or --minisim-policy is required", kerrors.ErrArgInvalid)
			}

			rt := pipeline.RunType(runType)
			if rt != pipeline.RunMemory && rt != pipeline.RunThroughput {
				return fmt.Errorf("%w: --run-type must be %q or %q, got %q",
					kerrors.ErrArgInvalid, pipeline.RunMemory, pipeline.RunThroughput, runType)
			}

			size := wssHint
			if size == 0 {
				size, err = wss.Scan(tracePath)
				if err != nil {
					return err
				}
			}
			if points <= 0 {
				points = mrc.DefaultPoints
			}
			fmt.Fprintf(cmd.OutOrStdout(), "working set size: %s\n", humanize.IBytes(size))

			var sampler *shards.Sampler
			switch {
			case shardsS > 0:
				sampler = shards.NewFixedSize(shardsS, 0)
			case shardsT > 0:
				sampler = shards.NewFixedRateThreshold(shardsT, 0)
			}

			var reference map[policy.Tag][]mrc.Point
			if accuratePath != "" {
				pts, err := refcsv.Load(accuratePath)
				if err != nil {
					return err
				}
				reference = make(map[policy.Tag][]mrc.Point, len(kosmoPolicies)+len(miniSimPolicies))
				for _, t := range kosmoPolicies {
					reference[t] = pts
				}
				for _, t := range miniSimPolicies {
					reference[t] = pts
				}
			}

			var metrics pipeline.Metrics
			if metricsAddr != "" {
				adapter := prom.New(nil, "kosmo", "mrc", nil)
				metrics = adapter
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go http.ListenAndServe(metricsAddr, mux)
			}

			results, err := pipeline.Run(cmd.Context(), pipeline.Config{
				TracePath:       tracePath,
				WSS:             size,
				Points:          points,
				KosmoPolicies:   kosmoPolicies,
				MiniSimPolicies: miniSimPolicies,
				Sampler:         sampler,
				Reference:       reference,
				Metrics:         metrics,
				RunType:         rt,
			})
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return err
				}
			}
			for _, r := range results {
				if err := writeResult(outDir, r, plotPDF); err != nil {
					return err
				}
				if r.HasMAE {
					fmt.Fprintf(cmd.OutOrStdout(), "%s/%s: MAE=%.6f\n", r.Policy, r.Algorithm, r.MAE)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tracePath, "path", "", "path to the binary trace file (required)")
	cmd.Flags().StringSliceVar(&kosmoTags, "kosmo-policy", nil,
		fmt.Sprintf("policies Kosmo runs, comma-separated: one or more of %v (omit to disable Kosmo)", policy.AllTags))
	cmd.Flags().StringSliceVar(&miniSimTags, "minisim-policy", nil,
		fmt.Sprintf("policies MiniSim runs, comma-separated: one or more of %v (omit to disable MiniSim)", policy.AllTags))
	cmd.Flags().IntVar(&points, "points", mrc.DefaultPoints, "number of grid points")
	cmd.Flags().Uint64Var(&wssHint, "wss", 0, "working set size in bytes (0 = compute it first)")
	cmd.Flags().StringVar(&outDir, "output-path", "mrc-out", "output directory for CSVs (and PDFs with --plot)")
	cmd.Flags().StringVar(&accuratePath, "accurate-path", "", "accurate reference CSV to compute MAE against")
	cmd.Flags().IntVar(&shardsT, "shards-t", 0, fmt.Sprintf("SHARDS fixed-rate threshold T over P=%d; 0 disables", shards.P))
	cmd.Flags().IntVar(&shardsS, "shards-s", 0, "SHARDS fixed-size sample cap S_max; 0 disables (overrides --shards-t)")
	cmd.Flags().StringVar(&runType, "run-type", string(pipeline.RunMemory),
		fmt.Sprintf("scheduling mode: %q (streamed progress, reports peak RSS) or %q (batched, reports peak accesses/sec)",
			pipeline.RunMemory, pipeline.RunThroughput))
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics at this address (e.g. :9090); empty disables")
	cmd.Flags().BoolVar(&plotPDF, "plot", false, "also render a PDF plot per policy/algorithm")
	cmd.MarkFlagRequired("path")
	return cmd
}

// parseTags validates a raw --kosmo-policy/--minisim-policy value list
// against the known policy tags via policy.ParseTag, failing fast (before
// any I/O) on an unrecognized one.
func parseTags(raw []string) ([]policy.Tag, error) {
	tags := make([]policy.Tag, 0, len(raw))
	for _, t := range raw {
		tag, err := policy.ParseTag(strings.TrimSpace(t))
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func writeResult(outDir string, r pipeline.Result, withPlot bool) error {
	base := string(r.Policy) + "." + r.Algorithm
	if outDir != "" {
		base = filepath.Join(outDir, base)
	}

	if err := refcsv.Save(base+".csv", r.MRC); err != nil {
		return err
	}
	if !withPlot {
		return nil
	}
	return plot.Save(r.MRC, string(r.Policy)+" ("+r.Algorithm+")", base+".pdf")
}
