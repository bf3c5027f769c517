package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kosmo-mrc/kosmo/internal/accurate"
	"github.com/kosmo-mrc/kosmo/internal/mrc"
	"github.com/kosmo-mrc/kosmo/internal/policy"
	"github.com/kosmo-mrc/kosmo/internal/refcsv"
	"github.com/kosmo-mrc/kosmo/internal/wss"
)

func newAccurateCmd() *cobra.Command {
	var (
		tracePath string
		policyTag string
		points    int
		wssHint   uint64
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "accurate",
		Short: "Generate the unsampled reference MRC for a trace and policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := policy.ParseTag(policyTag)
			if err != nil {
				return err
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

			pts, err := accurate.Run(tracePath, tag, size, points)
			if err != nil {
				return err
			}
			return refcsv.Save(outPath, pts)
		},
	}
	cmd.Flags().StringVar(&tracePath, "path", "", "path to the binary trace file (required)")
	cmd.Flags().StringVar(&policyTag, "policy", string(policy.LRU),
		fmt.Sprintf("eviction policy: one of %v", policy.AllTags))
	cmd.Flags().IntVar(&points, "points", mrc.DefaultPoints, "number of grid points")
	cmd.Flags().Uint64Var(&wssHint, "wss", 0, "working set size in bytes (0 = compute it first)")
	cmd.Flags().StringVar(&outPath, "output-path", "accurate.csv", "output CSV path")
	cmd.MarkFlagRequired("path")
	return cmd
}
