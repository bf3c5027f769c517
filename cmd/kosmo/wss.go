package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kosmo-mrc/kosmo/internal/wss"
)

func newWSSCmd() *cobra.Command {
	var tracePath string

	cmd := &cobra.Command{
		Use:   "wss",
		Short: "Print a trace's working-set size in bytes",
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := wss.Scan(tracePath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d (%s)\n", size, humanize.IBytes(size))
			return nil
		},
	}
	cmd.Flags().StringVar(&tracePath, "path", "", "path to the binary trace file (required)")
	cmd.MarkFlagRequired("path")
	return cmd
}
