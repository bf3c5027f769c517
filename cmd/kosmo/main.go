// Command kosmo builds miss-ratio curves for non-inclusive in-memory
// caches: compute a trace's working-set size (wss), generate an
// unsampled reference curve (accurate), or run Kosmo/MiniSim with
// optional SHARDS sampling (mrc).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kosmo",
		Short:         "Online miss-ratio-curve generation for non-inclusive caches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newWSSCmd())
	root.AddCommand(newAccurateCmd())
	root.AddCommand(newMRCCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kosmo:", err)
		os.Exit(1)
	}
}
