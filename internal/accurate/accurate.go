// Package accurate generates the unsampled reference MRC used to judge
// Kosmo's and MiniSim's accuracy: a full MiniSim run (every GET, no
// SHARDS filtering) against the requested policy.
package accurate

import (
	"fmt"

	"github.com/kosmo-mrc/kosmo/internal/access"
	"github.com/kosmo-mrc/kosmo/internal/minisim"
	"github.com/kosmo-mrc/kosmo/internal/mrc"
	"github.com/kosmo-mrc/kosmo/internal/policy"
	"github.com/kosmo-mrc/kosmo/internal/trace"
)

// Run streams every GET in the trace at path through an unsampled
// MiniSim and returns the resulting MRC.
func Run(path string, tag policy.Tag, wss uint64, points int) ([]mrc.Point, error) {
	sim, err := minisim.New(tag, wss, points)
	if err != nil {
		return nil, fmt.Errorf("accurate: %w", err)
	}

	r, err := trace.Open(path)
	if err != nil {
		return nil, fmt.Errorf("accurate: %w", err)
	}
	defer r.Close()

	for {
		a, ok, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("accurate: %w", err)
		}
		if !ok {
			break
		}
		if a.Op != access.Get {
			continue
		}
		sim.Observe(a)
	}

	return mrc.Finalize(sim.Grid(), 0), nil
}
