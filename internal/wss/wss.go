// Package wss computes the working set size of a trace: the sum of sizes
// of distinct keys ever accessed. It is a separate pre-pass over the
// trace, independent of the simulators.
package wss

import (
	"github.com/kosmo-mrc/kosmo/internal/access"
	"github.com/kosmo-mrc/kosmo/internal/trace"
)

// Scan reads every GET record from path and returns the total bytes of
// distinct keys (first-seen size wins on a later re-access with a
// different size, mirroring the "object as last/first stored" convention
// used throughout the simulators).
func Scan(path string) (uint64, error) {
	r, err := trace.Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	seen := make(map[uint64]uint32)
	for {
		a, ok, err := r.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if a.Op != access.Get {
			continue
		}
		if _, exists := seen[a.Key]; !exists {
			seen[a.Key] = a.Size
		}
	}

	var total uint64
	for _, size := range seen {
		total += uint64(size)
	}
	return total, nil
}
