//go:build linux || darwin

package pipeline

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// rssHighWaterMark reports the process's peak resident set size in
// bytes. ru_maxrss is reported in kilobytes on Linux and bytes on
// Darwin; golang.org/x/sys/unix exposes the same raw value on both, so
// the platform difference is normalized here.
func rssHighWaterMark() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	maxrss := uint64(ru.Maxrss)
	if runtime.GOOS == "linux" {
		maxrss *= 1024
	}
	return maxrss, nil
}
