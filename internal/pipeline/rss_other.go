//go:build !linux && !darwin

package pipeline

// rssHighWaterMark has no portable implementation outside Linux/Darwin;
// callers already treat a non-nil error as "skip reporting RSS".
func rssHighWaterMark() (uint64, error) {
	return 0, errUnsupportedPlatform
}

var errUnsupportedPlatform = errNotSupported{}

type errNotSupported struct{}

func (errNotSupported) Error() string { return "pipeline: RSS reporting unsupported on this platform" }
