package mrc

// Point is one (cache size, miss ratio) pair of an MRC.
type Point struct {
	CacheSize uint64
	MissRatio float64
}

// Finalize converts a Grid's raw counters into an MRC, adding the SHARDS
// correction term delta to both the miss count and the total of every
// point, (misses+delta)/(hits+misses+delta) (delta is 0 for an unsampled
// run). A grid point that saw zero traffic (hits+misses+delta
// == 0, i.e. an empty trace) reports a miss ratio of 1.0: a cache that
// never admitted or served anything has missed everything it was asked
// for just as surely as one that saw traffic and missed every time, and
// 1.0 composes cleanly into MAE without ever contaminating it with NaN.
func Finalize(g *Grid, delta float64) []Point {
	points := make([]Point, g.Len())
	for i, size := range g.Sizes {
		hits, misses := g.Counts(i)
		denom := float64(hits+misses) + delta
		var ratio float64
		if denom <= 0 {
			ratio = 1.0
		} else {
			ratio = (float64(misses) + delta) / denom
		}
		points[i] = Point{CacheSize: size, MissRatio: ratio}
	}
	return points
}

// MAE computes the mean absolute error between an estimated MRC and an
// accurate reference MRC, averaged pointwise over min(len(est), len(ref))
// grid points (both are expected to share the same grid in practice).
func MAE(est, ref []Point) float64 {
	n := len(est)
	if len(ref) < n {
		n = len(ref)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := est[i].MissRatio - ref[i].MissRatio
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum / float64(n)
}
