// Package plot renders a miss-ratio curve to a PDF using gonum/plot, the
// same plotting stack referenced from the retrieval pack's
// inference-sim-inference-sim go.mod.
package plot

import (
	"fmt"

	"github.com/kosmo-mrc/kosmo/internal/mrc"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Save renders points as a miss-ratio-vs-cache-size line plot to path
// (a PDF), titled title.
func Save(points []mrc.Point, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Cache size (bytes)"
	p.Y.Label.Text = "Miss ratio"
	p.Y.Min = 0
	p.Y.Max = 1

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.CacheSize)
		xys[i].Y = pt.MissRatio
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}

// SaveComparison overlays an estimated MRC against the accurate
// reference on one plot, for visually judging Kosmo/MiniSim accuracy.
func SaveComparison(estimated, reference []mrc.Point, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Cache size (bytes)"
	p.Y.Label.Text = "Miss ratio"
	p.Y.Min = 0
	p.Y.Max = 1

	estLine, err := plotter.NewLine(toXYs(estimated))
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	estLine.LineStyle.Width = vg.Points(1.5)

	refLine, err := plotter.NewLine(toXYs(reference))
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	refLine.LineStyle.Width = vg.Points(1.5)
	refLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(estLine, refLine)
	p.Legend.Add("estimated", estLine)
	p.Legend.Add("accurate", refLine)
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}

func toXYs(points []mrc.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.CacheSize)
		xys[i].Y = pt.MissRatio
	}
	return xys
}
