package report

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/production-sim/production-sim/sim/stats"
)

// Plot sizes.
const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// maxNominalLabels is the largest number of x labels drawn before the axis
// falls back to row indices.
const maxNominalLabels = 40

// errorPoints pairs points with symmetric y errors.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

func newErrorPoints(rows []Row, x func(i int) float64) errorPoints {
	pts := errorPoints{
		XYs:     make(plotter.XYs, len(rows)),
		YErrors: make(plotter.YErrors, len(rows)),
	}
	for i, r := range rows {
		pts.XYs[i].X = x(i)
		pts.XYs[i].Y = r.Mean
		pts.YErrors[i].Low = r.Delta
		pts.YErrors[i].High = r.Delta
	}
	return pts
}

// numericLabels returns the labels as numbers when every label is one.
func numericLabels(rows []Row) ([]float64, bool) {
	xs := make([]float64, len(rows))
	for i, r := range rows {
		v, err := strconv.ParseFloat(r.Label, 64)
		if err != nil {
			return nil, false
		}
		xs[i] = v
	}
	return xs, true
}

// PlotSweep saves the mean net result of every row with its confidence
// interval as error bars. Rows labelled by a single number are placed at
// that value; others are placed at their position.
func PlotSweep(path, title, xLabel string, rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("plot %s: no rows", path)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "mean net result"
	p.Add(plotter.NewGrid())

	xs, numeric := numericLabels(rows)
	pts := newErrorPoints(rows, func(i int) float64 {
		if numeric {
			return xs[i]
		}
		return float64(i)
	})

	line, err := plotter.NewLine(pts.XYs)
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	line.LineStyle.Color = plotutil.Color(0)
	scatter, err := plotter.NewScatter(pts.XYs)
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	scatter.GlyphStyle.Color = plotutil.Color(0)
	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	bars.LineStyle.Color = plotutil.Color(1)

	p.Add(line, scatter, bars)
	p.Legend.Add("mean", line, scatter)
	p.Legend.Add("confidence interval", intervalKey(bars))
	if !numeric && len(rows) <= maxNominalLabels {
		nominalX(p, rows)
	}
	return save(p, path)
}

// intervalKey returns a legend entry drawn with the error bars' line style;
// YErrorBars has no thumbnail of its own.
func intervalKey(bars *plotter.YErrorBars) plot.Thumbnailer {
	return &plotter.Line{LineStyle: bars.LineStyle}
}

// PlotComparison saves one bar per row with its confidence interval.
func PlotComparison(path, title string, rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("plot %s: no rows", path)
	}
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "mean net result"
	p.Add(plotter.NewGrid())

	values := make(plotter.Values, len(rows))
	for i, r := range rows {
		values[i] = r.Mean
	}
	bar, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	bar.Color = plotutil.Color(2)
	bar.LineStyle.Width = vg.Length(0)

	bars, err := plotter.NewYErrorBars(newErrorPoints(rows, func(i int) float64 { return float64(i) }))
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	bars.LineStyle.Width = vg.Points(1.5)

	p.Add(bar, bars)
	nominalX(p, rows)
	return save(p, path)
}

// PlotRuns saves the net result of every replication with horizontal
// lines at the minimum, the maximum and the mean.
func PlotRuns(path, title string, nets []float64) error {
	if len(nets) == 0 {
		return fmt.Errorf("plot %s: no runs", path)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "replication"
	p.Y.Label.Text = "net result"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(nets))
	for i, v := range nets {
		xys[i].X = float64(i + 1)
		xys[i].Y = v
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	line.LineStyle.Color = color.RGBA{B: 255, A: 180}
	p.Add(line)

	s := stats.Describe(nets)
	first, last := 1.0, math.Max(float64(len(nets)), 2)
	for _, h := range []struct {
		name  string
		y     float64
		color color.Color
	}{
		{fmt.Sprintf("min: %.2f", s.Min), s.Min, color.RGBA{G: 128, A: 255}},
		{fmt.Sprintf("max: %.2f", s.Max), s.Max, color.RGBA{G: 128, A: 255}},
		{fmt.Sprintf("mean: %.2f", s.Mean), s.Mean, color.RGBA{R: 255, A: 255}},
	} {
		hl, err := plotter.NewLine(plotter.XYs{{X: first, Y: h.y}, {X: last, Y: h.y}})
		if err != nil {
			return fmt.Errorf("plot %s: %w", path, err)
		}
		hl.LineStyle = draw.LineStyle{
			Color:  h.color,
			Width:  vg.Points(1),
			Dashes: []vg.Length{vg.Points(6), vg.Points(4)},
		}
		p.Add(hl)
		p.Legend.Add(h.name, hl)
	}
	return save(p, path)
}

func nominalX(p *plot.Plot, rows []Row) {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Label
	}
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}
