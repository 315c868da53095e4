package diag

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/streamviz/internal/stream"
)

// TrendConfig configures one component's trend overlay on one coordinate.
type TrendConfig struct {
	Component stream.Component
	// Coord is the parameter name the coordinate is stored under in
	// Params (already remapped by the caller if a remapping applies).
	Coord string
	// IndepCoord is the independent coordinate column. Defaults to "phi1".
	IndepCoord string
	// Mask restricts which rows of the trend line and bands are drawn.
	// Nil draws every row. The weight curve is never mask-restricted.
	Mask stream.Mask
	// LogWeight plots ln(weight) in the weight panel.
	LogWeight bool
	// MeanParam and SigmaParam override the parameter names, defaulting
	// to "mu" and "ln-sigma".
	MeanParam  string
	SigmaParam string
	// Color is the trend color; bands reuse it at reduced opacity.
	Color color.Color
}

func (c TrendConfig) meanParam() string {
	if c.MeanParam == "" {
		return stream.MeanParam
	}
	return c.MeanParam
}

func (c TrendConfig) sigmaParam() string {
	if c.SigmaParam == "" {
		return stream.LnSigmaParam
	}
	return c.SigmaParam
}

func (c TrendConfig) indepCoord() string {
	if c.IndepCoord == "" {
		return DefaultIndepCoord
	}
	return c.IndepCoord
}

func (c TrendConfig) trendColor() color.Color {
	if c.Color == nil {
		return componentColors(1)[0]
	}
	return c.Color
}

// weightCurvePlan is one weight-panel curve: a component's membership
// probability across all rows.
type weightCurvePlan struct {
	label string
	y     []float64
	color color.Color
}

// trendPlan is the computed form of one component's overlay: the mean track,
// the nested band bounds, and the visible runs to draw them over.
type trendPlan struct {
	component stream.Component
	color     color.Color
	mask      stream.Mask
	runs      [][2]int
	mean      []float64
	lo1, hi1  []float64
	lo2, hi2  []float64
	weight    *weightCurvePlan // nil if the component exposes no weight
}

// buildTrendPlan computes a component's trend plan from its fitted
// parameters: mean = mu, sigma = exp(ln-sigma), bands at mean±sigma and
// mean±2sigma.
func buildTrendPlan(data *stream.Data, mpars stream.Params, cfg TrendConfig) (*trendPlan, error) {
	cp, err := mpars.Component(cfg.Component.Name)
	if err != nil {
		return nil, err
	}

	mu, err := cp.Param(cfg.Coord, cfg.meanParam())
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", cfg.Component.Name, err)
	}
	lnSigma, err := cp.Param(cfg.Coord, cfg.sigmaParam())
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", cfg.Component.Name, err)
	}

	n := data.Len()
	if len(mu) != n || len(lnSigma) != n {
		return nil, fmt.Errorf("component %q coordinate %q: parameter length %d/%d, want %d rows",
			cfg.Component.Name, cfg.Coord, len(mu), len(lnSigma), n)
	}
	if err := cp.CheckWeight(n); err != nil {
		return nil, fmt.Errorf("component %q: %w", cfg.Component.Name, err)
	}

	tp := &trendPlan{
		component: cfg.Component,
		color:     cfg.trendColor(),
		mask:      cfg.Mask,
		runs:      cfg.Mask.Runs(n),
		mean:      mu,
		lo1:       make([]float64, n),
		hi1:       make([]float64, n),
		lo2:       make([]float64, n),
		hi2:       make([]float64, n),
	}
	for i := 0; i < n; i++ {
		sigma := math.Exp(lnSigma[i])
		tp.lo1[i] = mu[i] - sigma
		tp.hi1[i] = mu[i] + sigma
		tp.lo2[i] = mu[i] - 2*sigma
		tp.hi2[i] = mu[i] + 2*sigma
	}

	if cp.HasWeight() {
		tp.weight = &weightCurvePlan{
			label: cfg.Component.Name + "[weight]",
			y:     weightValues(cp.WeightSeries(n), cfg.LogWeight),
			color: tp.color,
		}
	}
	return tp, nil
}

// weightValues optionally log-transforms a weight series.
func weightValues(w []float64, logWeight bool) []float64 {
	if !logWeight {
		return w
	}
	out := make([]float64, len(w))
	for i, v := range w {
		out[i] = math.Log(v)
	}
	return out
}

// RenderComponentTrend draws one component's mean line and nested 1σ/2σ
// bands on the value panel, restricted to mask-visible rows, and its weight
// curve (all rows) on the weight panel when both a weight panel and a weight
// entry exist. A component without a weight entry skips the weight panel; a
// mask selecting zero rows degenerates to an empty draw with a legend entry.
func RenderComponentTrend(panels *CoordPanels, data *stream.Data, mpars stream.Params, cfg TrendConfig) error {
	if panels == nil || panels.Value == nil {
		return ErrMissingPanels
	}
	tp, err := buildTrendPlan(data, mpars, cfg)
	if err != nil {
		return err
	}
	x, err := data.Column(cfg.indepCoord())
	if err != nil {
		return err
	}
	return drawTrendPlan(panels, x, tp)
}

// drawTrendPlan renders a computed trend plan onto the panel pair.
func drawTrendPlan(panels *CoordPanels, x []float64, tp *trendPlan) error {
	var legendLine *plotter.Line
	for _, run := range tp.runs {
		line, err := plotter.NewLine(xyPairs(x, tp.mean, run[0], run[1]))
		if err != nil {
			return err
		}
		line.LineStyle.Color = tp.color
		line.LineStyle.Width = vg.Points(1)
		panels.Value.Add(line)
		if legendLine == nil {
			legendLine = line
		}

		// 2σ under 1σ, same hue, lower opacity.
		bands := []struct {
			lo, hi []float64
			alpha  uint8
		}{
			{tp.lo2, tp.hi2, 64},
			{tp.lo1, tp.hi1, 128},
		}
		for _, b := range bands {
			poly, err := plotter.NewPolygon(bandXY(x, b.lo, b.hi, run[0], run[1]))
			if err != nil {
				return err
			}
			poly.Color = withAlpha(tp.color, b.alpha)
			poly.LineStyle.Color = color.NRGBA{}
			poly.LineStyle.Width = 0
			panels.Value.Add(poly)
		}
	}

	if legendLine == nil {
		// Zero visible rows: keep the legend entry, draw nothing.
		line, err := plotter.NewLine(plotter.XYs{})
		if err != nil {
			return err
		}
		line.LineStyle.Color = tp.color
		line.LineStyle.Width = vg.Points(1)
		panels.Value.Add(line)
		legendLine = line
	}
	panels.Value.Legend.Add(tp.component.Name, legendLine)

	if tp.weight != nil && panels.Weight != nil {
		wl, err := plotter.NewLine(xyPairs(x, tp.weight.y, 0, len(x)))
		if err != nil {
			return err
		}
		wl.LineStyle.Color = tp.weight.color
		wl.LineStyle.Width = vg.Points(1)
		panels.Weight.Add(wl)
		panels.Weight.Legend.Add(tp.weight.label, wl)
	}
	return nil
}

// xyPairs assembles (x[i], y[i]) points for i in [from, to), skipping
// non-finite values (ln(0) weights).
func xyPairs(x, y []float64, from, to int) plotter.XYs {
	xys := make(plotter.XYs, 0, to-from)
	for i := from; i < to; i++ {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
	}
	return xys
}

// bandXY traces a filled band outline: the upper bound forward, then the
// lower bound back.
func bandXY(x, lo, hi []float64, from, to int) plotter.XYs {
	xys := make(plotter.XYs, 0, 2*(to-from))
	for i := from; i < to; i++ {
		xys = append(xys, plotter.XY{X: x[i], Y: hi[i]})
	}
	for i := to - 1; i >= from; i-- {
		xys = append(xys, plotter.XY{X: x[i], Y: lo[i]})
	}
	return xys
}
