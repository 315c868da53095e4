package diag

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/streamviz/internal/stream"
)

// panelPlan is the computed content of one coordinate's panel pair, built
// before anything touches the drawing surface so the overlay logic stays
// inspectable.
type panelPlan struct {
	coord string
	indep string
	x, y  []float64

	hist       *densityGrid     // non-nil when the data renders as a 2D histogram
	background *weightCurvePlan // non-nil when the background component has a weight
	trends     []*trendPlan     // overlay components, background excluded

	yMin, yMax   float64
	weightLegend bool // at least one weight curve was planned
}

// buildPanelPlan resolves data columns, applies background precedence,
// derives per-component visibility masks and computes every trend overlay
// for one coordinate.
func buildPanelPlan(data *stream.Data, mpars stream.Params, comps []stream.Component, coord string, opts Options) (*panelPlan, error) {
	x, err := data.Column(opts.GetIndepCoord())
	if err != nil {
		return nil, err
	}
	y, err := data.Column(coord)
	if err != nil {
		return nil, err
	}
	n := data.Len()

	plan := &panelPlan{
		coord: coord,
		indep: opts.GetIndepCoord(),
		x:     x,
		y:     y,
		yMin:  floats.Min(y),
		yMax:  floats.Max(y),
	}
	if opts.UseHist {
		plan.hist = newDensityGrid(x, y, opts.GetBins())
	}

	// The background component never joins the overlay loop; it
	// contributes its weight curve first, in black.
	bg, rest := stream.SplitBackground(comps)
	if bg != nil {
		if cp, err := mpars.Component(bg.Name); err == nil && cp.HasWeight() {
			if err := cp.CheckWeight(n); err != nil {
				return nil, fmt.Errorf("component %q: %w", bg.Name, err)
			}
			plan.background = &weightCurvePlan{
				label: bg.Name + "[weight]",
				y:     weightValues(cp.WeightSeries(n), opts.LogWeight),
				color: color.Black,
			}
			plan.weightLegend = true
		}
	}

	colors := componentColors(len(rest))
	for i, comp := range rest {
		cp, err := mpars.Component(comp.Name)
		if err != nil {
			return nil, err
		}
		if err := cp.CheckWeight(n); err != nil {
			return nil, fmt.Errorf("component %q: %w", comp.Name, err)
		}
		tp, err := buildTrendPlan(data, mpars, TrendConfig{
			Component:  comp,
			Coord:      opts.ParamFor(coord),
			IndepCoord: opts.GetIndepCoord(),
			Mask:       stream.WeightMask(cp.Weight, opts.GetMinWeight(), n),
			LogWeight:  opts.LogWeight,
			Color:      colors[i],
		})
		if err != nil {
			return nil, err
		}
		if tp.weight != nil {
			plan.weightLegend = true
		}
		plan.trends = append(plan.trends, tp)
	}
	return plan, nil
}

// RenderCoordinatePanel draws one coordinate's full diagnostic panel: the raw
// data, every requested component's trend and bands, and the weight curves.
// It mutates only the panel pair; Data and Params are read-only throughout.
func RenderCoordinatePanel(panels *CoordPanels, data *stream.Data, mpars stream.Params, comps []stream.Component, opts Options) error {
	if !panels.complete() {
		return ErrMissingPanels
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	plan, err := buildPanelPlan(data, mpars, comps, panels.Coord, opts)
	if err != nil {
		return err
	}
	return drawPanelPlan(panels, plan, opts)
}

// drawPanelPlan renders a computed panel plan onto the panel pair.
func drawPanelPlan(panels *CoordPanels, plan *panelPlan, opts Options) error {
	// Raw data first so overlays draw on top of it.
	if plan.hist != nil {
		panels.Value.Add(plotter.NewHeatMap(plan.hist, grays(64)))
	} else {
		scatter, err := plotter.NewScatter(xyPairs(plan.x, plan.y, 0, len(plan.x)))
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = color.Black
		scatter.GlyphStyle.Radius = vg.Points(0.75)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		panels.Value.Add(scatter)
	}

	if plan.background != nil {
		line, err := plotter.NewLine(xyPairs(plan.x, plan.background.y, 0, len(plan.x)))
		if err != nil {
			return err
		}
		line.LineStyle.Color = plan.background.color
		line.LineStyle.Width = vg.Points(1)
		panels.Weight.Add(line)
		panels.Weight.Legend.Add(plan.background.label, line)
	}

	for _, tp := range plan.trends {
		if err := drawTrendPlan(panels, plan.x, tp); err != nil {
			return fmt.Errorf("component %q: %w", tp.component.Name, err)
		}
	}

	// Clamp the value panel to the observed data regardless of overlays,
	// and pin the shared x range to the data span.
	panels.Value.Y.Min = plan.yMin
	panels.Value.Y.Max = plan.yMax
	panels.Value.X.Min = floats.Min(plan.x)
	panels.Value.X.Max = floats.Max(plan.x)
	panels.alignX()

	panels.Value.Legend.Top = true
	panels.Value.Legend.TextStyle.Font.Size = opts.GetLegendFontSize()
	if plan.weightLegend {
		panels.Weight.Legend.Top = true
		panels.Weight.Legend.TextStyle.Font.Size = opts.GetTopLegendFontSize()
	}
	if opts.GetTopYScale() == "log" {
		panels.Weight.Y.Scale = plot.LogScale{}
		panels.Weight.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	return nil
}
