// Package htmlreport renders the diagnostic panels as an interactive
// go-echarts page: per coordinate, a value chart (data plus component mean
// tracks) and a weight chart. Uncertainty bands are a PNG-only feature;
// echarts line series carry the mean tracks and weights.
package htmlreport

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/streamviz/internal/diag"
	"github.com/banshee-data/streamviz/internal/stream"
)

// Render writes the interactive report for the requested coordinates.
func Render(w io.Writer, data *stream.Data, mpars stream.Params, comps []stream.Component, coords []string, options diag.Options) error {
	if err := options.Validate(); err != nil {
		return err
	}
	if len(coords) == 0 {
		return diag.ErrNoCoords
	}

	x, err := data.Column(options.GetIndepCoord())
	if err != nil {
		return err
	}
	xAxis := make([]string, len(x))
	for i, v := range x {
		xAxis[i] = fmt.Sprintf("%g", v)
	}

	page := components.NewPage()

	for _, coord := range coords {
		value, err := valueChart(data, mpars, comps, coord, xAxis, options)
		if err != nil {
			return err
		}
		weight, err := weightChart(data, mpars, comps, coord, xAxis, options)
		if err != nil {
			return err
		}
		page.AddCharts(weight, value)
	}
	return page.Render(w)
}

// valueChart plots the observed column and each overlay component's mean
// track. Background precedence applies exactly as in the PNG panels: the
// background component never contributes a trend.
func valueChart(data *stream.Data, mpars stream.Params, comps []stream.Component, coord string, xAxis []string, options diag.Options) (*charts.Line, error) {
	y, err := data.Column(coord)
	if err != nil {
		return nil, err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "stream diagnostics"}),
		charts.WithTitleOpts(opts.Title{Title: diag.Label(coord)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: diag.Label(options.GetIndepCoord())}),
		charts.WithYAxisOpts(opts.YAxis{Name: diag.Label(coord)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("data", lineData(y),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))

	_, rest := stream.SplitBackground(comps)
	for _, comp := range rest {
		cp, err := mpars.Component(comp.Name)
		if err != nil {
			return nil, err
		}
		mu, err := cp.Param(options.ParamFor(coord), stream.MeanParam)
		if err != nil {
			return nil, err
		}
		line.AddSeries(comp.Name, lineData(mu))
	}
	return line, nil
}

// weightChart plots every requested component's membership weight, the
// background first.
func weightChart(data *stream.Data, mpars stream.Params, comps []stream.Component, coord string, xAxis []string, options diag.Options) (*charts.Line, error) {
	yName := "weight"
	if options.LogWeight {
		yName = "ln(weight)"
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: diag.Label(coord) + " weights"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)

	ordered := make([]stream.Component, 0, len(comps))
	bg, rest := stream.SplitBackground(comps)
	if bg != nil {
		ordered = append(ordered, *bg)
	}
	ordered = append(ordered, rest...)

	n := data.Len()
	for _, comp := range ordered {
		cp, err := mpars.Component(comp.Name)
		if err != nil {
			return nil, err
		}
		if !cp.HasWeight() {
			continue
		}
		if err := cp.CheckWeight(n); err != nil {
			return nil, fmt.Errorf("component %q: %w", comp.Name, err)
		}
		line.AddSeries(comp.Name+"[weight]", weightData(cp.WeightSeries(n), options.LogWeight))
	}
	return line, nil
}

func lineData(vals []float64) []opts.LineData {
	out := make([]opts.LineData, len(vals))
	for i, v := range vals {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

// weightData converts a weight series to chart points, applying the ln
// transform when requested so the HTML weight chart matches the PNG weight
// panel. Non-finite values (ln of a zero weight) become echarts gaps.
func weightData(vals []float64, logWeight bool) []opts.LineData {
	out := make([]opts.LineData, len(vals))
	for i, v := range vals {
		if logWeight {
			v = math.Log(v)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = opts.LineData{Value: "-"}
			continue
		}
		out[i] = opts.LineData{Value: v}
	}
	return out
}
