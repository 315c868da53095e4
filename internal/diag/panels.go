package diag

import (
	"errors"

	"gonum.org/v1/plot"
)

// ErrMissingPanels is returned when a renderer is handed an incomplete panel
// pair. Build pairs with NewCoordPanels rather than assembling them by hand.
var ErrMissingPanels = errors.New("diag: both a weight panel and a value panel are required (use NewCoordPanels)")

// CoordPanels is one coordinate's cell in the figure: a weight sub-panel
// stacked over a value sub-panel sharing the independent axis. Renderers draw
// onto the pair; they never create or destroy it.
type CoordPanels struct {
	Coord  string
	Weight *plot.Plot
	Value  *plot.Plot
}

// NewCoordPanels builds a linked panel pair for one coordinate. The value
// panel carries the axis labels; the weight panel shares the x axis, hides
// its x tick labels and is labeled "weight".
func NewCoordPanels(indepCoord, coord string) *CoordPanels {
	value := plot.New()
	value.X.Label.Text = Label(indepCoord)
	value.Y.Label.Text = Label(coord)

	weight := plot.New()
	weight.Y.Label.Text = "weight"
	weight.X.Tick.Marker = unlabeledTicks{weight.X.Tick.Marker}

	return &CoordPanels{Coord: coord, Weight: weight, Value: value}
}

// complete reports whether both sub-panels are present.
func (cp *CoordPanels) complete() bool {
	return cp != nil && cp.Weight != nil && cp.Value != nil
}

// alignX gives both panels the same x range so the shared-axis invariant
// holds after drawing.
func (cp *CoordPanels) alignX() {
	cp.Weight.X.Min = cp.Value.X.Min
	cp.Weight.X.Max = cp.Value.X.Max
}

// unlabeledTicks wraps a Ticker and blanks every tick label. The weight
// panel shares its tick labels with the value panel below it.
type unlabeledTicks struct {
	plot.Ticker
}

func (t unlabeledTicks) Ticks(min, max float64) []plot.Tick {
	ticks := t.Ticker.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}
