// Package diag composes diagnostic panel figures for fitted stream-membership
// models: per coordinate, a weight sub-panel stacked over a value sub-panel
// showing the raw data, each component's mean track with 1σ/2σ bands, and the
// component membership weights along the independent coordinate.
package diag

import (
	"fmt"

	"gonum.org/v1/plot/vg"
)

// Default option values. Optional fields on Options are pointers so a zero
// value means "use the default" rather than "zero".
const (
	DefaultIndepCoord = "phi1"
	DefaultBins       = 100
	DefaultMinWeight  = 1e-4
	DefaultTopYScale  = "linear"
)

var (
	defaultLegendFontSize = vg.Points(10)
	defaultCellWidth      = 5 * vg.Inch
	defaultCellHeight     = 4 * vg.Inch
)

// Options configures a panel composition. The zero value is valid and uses
// the documented defaults. Validated once at the composition entry point.
type Options struct {
	// IndepCoord is the independent coordinate column. Defaults to "phi1".
	IndepCoord string

	// UseHist renders the raw data as a log-density 2D histogram instead
	// of a point scatter.
	UseHist bool
	// Bins is the 2D histogram bin count per axis. Defaults to 100.
	Bins *int

	// MinWeight is the visibility cutoff: rows where a component's weight
	// falls below it are excluded from that component's trend and bands.
	// Defaults to 1e-4.
	MinWeight *float64
	// LogWeight plots ln(weight) instead of weight in the weight panel.
	LogWeight bool
	// TopYScale is the weight-panel y-axis scale: "linear" (default) or
	// "log".
	TopYScale *string

	// LegendFontSize is the value-panel legend font size. Defaults to
	// 10pt. TopLegendFontSize overrides it for the weight panel.
	LegendFontSize    *vg.Length
	TopLegendFontSize *vg.Length

	// CellWidth and CellHeight size each coordinate's cell. Defaults are
	// 5in by 4in.
	CellWidth  vg.Length
	CellHeight vg.Length

	// Coord2Par remaps a coordinate name to the parameter name it is
	// stored under in Params. Identity for unmapped coordinates.
	Coord2Par map[string]string
}

// Pointer helpers for filling optional Options fields.
func IntPtr(v int) *int                { return &v }
func Float64Ptr(v float64) *float64    { return &v }
func StringPtr(v string) *string       { return &v }
func LengthPtr(v vg.Length) *vg.Length { return &v }

// GetBins returns the histogram bin count, applying the default.
func (o Options) GetBins() int {
	if o.Bins == nil {
		return DefaultBins
	}
	return *o.Bins
}

// GetMinWeight returns the visibility cutoff, applying the default.
func (o Options) GetMinWeight() float64 {
	if o.MinWeight == nil {
		return DefaultMinWeight
	}
	return *o.MinWeight
}

// GetTopYScale returns the weight-panel y scale, applying the default.
func (o Options) GetTopYScale() string {
	if o.TopYScale == nil {
		return DefaultTopYScale
	}
	return *o.TopYScale
}

// GetIndepCoord returns the independent coordinate, applying the default.
func (o Options) GetIndepCoord() string {
	if o.IndepCoord == "" {
		return DefaultIndepCoord
	}
	return o.IndepCoord
}

// GetLegendFontSize returns the value-panel legend font size.
func (o Options) GetLegendFontSize() vg.Length {
	if o.LegendFontSize == nil {
		return defaultLegendFontSize
	}
	return *o.LegendFontSize
}

// GetTopLegendFontSize returns the weight-panel legend font size, falling
// back to the value-panel size.
func (o Options) GetTopLegendFontSize() vg.Length {
	if o.TopLegendFontSize == nil {
		return o.GetLegendFontSize()
	}
	return *o.TopLegendFontSize
}

// GetCellWidth returns the per-coordinate cell width.
func (o Options) GetCellWidth() vg.Length {
	if o.CellWidth <= 0 {
		return defaultCellWidth
	}
	return o.CellWidth
}

// GetCellHeight returns the per-coordinate cell height.
func (o Options) GetCellHeight() vg.Length {
	if o.CellHeight <= 0 {
		return defaultCellHeight
	}
	return o.CellHeight
}

// ParamFor resolves the parameter name a coordinate is stored under.
func (o Options) ParamFor(coord string) string {
	if o.Coord2Par == nil {
		return coord
	}
	if par, ok := o.Coord2Par[coord]; ok {
		return par
	}
	return coord
}

// Validate rejects malformed options. Called once by the composition entry
// point; malformed caller input is fatal, missing optional data is not.
func (o Options) Validate() error {
	if o.GetBins() <= 0 {
		return fmt.Errorf("bins must be positive, got %d", o.GetBins())
	}
	if o.GetMinWeight() < 0 {
		return fmt.Errorf("min_weight must be non-negative, got %g", o.GetMinWeight())
	}
	switch o.GetTopYScale() {
	case "linear", "log":
	default:
		return fmt.Errorf("top_yscale must be %q or %q, got %q", "linear", "log", o.GetTopYScale())
	}
	return nil
}
