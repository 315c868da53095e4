package diag

import (
	"testing"

	"gonum.org/v1/plot/vg"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options

	if got := o.GetBins(); got != 100 {
		t.Errorf("GetBins() = %d, want 100", got)
	}
	if got := o.GetMinWeight(); got != 1e-4 {
		t.Errorf("GetMinWeight() = %g, want 1e-4", got)
	}
	if got := o.GetTopYScale(); got != "linear" {
		t.Errorf("GetTopYScale() = %q, want linear", got)
	}
	if got := o.GetIndepCoord(); got != "phi1" {
		t.Errorf("GetIndepCoord() = %q, want phi1", got)
	}
	if got := o.GetTopLegendFontSize(); got != o.GetLegendFontSize() {
		t.Errorf("top legend size %v should fall back to legend size %v", got, o.GetLegendFontSize())
	}
	if err := o.Validate(); err != nil {
		t.Errorf("zero Options should validate: %v", err)
	}
}

func TestOptionsOverrides(t *testing.T) {
	o := Options{
		Bins:              IntPtr(25),
		MinWeight:         Float64Ptr(0.5),
		TopYScale:         StringPtr("log"),
		LegendFontSize:    LengthPtr(vg.Points(8)),
		TopLegendFontSize: LengthPtr(vg.Points(6)),
		IndepCoord:        "time",
	}
	if o.GetBins() != 25 || o.GetMinWeight() != 0.5 || o.GetTopYScale() != "log" {
		t.Error("pointer overrides not applied")
	}
	if o.GetLegendFontSize() != vg.Points(8) || o.GetTopLegendFontSize() != vg.Points(6) {
		t.Error("font size overrides not applied")
	}
	if o.GetIndepCoord() != "time" {
		t.Error("indep coord override not applied")
	}
	if err := o.Validate(); err != nil {
		t.Errorf("valid overrides rejected: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	bad := []Options{
		{Bins: IntPtr(0)},
		{Bins: IntPtr(-3)},
		{MinWeight: Float64Ptr(-1)},
		{TopYScale: StringPtr("symlog")},
	}
	for i, o := range bad {
		if err := o.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestParamFor(t *testing.T) {
	o := Options{Coord2Par: map[string]string{"phi2": "phi2-model"}}
	if got := o.ParamFor("phi2"); got != "phi2-model" {
		t.Errorf("ParamFor(phi2) = %q", got)
	}
	if got := o.ParamFor("plx"); got != "plx" {
		t.Errorf("ParamFor(plx) = %q, want identity fallback", got)
	}
}

func TestLabelFallback(t *testing.T) {
	if got := Label("phi2"); got != "phi2 (deg)" {
		t.Errorf("Label(phi2) = %q", got)
	}
	if got := Label("mystery"); got != "mystery" {
		t.Errorf("Label(mystery) = %q, want raw name", got)
	}
}
