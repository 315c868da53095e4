package stream

import "fmt"

// Reserved parameter-kind names produced by the fitting pipeline.
const (
	// MeanParam is the per-coordinate mean of a component's track.
	MeanParam = "mu"
	// LnSigmaParam is the natural-log standard deviation. Exponentiate
	// before using it as an additive half-width.
	LnSigmaParam = "ln-sigma"
	// WeightParam is the relative membership probability of a component,
	// stored per-row or as a broadcastable scalar.
	WeightParam = "weight"
)

// CoordParams maps parameter-kind names (MeanParam, LnSigmaParam, ...) to
// value arrays for one coordinate of one component.
type CoordParams map[string][]float64

// ComponentParams holds one component's fitted parameters: per-coordinate
// parameter arrays plus an optional membership weight.
type ComponentParams struct {
	// Coords maps coordinate name to that coordinate's parameter arrays.
	Coords map[string]CoordParams
	// Weight is the membership probability: length N, or length 1 for a
	// scalar broadcast across all rows. Nil if the component exposes no
	// weight.
	Weight []float64
}

// HasWeight reports whether the component exposes a membership weight.
func (cp ComponentParams) HasWeight() bool { return len(cp.Weight) > 0 }

// CheckWeight validates the weight shape against n data rows: a weight must
// be absent, a length-1 scalar, or per-row with length n. Every ingest and
// render path calls this before broadcasting, so WeightSeries and WeightMask
// only ever see valid shapes.
func (cp ComponentParams) CheckWeight(n int) error {
	switch len(cp.Weight) {
	case 0, 1, n:
		return nil
	}
	return fmt.Errorf("weight has length %d, want 1 or %d", len(cp.Weight), n)
}

// WeightSeries returns the weight expanded to n rows, broadcasting a scalar
// weight. Returns nil if the component has no weight. The weight must have
// passed CheckWeight for the same n.
func (cp ComponentParams) WeightSeries(n int) []float64 {
	switch len(cp.Weight) {
	case 0:
		return nil
	case 1:
		w := make([]float64, n)
		for i := range w {
			w[i] = cp.Weight[0]
		}
		return w
	default:
		return cp.Weight
	}
}

// Param returns the named parameter array for a coordinate.
func (cp ComponentParams) Param(coord, kind string) ([]float64, error) {
	cps, ok := cp.Coords[coord]
	if !ok {
		return nil, fmt.Errorf("no parameters for coordinate %q", coord)
	}
	vals, ok := cps[kind]
	if !ok {
		return nil, fmt.Errorf("coordinate %q has no %q parameter", coord, kind)
	}
	return vals, nil
}

// Params is the full fitted parameter set: component name to that
// component's parameters.
type Params map[string]ComponentParams

// Component returns the named component's parameters.
func (p Params) Component(name string) (ComponentParams, error) {
	cp, ok := p[name]
	if !ok {
		return ComponentParams{}, fmt.Errorf("no parameters for component %q", name)
	}
	return cp, nil
}
