package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/banshee-data/streamviz/internal/stream"
)

// RunFile is the JSON interchange format the fitting pipeline exports:
// observed data columns plus per-component parameters and weights.
type RunFile struct {
	Data   map[string][]float64     `json:"data"`
	Params map[string]ComponentJSON `json:"params"`
}

// ComponentJSON is one component's block in a run file.
type ComponentJSON struct {
	Coords map[string]map[string][]float64 `json:"coords"`
	Weight []float64                       `json:"weight,omitempty"`
}

// DecodeRunFile parses a JSON run file into the in-memory model. Component
// weights must be a length-1 scalar or match the data row count; other
// shapes are rejected here rather than surfacing later as a render failure.
func DecodeRunFile(r io.Reader) (*stream.Data, stream.Params, error) {
	var rf RunFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rf); err != nil {
		return nil, nil, fmt.Errorf("decode run file: %w", err)
	}

	data, err := stream.NewData(rf.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("run file data: %w", err)
	}

	mpars := stream.Params{}
	for component, cj := range rf.Params {
		cp := stream.ComponentParams{
			Coords: map[string]stream.CoordParams{},
			Weight: cj.Weight,
		}
		if err := cp.CheckWeight(data.Len()); err != nil {
			return nil, nil, fmt.Errorf("run file component %q: %w", component, err)
		}
		for coord, params := range cj.Coords {
			cps := stream.CoordParams{}
			for kind, vals := range params {
				cps[kind] = vals
			}
			cp.Coords[coord] = cps
		}
		mpars[component] = cp
	}
	return data, mpars, nil
}
