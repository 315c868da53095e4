package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/streamviz/internal/stream"
)

func twoComponentParams() stream.Params {
	mpars := streamParams([]float64{1, 1, 1, 1})
	mpars[stream.BackgroundName] = stream.ComponentParams{
		Weight: []float64{0.5, 0.5, 0.5, 0.5},
	}
	return mpars
}

// Scenario C: background plus stream gives two weight curves (background
// first, distinctly labeled) and exactly one trend overlay.
func TestBuildPanelPlanBackgroundPrecedence(t *testing.T) {
	data := testData(t)
	mpars := twoComponentParams()
	comps := stream.ComponentsFromNames([]string{"background", "stream"})

	plan, err := buildPanelPlan(data, mpars, comps, "phi2", Options{})
	require.NoError(t, err)

	require.NotNil(t, plan.background)
	assert.Equal(t, "background[weight]", plan.background.label)

	require.Len(t, plan.trends, 1)
	assert.Equal(t, "stream", plan.trends[0].component.Name)
	assert.False(t, plan.trends[0].component.Background)
	require.NotNil(t, plan.trends[0].weight)
	assert.Equal(t, "stream[weight]", plan.trends[0].weight.label)
	assert.True(t, plan.weightLegend)
}

// The background component never enters the overlay loop, wherever it sits
// in the request order.
func TestBuildPanelPlanNoBackgroundInOverlays(t *testing.T) {
	data := testData(t)
	mpars := twoComponentParams()

	for _, names := range [][]string{
		{"background", "stream"},
		{"stream", "background"},
	} {
		comps := stream.ComponentsFromNames(names)
		plan, err := buildPanelPlan(data, mpars, comps, "phi2", Options{})
		require.NoError(t, err)
		for _, tp := range plan.trends {
			assert.False(t, tp.component.Background, "order %v", names)
		}
	}
}

// A background component without a weight entry is tolerated: no curve, no
// weight legend from it.
func TestBuildPanelPlanBackgroundWithoutWeight(t *testing.T) {
	data := testData(t)
	mpars := streamParams(nil)
	mpars[stream.BackgroundName] = stream.ComponentParams{}
	comps := stream.ComponentsFromNames([]string{"background", "stream"})

	plan, err := buildPanelPlan(data, mpars, comps, "phi2", Options{})
	require.NoError(t, err)
	assert.Nil(t, plan.background)
	assert.False(t, plan.weightLegend)
}

// Value-panel y-limits equal the data column min/max regardless of overlays.
func TestBuildPanelPlanYLimits(t *testing.T) {
	data := testData(t)
	mpars := streamParams([]float64{1, 1, 1, 1})
	comps := stream.ComponentsFromNames([]string{"stream"})

	plan, err := buildPanelPlan(data, mpars, comps, "phi2", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.1, plan.yMin)
	assert.Equal(t, 0.3, plan.yMax)
}

func TestBuildPanelPlanCoordRemap(t *testing.T) {
	data := testData(t)
	mpars := stream.Params{
		"stream": stream.ComponentParams{
			Coords: map[string]stream.CoordParams{
				"phi2-model": {
					stream.MeanParam:    {0, 0, 0, 0},
					stream.LnSigmaParam: {0, 0, 0, 0},
				},
			},
		},
	}
	comps := stream.ComponentsFromNames([]string{"stream"})

	// Without the remap the parameter lookup fails.
	_, err := buildPanelPlan(data, mpars, comps, "phi2", Options{})
	require.Error(t, err)

	plan, err := buildPanelPlan(data, mpars, comps, "phi2", Options{
		Coord2Par: map[string]string{"phi2": "phi2-model"},
	})
	require.NoError(t, err)
	assert.Len(t, plan.trends, 1)
}

// A weight that is neither a scalar nor one value per row is rejected with
// an error, for overlay and background components alike.
func TestBuildPanelPlanMalformedWeight(t *testing.T) {
	data := testData(t)

	mpars := streamParams([]float64{0.5, 0.5})
	comps := stream.ComponentsFromNames([]string{"stream"})
	_, err := buildPanelPlan(data, mpars, comps, "phi2", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")

	mpars = streamParams(nil)
	mpars[stream.BackgroundName] = stream.ComponentParams{
		Weight: []float64{0.5, 0.5},
	}
	comps = stream.ComponentsFromNames([]string{"background", "stream"})
	_, err = buildPanelPlan(data, mpars, comps, "phi2", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")
}

func TestBuildPanelPlanUseHist(t *testing.T) {
	data := testData(t)
	mpars := streamParams(nil)
	comps := stream.ComponentsFromNames([]string{"stream"})

	plan, err := buildPanelPlan(data, mpars, comps, "phi2", Options{
		UseHist: true,
		Bins:    IntPtr(10),
	})
	require.NoError(t, err)
	require.NotNil(t, plan.hist)
	assert.Equal(t, 4.0, plan.hist.total())
}

func TestBuildPanelPlanUnknownComponent(t *testing.T) {
	data := testData(t)
	mpars := streamParams(nil)
	comps := stream.ComponentsFromNames([]string{"halo"})

	_, err := buildPanelPlan(data, mpars, comps, "phi2", Options{})
	assert.Error(t, err)
}

func TestRenderCoordinatePanel(t *testing.T) {
	data := testData(t)
	mpars := twoComponentParams()
	comps := stream.ComponentsFromNames([]string{"background", "stream"})

	panels := NewCoordPanels("phi1", "phi2")
	err := RenderCoordinatePanel(panels, data, mpars, comps, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0.1, panels.Value.Y.Min)
	assert.Equal(t, 0.3, panels.Value.Y.Max)
	// The shared x axis stays aligned between the sub-panels.
	assert.Equal(t, panels.Value.X.Min, panels.Weight.X.Min)
	assert.Equal(t, panels.Value.X.Max, panels.Weight.X.Max)
}

func TestRenderCoordinatePanelMissingPanels(t *testing.T) {
	data := testData(t)
	mpars := streamParams(nil)
	comps := stream.ComponentsFromNames([]string{"stream"})

	err := RenderCoordinatePanel(&CoordPanels{Coord: "phi2"}, data, mpars, comps, Options{})
	assert.ErrorIs(t, err, ErrMissingPanels)
}

func TestRenderCoordinatePanelBadOptions(t *testing.T) {
	data := testData(t)
	mpars := streamParams(nil)
	comps := stream.ComponentsFromNames([]string{"stream"})
	panels := NewCoordPanels("phi1", "phi2")

	err := RenderCoordinatePanel(panels, data, mpars, comps, Options{
		TopYScale: StringPtr("symlog"),
	})
	assert.Error(t, err)
}
