package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/streamviz/internal/stream"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fixtureRun(t *testing.T) (*stream.Data, stream.Params) {
	t.Helper()
	data, err := stream.NewData(map[string][]float64{
		"phi1": {0, 1, 2, 3},
		"phi2": {0.1, 0.2, 0.1, 0.3},
	})
	require.NoError(t, err)

	mpars := stream.Params{
		"stream": stream.ComponentParams{
			Coords: map[string]stream.CoordParams{
				"phi2": {
					stream.MeanParam:    {0, 0.1, 0.2, 0.3},
					stream.LnSigmaParam: {0, 0, 0, 0},
				},
			},
			Weight: []float64{1, 1, 1, 1},
		},
		stream.BackgroundName: stream.ComponentParams{
			Coords: map[string]stream.CoordParams{},
			// Scalar weight broadcast across rows.
			Weight: []float64{0.25},
		},
	}
	return data, mpars
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	data, mpars := fixtureRun(t)

	runID, err := s.ImportRun(data, mpars)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	gotData, gotPars, err := s.LoadRun(runID)
	require.NoError(t, err)

	require.Equal(t, data.Len(), gotData.Len())
	for _, coord := range data.Columns() {
		want, _ := data.Column(coord)
		got, err := gotData.Column(coord)
		require.NoError(t, err, coord)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("column %s mismatch (-want +got):\n%s", coord, diff)
		}
	}
	if diff := cmp.Diff(mpars, gotPars); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRunUnknownID(t *testing.T) {
	s := openTestStore(t)
	_, _, err := s.LoadRun("nope")
	assert.Error(t, err)
}

func TestSaveRunDuplicateID(t *testing.T) {
	s := openTestStore(t)
	data, mpars := fixtureRun(t)

	require.NoError(t, s.SaveRun("run-1", data, mpars))
	assert.Error(t, s.SaveRun("run-1", data, mpars))
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	data, mpars := fixtureRun(t)

	require.NoError(t, s.SaveRun("run-a", data, mpars))
	require.NoError(t, s.SaveRun("run-b", data, mpars))

	runs, err := s.ListRuns()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"run-a", "run-b"}, runs)
}

func TestDecodeRunFile(t *testing.T) {
	input := `{
		"data": {"phi1": [0, 1], "phi2": [0.5, 0.6]},
		"params": {
			"stream": {
				"coords": {"phi2": {"mu": [0.5, 0.6], "ln-sigma": [-1, -1]}},
				"weight": [1, 1]
			}
		}
	}`

	data, mpars, err := DecodeRunFile(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, data.Len())

	cp, err := mpars.Component("stream")
	require.NoError(t, err)
	assert.True(t, cp.HasWeight())
	mu, err := cp.Param("phi2", stream.MeanParam)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.6}, mu)
}

func TestDecodeRunFileRejectsMalformed(t *testing.T) {
	cases := []string{
		`{"data": {}, "params": {}}`,                          // no columns
		`{"data": {"phi1": [1], "phi2": [1, 2]}, "params": {}}`, // ragged
		`{"data": {"phi1": [1]}, "params": {}, "coord": "x"}`,  // unknown field
		`not json`,
	}
	for i, in := range cases {
		if _, _, err := DecodeRunFile(strings.NewReader(in)); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

// A weight that is neither a scalar nor one value per row is rejected at
// import time instead of crashing a later render.
func TestDecodeRunFileRejectsShortWeight(t *testing.T) {
	input := `{
		"data": {"phi1": [0, 1, 2, 3], "phi2": [0.1, 0.2, 0.1, 0.3]},
		"params": {
			"stream": {
				"coords": {"phi2": {"mu": [0, 0, 0, 0], "ln-sigma": [0, 0, 0, 0]}},
				"weight": [0.5, 0.5]
			}
		}
	}`
	_, _, err := DecodeRunFile(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")
}

func TestMigrateUpAndVersion(t *testing.T) {
	s := openTestStore(t)

	// The repo-level migrations directory, relative to this package.
	dir := filepath.Join("..", "..", "migrations")

	require.NoError(t, s.MigrateUp(dir))
	version, dirty, err := s.MigrateVersion(dir)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	// Idempotent when already at the latest version.
	require.NoError(t, s.MigrateUp(dir))

	require.NoError(t, s.MigrateDown(dir))
	version, _, err = s.MigrateVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
}
