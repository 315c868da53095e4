package diag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/streamviz/internal/monitoring"
	"github.com/banshee-data/streamviz/internal/stream"
)

// ErrNoCoords is returned when a composition is requested with no
// coordinates.
var ErrNoCoords = errors.New("diag: at least one coordinate is required")

// weightPanelFraction is the share of a cell's height given to the weight
// sub-panel; the value sub-panel takes the rest (1:3).
const weightPanelFraction = 0.25

// Figure is a composed diagnostic figure: one panel pair per requested
// coordinate, left to right in request order. It is handed back to the
// caller for saving or further per-panel customisation and never retained.
type Figure struct {
	Cells []*CoordPanels

	cellWidth  vg.Length
	cellHeight vg.Length
}

// ModelPanels composes the full diagnostic figure for a fitted model: for
// each coordinate, the raw data with every requested component's trend and
// bands, plus the membership-weight panel. The model handle is carried for
// the caller's benefit and never invoked. Data and Params are read-only.
func ModelPanels(model stream.Model, data *stream.Data, mpars stream.Params, comps []stream.Component, coords []string, opts Options) (*Figure, error) {
	_ = model // pass-through handle only

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(coords) == 0 {
		return nil, ErrNoCoords
	}
	if len(comps) == 0 {
		comps = []stream.Component{stream.Named("stream")}
	}
	for _, coord := range coords {
		if !data.Has(coord) {
			return nil, fmt.Errorf("diag: data has no column %q", coord)
		}
	}
	if !data.Has(opts.GetIndepCoord()) {
		return nil, fmt.Errorf("diag: data has no independent coordinate column %q", opts.GetIndepCoord())
	}

	fig := &Figure{
		cellWidth:  opts.GetCellWidth(),
		cellHeight: opts.GetCellHeight(),
	}
	for _, coord := range coords {
		panels := NewCoordPanels(opts.GetIndepCoord(), coord)
		if err := RenderCoordinatePanel(panels, data, mpars, comps, opts); err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", coord, err)
		}
		fig.Cells = append(fig.Cells, panels)
	}
	return fig, nil
}

// WriteTo renders the figure as a PNG to w.
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	width := f.cellWidth * vg.Length(len(f.Cells))
	img := vgimg.NewWith(vgimg.UseWH(width, f.cellHeight))
	dc := draw.New(img)

	for i, cell := range f.Cells {
		x0 := f.cellWidth * vg.Length(i)
		c := draw.Crop(dc, x0, x0+f.cellWidth-width, 0, 0)

		split := f.cellHeight * vg.Length(1-weightPanelFraction)
		cell.Value.Draw(draw.Crop(c, 0, 0, 0, split-f.cellHeight))
		cell.Weight.Draw(draw.Crop(c, 0, 0, split, 0))
	}

	png := vgimg.PngCanvas{Canvas: img}
	return png.WriteTo(w)
}

// Save renders the figure as a PNG file.
func (f *Figure) Save(path string) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer w.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	monitoring.Debugf("saved %d-panel figure to %s", len(f.Cells), path)
	return nil
}
