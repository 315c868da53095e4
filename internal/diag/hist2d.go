package diag

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
)

// densityGrid bins (x, y) observations onto a bins x bins grid and exposes
// log10(1+count) per cell, implementing plotter.GridXYZ for a heat map.
// The log transform keeps dense stream tracks visible next to sparse
// background cells.
type densityGrid struct {
	bins           int
	xmin, ymin     float64
	xwidth, ywidth float64
	counts         []float64 // row-major, counts[row*bins+col]
}

func newDensityGrid(x, y []float64, bins int) *densityGrid {
	g := &densityGrid{
		bins:   bins,
		xmin:   floats.Min(x),
		ymin:   floats.Min(y),
		counts: make([]float64, bins*bins),
	}
	g.xwidth = (floats.Max(x) - g.xmin) / float64(bins)
	g.ywidth = (floats.Max(y) - g.ymin) / float64(bins)
	if g.xwidth == 0 {
		g.xwidth = 1
	}
	if g.ywidth == 0 {
		g.ywidth = 1
	}

	for i := range x {
		col := int((x[i] - g.xmin) / g.xwidth)
		row := int((y[i] - g.ymin) / g.ywidth)
		if col >= bins {
			col = bins - 1
		}
		if row >= bins {
			row = bins - 1
		}
		g.counts[row*bins+col]++
	}
	return g
}

func (g *densityGrid) Dims() (c, r int) { return g.bins, g.bins }

func (g *densityGrid) X(c int) float64 {
	return g.xmin + (float64(c)+0.5)*g.xwidth
}

func (g *densityGrid) Y(r int) float64 {
	return g.ymin + (float64(r)+0.5)*g.ywidth
}

func (g *densityGrid) Z(c, r int) float64 {
	return math.Log10(1 + g.counts[r*g.bins+c])
}

// total returns the number of binned observations.
func (g *densityGrid) total() float64 {
	var sum float64
	for _, c := range g.counts {
		sum += c
	}
	return sum
}

// grays is a white-to-black palette for data density heat maps.
type grays int

func (g grays) Colors() []color.Color {
	n := int(g)
	if n < 2 {
		n = 2
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		v := uint8(255 - i*255/(n-1))
		colors[i] = color.NRGBA{R: v, G: v, B: v, A: 255}
	}
	return colors
}
