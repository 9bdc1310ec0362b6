package render

import (
	"fmt"
	"image"
	"image/color"

	"bimile/internal/core"
	"bimile/internal/sims/traffic"
)

// ColorFunc maps a cell to its colour, or false when the cell is left as
// background.
type ColorFunc func(traffic.Cell) (color.Color, bool)

// Renderer turns grid snapshots into raster frames. It holds no mutable state,
// so a single Renderer may be shared by concurrent workers.
type Renderer struct {
	CellSize int
	ColorFor ColorFunc
	// Surface creates drawing surfaces; nil uses NewSurface.
	Surface SurfaceFactory
}

// NewRenderer validates cellSize and returns a Renderer.
func NewRenderer(cellSize int, colorFor ColorFunc) (*Renderer, error) {
	if cellSize < 1 {
		return nil, core.NewConfigError("cell size", cellSize, "must be at least 1")
	}
	if colorFor == nil {
		colorFor = DefaultPalette().ColorFor
	}
	return &Renderer{CellSize: cellSize, ColorFor: colorFor}, nil
}

// Render is shorthand for building a Renderer and rendering one grid.
func Render(g traffic.Grid, cellSize int, colorFor ColorFunc) (image.Image, error) {
	r, err := NewRenderer(cellSize, colorFor)
	if err != nil {
		return nil, err
	}
	return r.Render(g)
}

// FrameSize returns the pixel side length of a frame for a grid of scale.
func (r *Renderer) FrameSize(scale int) int { return scale * r.CellSize }

// Render paints g on a white background: each occupied cell becomes a filled
// square of side CellSize-1 at (col*CellSize, row*CellSize), or a single
// pixel when CellSize is 1.
func (r *Renderer) Render(g traffic.Grid) (image.Image, error) {
	if r.CellSize < 1 {
		return nil, core.NewConfigError("cell size", r.CellSize, "must be at least 1")
	}
	if !g.Valid() {
		return nil, fmt.Errorf("render: %w", traffic.ErrMalformedGrid)
	}
	newSurface := r.Surface
	if newSurface == nil {
		newSurface = NewSurface
	}

	n := g.Scale()
	size := r.FrameSize(n)
	s := newSurface(size, size, Background)
	cs := r.CellSize
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			c, ok := r.ColorFor(g.Get(row, col))
			if !ok {
				continue
			}
			if cs == 1 {
				s.Point(col, row, c)
				continue
			}
			s.Fill(col*cs, row*cs, cs-1, cs-1, c)
		}
	}
	return s.Finalize(), nil
}
