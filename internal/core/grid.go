package core

import "slices"

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
// Coordinates are (x, y) with x the column and y the row.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a zeroed grid with the given dimensions. Non-positive
// dimensions are clamped to 1.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// ByteGridFrom wraps a copy of cells. It reports false when len(cells) != w*h.
func ByteGridFrom(w, h int, cells []uint8) (*ByteGrid, bool) {
	if w <= 0 || h <= 0 || len(cells) != w*h {
		return nil, false
	}
	return &ByteGrid{W: w, H: h, data: slices.Clone(cells)}, true
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *ByteGrid) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// At reads the value at (x, y) after wrapping.
func (g *ByteGrid) At(x, y int) uint8 {
	x, y = g.Wrap(x, y)
	return g.data[g.Index(x, y)]
}

// Set writes v at (x, y) after wrapping.
func (g *ByteGrid) Set(x, y int, v uint8) {
	x, y = g.Wrap(x, y)
	g.data[g.Index(x, y)] = v
}

// Clone returns a deep copy of the grid.
func (g *ByteGrid) Clone() *ByteGrid {
	return &ByteGrid{W: g.W, H: g.H, data: slices.Clone(g.data)}
}

// Equal reports whether both grids have the same dimensions and contents.
func (g *ByteGrid) Equal(o *ByteGrid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.W == o.W && g.H == o.H && slices.Equal(g.data, o.data)
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
