package traffic

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"bimile/internal/core"
	pcore "bimile/pkg/core"
)

// ErrMalformedGrid is returned when a zero-value or corrupted Grid is used.
var ErrMalformedGrid = errors.New("malformed grid")

// Grid is an immutable square torus of cells. The zero value is not usable;
// construct grids with NewGrid, GridFromCells or ParseGrid.
type Grid struct {
	cells *core.ByteGrid
}

// NewGrid fills a scale×scale grid independently per cell: Empty with
// probability 1-density, otherwise MovingDown or MovingRight with equal odds.
func NewGrid(scale int, density float64, rng *pcore.RNG) (Grid, error) {
	if err := validateGrid(scale, density); err != nil {
		return Grid{}, err
	}
	if rng == nil {
		return Grid{}, core.NewConfigError("random source", nil, "must not be nil")
	}
	g := core.NewByteGrid(scale, scale)
	cells := g.Cells()
	for i := range cells {
		if rng.Float64() >= density {
			continue
		}
		if rng.Float64() >= 0.5 {
			cells[i] = uint8(MovingDown)
		} else {
			cells[i] = uint8(MovingRight)
		}
	}
	return Grid{cells: g}, nil
}

func validateGrid(scale int, density float64) error {
	if scale < 1 {
		return core.NewConfigError("scale", scale, "must be at least 1")
	}
	if math.IsNaN(density) || density < 0 || density > 1 {
		return core.NewConfigError("density", density, "must be within [0, 1]")
	}
	return nil
}

// GridFromCells builds a grid from row-major cells. The slice is copied.
func GridFromCells(scale int, cells []Cell) (Grid, error) {
	if scale < 1 {
		return Grid{}, core.NewConfigError("scale", scale, "must be at least 1")
	}
	if len(cells) != scale*scale {
		return Grid{}, fmt.Errorf("%w: %d cells for scale %d", ErrMalformedGrid, len(cells), scale)
	}
	g := core.NewByteGrid(scale, scale)
	raw := g.Cells()
	for i, c := range cells {
		if !c.Valid() {
			return Grid{}, fmt.Errorf("%w: invalid cell %d at index %d", ErrMalformedGrid, c, i)
		}
		raw[i] = uint8(c)
	}
	return Grid{cells: g}, nil
}

// ParseGrid reads the text form produced by String: one row per line, cells
// written as 'D', 'R' or '.', optionally separated by spaces.
func ParseGrid(text string) (Grid, error) {
	var rows [][]Cell
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var row []Cell
		for _, r := range line {
			if r == ' ' || r == '\t' {
				continue
			}
			c, ok := cellFromRune(r)
			if !ok {
				return Grid{}, fmt.Errorf("%w: unexpected character %q", ErrMalformedGrid, r)
			}
			row = append(row, c)
		}
		rows = append(rows, row)
	}
	scale := len(rows)
	if scale == 0 {
		return Grid{}, fmt.Errorf("%w: no rows", ErrMalformedGrid)
	}
	cells := make([]Cell, 0, scale*scale)
	for i, row := range rows {
		if len(row) != scale {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, i, len(row), scale)
		}
		cells = append(cells, row...)
	}
	return GridFromCells(scale, cells)
}

// Scale returns the side length, or 0 for the zero value.
func (g Grid) Scale() int {
	if g.cells == nil {
		return 0
	}
	return g.cells.W
}

// Valid reports whether g was produced by a constructor.
func (g Grid) Valid() bool { return g.cells != nil }

// Get returns the cell at (row, col) after wrapping both coordinates.
func (g Grid) Get(row, col int) Cell {
	return Cell(g.cells.At(col, row))
}

// Cells returns a row-major copy of the grid.
func (g Grid) Cells() []Cell {
	if g.cells == nil {
		return nil
	}
	raw := g.cells.Cells()
	out := make([]Cell, len(raw))
	for i, v := range raw {
		out[i] = Cell(v)
	}
	return out
}

// Count returns how many cells hold c.
func (g Grid) Count(c Cell) int {
	if g.cells == nil {
		return 0
	}
	n := 0
	for _, v := range g.cells.Cells() {
		if Cell(v) == c {
			n++
		}
	}
	return n
}

// Occupied returns the number of non-empty cells.
func (g Grid) Occupied() int {
	if g.cells == nil {
		return 0
	}
	return g.cells.W*g.cells.H - g.Count(Empty)
}

// Equal reports whether both grids have the same scale and contents.
func (g Grid) Equal(o Grid) bool { return g.cells.Equal(o.cells) }

// String renders the grid one row per line with space separated cells.
func (g Grid) String() string {
	if g.cells == nil {
		return ""
	}
	var b strings.Builder
	n := g.Scale()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(g.Get(row, col).Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// raw exposes the backing bytes to the engine and renderers in this module.
// Callers must not modify the result.
func (g Grid) raw() []uint8 { return g.cells.Cells() }
