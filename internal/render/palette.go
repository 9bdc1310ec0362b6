package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"bimile/internal/sims/traffic"
)

// Background is the fixed frame background.
var Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Palette assigns a colour to each moving species. Empty cells are never
// painted.
type Palette struct {
	Down  color.RGBA
	Right color.RGBA
}

// DefaultPalette returns the classic blue/red BML colouring.
func DefaultPalette() Palette {
	return Palette{
		Down:  color.RGBA{R: 40, G: 70, B: 220, A: 255},
		Right: color.RGBA{R: 220, G: 40, B: 40, A: 255},
	}
}

// ColorFor returns the colour for c and false for Empty.
func (p Palette) ColorFor(c traffic.Cell) (color.Color, bool) {
	switch c {
	case traffic.MovingDown:
		return p.Down, true
	case traffic.MovingRight:
		return p.Right, true
	}
	return nil, false
}

// Cells returns the palette indexed by cell code, for FillPaletteRGBA.
func (p Palette) Cells() []color.RGBA {
	return []color.RGBA{Background, p.Down, p.Right}
}

// Indexed returns the palette used to quantise frames before encoding.
func (p Palette) Indexed() color.Palette {
	return color.Palette{Background, p.Down, p.Right, color.RGBA{A: 255}}
}

// ParseHexColor parses "#rrggbb", "rrggbb" or "#rgb".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("parse colour %q: want 3 or 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
