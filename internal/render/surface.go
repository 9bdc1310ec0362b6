package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Surface is the 2D drawing target a frame is painted on.
type Surface interface {
	// Fill paints the w×h rectangle whose top-left corner is (x, y).
	Fill(x, y, w, h int, c color.Color)
	// Point paints a single pixel.
	Point(x, y int, c color.Color)
	// Finalize returns the finished raster. The surface must not be used
	// afterwards.
	Finalize() image.Image
}

// SurfaceFactory creates a w×h surface cleared to bg.
type SurfaceFactory func(w, h int, bg color.Color) Surface

type ggSurface struct {
	dc *gg.Context
}

// NewSurface returns a gg-backed surface.
func NewSurface(w, h int, bg color.Color) Surface {
	dc := gg.NewContext(w, h)
	dc.SetColor(bg)
	dc.Clear()
	return &ggSurface{dc: dc}
}

func (s *ggSurface) Fill(x, y, w, h int, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	s.dc.Fill()
}

func (s *ggSurface) Point(x, y int, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetPixel(x, y)
}

func (s *ggSurface) Finalize() image.Image {
	return s.dc.Image()
}
