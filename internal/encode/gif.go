// Package encode assembles rendered frames into an animated GIF.
package encode

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// DefaultDelay is the per-frame delay in hundredths of a second.
const DefaultDelay = 10

// ErrNoFrames is returned when there is nothing to encode.
var ErrNoFrames = errors.New("no frames to encode")

// GIF encodes frames with a uniform delay into a looping animation.
type GIF struct {
	// Delay per frame in centiseconds.
	Delay int
	// Palette every frame is mapped onto. Frames are expected to use only
	// palette colours; other colours map to their nearest entry.
	Palette color.Palette
}

// Encode writes frames to w in order.
func (g GIF) Encode(w io.Writer, frames []image.Image) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if g.Delay < 0 {
		return fmt.Errorf("encode gif: negative delay %d", g.Delay)
	}
	if len(g.Palette) == 0 || len(g.Palette) > 256 {
		return fmt.Errorf("encode gif: palette needs 1 to 256 colours, got %d", len(g.Palette))
	}

	anim := &gif.GIF{
		Image: make([]*image.Paletted, len(frames)),
		Delay: make([]int, len(frames)),
	}
	for i, frame := range frames {
		if frame == nil {
			return fmt.Errorf("encode gif: frame %d is nil", i)
		}
		anim.Image[i] = Quantize(frame, g.Palette)
		anim.Delay[i] = g.Delay
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// EncodeFile writes the animation to path, replacing any existing file.
func (g GIF) EncodeFile(path string, frames []image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return g.Encode(f, frames)
}

// Quantize maps frame onto pal without dithering.
func Quantize(frame image.Image, pal color.Palette) *image.Paletted {
	b := frame.Bounds()
	dst := image.NewPaletted(b, pal)
	draw.Draw(dst, b, frame, b.Min, draw.Src)
	return dst
}
