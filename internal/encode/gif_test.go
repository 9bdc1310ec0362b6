package encode

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
	pal   = color.Palette{white, blue, red}
)

func solid(c color.RGBA, x, y int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 255, 255, 255
	}
	img.SetRGBA(x, y, c)
	return img
}

func TestEncodeRoundTripsFramesInOrder(t *testing.T) {
	frames := []image.Image{solid(blue, 0, 0), solid(red, 3, 3), solid(blue, 1, 2)}
	var buf bytes.Buffer
	require.NoError(t, GIF{Delay: DefaultDelay, Palette: pal}.Encode(&buf, frames))

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Image, 3)
	assert.Equal(t, []int{10, 10, 10}, decoded.Delay)

	at := func(i, x, y int) color.RGBA {
		return color.RGBAModel.Convert(decoded.Image[i].At(x, y)).(color.RGBA)
	}
	assert.Equal(t, blue, at(0, 0, 0))
	assert.Equal(t, red, at(1, 3, 3))
	assert.Equal(t, blue, at(2, 1, 2))
	assert.Equal(t, white, at(2, 0, 0))
}

func TestEncodeRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, GIF{Delay: 10, Palette: pal}.Encode(&buf, nil), ErrNoFrames)
	assert.Error(t, GIF{Delay: -1, Palette: pal}.Encode(&buf, []image.Image{solid(red, 0, 0)}))
	assert.Error(t, GIF{Delay: 10}.Encode(&buf, []image.Image{solid(red, 0, 0)}))
	assert.Error(t, GIF{Delay: 10, Palette: pal}.Encode(&buf, []image.Image{nil}))
}

func TestEncodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	require.NoError(t, GIF{Delay: 5, Palette: pal}.EncodeFile(path, []image.Image{solid(red, 2, 2)}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, decoded.Delay)
}

func TestQuantizeMapsExactColours(t *testing.T) {
	p := Quantize(solid(red, 1, 1), pal)
	assert.Equal(t, uint8(2), p.ColorIndexAt(1, 1))
	assert.Equal(t, uint8(0), p.ColorIndexAt(0, 0))
}
