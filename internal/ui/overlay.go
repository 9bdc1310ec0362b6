//go:build ebiten

package ui

import (
	"image/color"

	"bimile/internal/core"
	"bimile/internal/sims/traffic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type gridProvider interface {
	Grid() traffic.Grid
}

// Overlay tints blocked cars on top of the base simulation. Toggle with J.
type Overlay struct {
	sim       core.Sim
	showJams  bool
	maskImg   *ebiten.Image
	maskBuf   []byte
	maskColor color.RGBA
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim) *Overlay {
	return &Overlay{sim: sim, maskColor: color.RGBA{R: 255, G: 200, A: 160}}
}

// Update handles the toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyJ) {
		o.showJams = !o.showJams
	}
}

// Draw paints the jam mask scaled to the view.
func (o *Overlay) Draw(screen *ebiten.Image, scale int) {
	if !o.showJams {
		return
	}
	provider, ok := o.sim.(gridProvider)
	if !ok {
		return
	}
	g := provider.Grid()
	mask := traffic.BlockedMask(g)
	n := g.Scale()
	if len(mask) == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != n {
		o.maskImg = ebiten.NewImage(n, n)
		o.maskBuf = make([]byte, 4*n*n)
	}
	c := o.maskColor
	for i, blocked := range mask {
		j := i * 4
		if !blocked {
			o.maskBuf[j], o.maskBuf[j+1], o.maskBuf[j+2], o.maskBuf[j+3] = 0, 0, 0, 0
			continue
		}
		// WritePixels expects premultiplied alpha.
		a := uint16(c.A)
		o.maskBuf[j] = uint8(uint16(c.R) * a / 255)
		o.maskBuf[j+1] = uint8(uint16(c.G) * a / 255)
		o.maskBuf[j+2] = uint8(uint16(c.B) * a / 255)
		o.maskBuf[j+3] = c.A
	}
	o.maskImg.WritePixels(o.maskBuf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}
