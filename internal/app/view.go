package app

import (
	"github.com/spf13/pflag"

	"bimile/internal/core"
)

// ViewConfig configures the interactive viewer.
type ViewConfig struct {
	Sim            string
	Params         map[string]string
	PixelScale     int
	StepsPerSecond int
	PanelWidth     int
}

// NewViewConfig returns viewer defaults.
func NewViewConfig() *ViewConfig {
	return &ViewConfig{
		Sim:            "bml",
		Params:         map[string]string{},
		PixelScale:     4,
		StepsPerSecond: 30,
		PanelWidth:     220,
	}
}

// Bind attaches the viewer flags to fs.
func (c *ViewConfig) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.StringToStringVar(&c.Params, "param", c.Params, "simulation parameters as key=value (scale, density, seed)")
	fs.IntVar(&c.PixelScale, "pixel-scale", c.PixelScale, "screen pixels per cell")
	fs.IntVar(&c.StepsPerSecond, "sps", c.StepsPerSecond, "simulation steps per second")
	fs.IntVar(&c.PanelWidth, "panel", c.PanelWidth, "HUD panel width in pixels, 0 hides it")
}

// NewSim looks up the configured simulation and builds it.
func (c *ViewConfig) NewSim() (core.Sim, error) {
	factory, ok := core.Sims()[c.Sim]
	if !ok {
		return nil, core.NewConfigError("sim", c.Sim, "unknown simulation")
	}
	if c.PixelScale < 1 {
		return nil, core.NewConfigError("pixel-scale", c.PixelScale, "must be at least 1")
	}
	return factory(c.Params), nil
}
