package traffic

import (
	"strconv"

	pcore "bimile/pkg/core"
)

// Config controls the initial BML grid.
type Config struct {
	Scale   int     `yaml:"scale" validate:"min=1"`
	Density float64 `yaml:"density" validate:"gte=0,lte=1"`
	Seed    int64   `yaml:"seed"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Scale: 100, Density: 0.3, Seed: 42}
}

// FromMap populates a Config from a string map. Unparseable or out of range
// values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["scale"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Scale = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Density = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c
}

// Validate rejects configurations NewGrid would refuse.
func (c Config) Validate() error {
	return validateGrid(c.Scale, c.Density)
}

// NewGrid seeds a fresh grid from the configuration.
func (c Config) NewGrid() (Grid, error) {
	return NewGrid(c.Scale, c.Density, pcore.NewRNG(c.Seed))
}
