package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bimile/internal/core"
	"bimile/internal/render"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bimile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsValidate(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.Sim.Scale)
	assert.Equal(t, 0.3, cfg.Sim.Density)
	assert.Equal(t, 100, cfg.Steps)
	assert.Equal(t, 1, cfg.FrameSkip)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 10, cfg.Delay)

	pal, err := cfg.Palette()
	require.NoError(t, err)
	assert.Equal(t, render.DefaultPalette(), pal)
}

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.Bind(fs)

	require.NoError(t, fs.Parse([]string{"--scale=32", "--density", "0.45", "--frame-skip=3", "-o", "out.gif"}))
	assert.Equal(t, 32, cfg.Sim.Scale)
	assert.Equal(t, 0.45, cfg.Sim.Density)
	assert.Equal(t, 3, cfg.FrameSkip)
	assert.Equal(t, "out.gif", cfg.Output)
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := NewConfig()
	cfg.Sim.Scale = 0
	cfg.Sim.Density = 1.5
	cfg.Steps = 0
	cfg.Workers = 0
	cfg.Trace = "jaeger"
	cfg.DownColor = "blue"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	for _, field := range []string{"scale", "density", "steps", "workers", "trace", "down_color"} {
		assert.Contains(t, err.Error(), "invalid "+field)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "scale: 64\ndensity: 0.4\nframe_skip: 2\nright_color: '#00ff00'\n")
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Sim.Scale)
	assert.Equal(t, 0.4, cfg.Sim.Density)
	assert.Equal(t, 2, cfg.FrameSkip)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
	assert.Equal(t, 100, cfg.Steps)

	pal, err := cfg.Palette()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), pal.Right.G)
}

func TestLoadFileEmptyAndUnknownKeys(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)

	_, err = LoadFile(writeFile(t, "scael: 10\n"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMergeFlagsWinOverFile(t *testing.T) {
	path := writeFile(t, "scale: 64\nsteps: 20\n")

	cfg := NewConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.Bind(fs)
	fs.String("config", "", "")
	require.NoError(t, fs.Parse([]string{"--config", path, "--steps=7"}))

	merged, err := Merge(path, fs)
	require.NoError(t, err)
	assert.Equal(t, 64, merged.Sim.Scale)
	assert.Equal(t, 7, merged.Steps)
}

func TestSetRejectsBadValues(t *testing.T) {
	cfg := NewConfig()
	err := cfg.Set("scale", "big")
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	err = cfg.Set("colour", "#fff")
	assert.True(t, errors.Is(err, ErrUnknownSetting))
}

func TestViewConfigNewSim(t *testing.T) {
	vc := NewViewConfig()
	vc.Params = map[string]string{"scale": "16"}
	sim, err := vc.NewSim()
	require.NoError(t, err)
	assert.Equal(t, "bml", sim.Name())
	assert.Equal(t, core.Size{W: 16, H: 16}, sim.Size())

	vc.Sim = "life"
	_, err = vc.NewSim()
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}
