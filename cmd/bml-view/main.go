//go:build ebiten

package main

import (
	"errors"
	"log/slog"
	"os"

	"bimile/internal/app"
	"bimile/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := app.NewViewConfig()
	cfg.Bind(pflag.CommandLine)
	pflag.Parse()

	sim, err := cfg.NewSim()
	if err != nil {
		logger.Error("start viewer", "err", err)
		os.Exit(2)
	}

	game := app.New(sim, cfg, render.DefaultPalette())
	size := sim.Size()

	ebiten.SetWindowTitle("bimile: " + sim.Name())
	ebiten.SetWindowSize(size.W*cfg.PixelScale+cfg.PanelWidth, size.H*cfg.PixelScale)

	logger.Info("viewer started", "sim", sim.Name(), "w", size.W, "h", size.H, "sps", cfg.StepsPerSecond)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
