package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bimile/internal/encode"
	"bimile/internal/pipeline"
	"bimile/internal/render"
	"bimile/internal/sims/traffic"
	"bimile/internal/telemetry"
)

var tracer = otel.Tracer("bimile.cmd")

func newGIFCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "gif",
		Short: "Simulate and write an animated GIF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGIF(cmd.Context())
		},
	}
}

func (c *cli) runGIF(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:   "bimile",
		Version:       version,
		TraceExporter: c.cfg.Trace,
		Output:        c.errOut,
	})
	if err != nil {
		return err
	}
	defer func() {
		if serr := shutdown(context.Background()); serr != nil {
			c.logger.Warn("trace shutdown failed", slog.Any("err", serr))
		}
	}()

	ctx, span := tracer.Start(ctx, "bimile.gif", trace.WithAttributes(attribute.String("run_id", c.runID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	cfg := c.cfg
	palette, err := cfg.Palette()
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer(cfg.CellSize, palette.ColorFor)
	if err != nil {
		return err
	}
	start := time.Now()

	history, err := c.simulate(ctx)
	if err != nil {
		return err
	}

	_, renderSpan := tracer.Start(ctx, "bimile.render", trace.WithAttributes(attribute.Int("frames", len(history))))
	frames, err := pipeline.RenderAll(ctx, history, cfg.Workers, renderer.Render, pipeline.WithLogger(c.logger))
	renderSpan.End()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	_, encodeSpan := tracer.Start(ctx, "bimile.encode", trace.WithAttributes(attribute.String("path", cfg.Output)))
	err = encode.GIF{Delay: cfg.Delay, Palette: palette.Indexed()}.EncodeFile(cfg.Output, frames)
	encodeSpan.End()
	if err != nil {
		return err
	}

	size := renderer.FrameSize(cfg.Sim.Scale)
	c.logger.Info("animation written",
		slog.String("path", cfg.Output),
		slog.Int("frames", len(frames)),
		slog.String("size", fmt.Sprintf("%dx%d", size, size)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// simulate builds the initial grid and runs the configured number of steps.
func (c *cli) simulate(ctx context.Context) (traffic.History, error) {
	cfg := c.cfg
	_, span := tracer.Start(ctx, "bimile.simulate", trace.WithAttributes(
		attribute.Int("scale", cfg.Sim.Scale),
		attribute.Float64("density", cfg.Sim.Density),
		attribute.Int("steps", cfg.Steps),
		attribute.Int("frame_skip", cfg.FrameSkip),
	))
	defer span.End()

	initial, err := cfg.Sim.NewGrid()
	if err != nil {
		return nil, err
	}
	logEvery := max(cfg.Steps/10, 1)
	runner := &traffic.Runner{
		Logger: c.logger,
		OnSnapshot: func(s traffic.Snapshot) {
			if (s.Index+1)%logEvery == 0 {
				c.logger.Info("simulating",
					slog.Int("step", s.Index+1),
					slog.Int("of", cfg.Steps),
					slog.Float64("mobility", s.Mobility),
				)
			}
		},
	}
	history, err := runner.Run(initial, cfg.Steps, cfg.FrameSkip)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	return history, nil
}
