package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"bimile/internal/app"
	"bimile/internal/telemetry"
)

const version = "0.3.0"

// cli carries state shared by every subcommand of one invocation.
type cli struct {
	cfg        *app.Config
	configPath string
	out        io.Writer
	errOut     io.Writer
	logger     *slog.Logger
	runID      string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{cfg: app.NewConfig(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "bimile",
		Short:         "Biham-Middleton-Levine traffic simulator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.writeMetrics()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "YAML configuration file; flags override its values")
	c.cfg.Bind(pf)

	root.AddCommand(newGIFCmd(c), newPrintCmd(c), newSweepCmd(c))
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	if c.configPath != "" {
		merged, err := app.Merge(c.configPath, cmd.Flags())
		if err != nil {
			return err
		}
		c.cfg = merged
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	logger, err := telemetry.NewLogger(c.errOut, c.cfg.LogLevel, c.cfg.LogFormat)
	if err != nil {
		return err
	}
	c.runID = uuid.NewString()
	c.logger = logger.With(slog.String("run_id", c.runID), slog.String("command", cmd.Name()))
	return nil
}

func (c *cli) writeMetrics() error {
	if c.cfg.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.cfg.MetricsFile, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	c.logger.Debug("metrics written", slog.String("path", c.cfg.MetricsFile))
	return nil
}
