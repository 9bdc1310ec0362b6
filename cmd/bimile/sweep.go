package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bimile/internal/core"
	"bimile/internal/sims/traffic"
)

type sweepOptions struct {
	from, to float64
	count    int
}

func newSweepCmd(c *cli) *cobra.Command {
	opts := sweepOptions{from: 0.1, to: 0.6, count: 11}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Measure mobility across a range of densities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSweep(opts)
		},
	}
	cmd.Flags().Float64Var(&opts.from, "from", opts.from, "lowest density")
	cmd.Flags().Float64Var(&opts.to, "to", opts.to, "highest density")
	cmd.Flags().IntVar(&opts.count, "count", opts.count, "number of densities")
	return cmd
}

// densities spreads count values evenly over [from, to].
func (o sweepOptions) densities() ([]float64, error) {
	if o.count < 1 {
		return nil, core.NewConfigError("count", o.count, "must be at least 1")
	}
	if o.from < 0 || o.to > 1 || o.from > o.to {
		return nil, core.NewConfigError("range", fmt.Sprintf("%g..%g", o.from, o.to), "need 0 <= from <= to <= 1")
	}
	if o.count == 1 {
		return []float64{o.from}, nil
	}
	out := make([]float64, o.count)
	span := o.to - o.from
	for i := range out {
		out[i] = min(o.from+span*float64(i)/float64(o.count-1), o.to)
	}
	return out, nil
}

func (c *cli) runSweep(opts sweepOptions) error {
	densities, err := opts.densities()
	if err != nil {
		return err
	}
	start := time.Now()
	results, err := traffic.DensitySweep(c.cfg.Sim, densities, c.cfg.Steps, c.cfg.Workers)
	if err != nil {
		return err
	}
	c.logger.Info("sweep finished",
		slog.Int("scenarios", len(results)),
		slog.Duration("elapsed", time.Since(start)),
	)

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DENSITY\tCARS\tMOBILITY\tSTATE")
	for _, r := range results {
		state := "free"
		if r.Jammed {
			state = "jammed"
		}
		fmt.Fprintf(tw, "%.3f\t%d\t%.3f\t%s\n", r.Density, r.Cars, r.Mobility, state)
	}
	return tw.Flush()
}
