package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bimile/internal/render"
	"bimile/internal/sims/traffic"
)

func newPrintCmd(c *cli) *cobra.Command {
	var halfSteps bool
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Simulate and print every snapshot as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPrint(halfSteps)
		},
	}
	cmd.Flags().BoolVar(&halfSteps, "half-steps", false, "print the grid after every half-step instead of every snapshot")
	return cmd
}

func (c *cli) runPrint(halfSteps bool) error {
	cfg := c.cfg
	palette, err := cfg.Palette()
	if err != nil {
		return err
	}
	tr := render.NewTextRenderer(c.out, palette)
	initial, err := cfg.Sim.NewGrid()
	if err != nil {
		return err
	}
	fmt.Fprint(c.out, tr.Render(traffic.DownTurn, initial))

	if halfSteps {
		g, p := initial, traffic.DownTurn
		for i := 0; i < 2*cfg.Steps*cfg.FrameSkip; i++ {
			g, p = traffic.Step(g, p)
			fmt.Fprintln(c.out)
			fmt.Fprint(c.out, tr.Render(p, g))
		}
		return nil
	}

	history, err := traffic.Run(initial, cfg.Steps, cfg.FrameSkip)
	if err != nil {
		return err
	}
	for _, g := range history {
		fmt.Fprintln(c.out)
		fmt.Fprint(c.out, tr.Render(traffic.DownTurn, g))
	}
	return nil
}
