package traffic

import (
	"fmt"
	"log/slog"

	"bimile/internal/core"
)

// History is the ordered list of recorded snapshots. It is append-only while
// the simulation runs and read-only afterwards.
type History []Grid

// Snapshot describes one recorded simulation step.
type Snapshot struct {
	Index int
	Grid  Grid
	// Moves counts cells that moved during the half-steps that produced Grid.
	Moves int
	// Mobility is the fraction of occupied cells that moved per full logical
	// step, averaged over the frame skip. It is 0 for an empty grid.
	Mobility float64
}

// Runner drives repeated half-steps and records one snapshot per simulation
// step. The zero value is ready to use.
type Runner struct {
	// OnSnapshot, when set, is called synchronously after each snapshot is
	// appended.
	OnSnapshot func(Snapshot)
	Logger     *slog.Logger
}

// Run is shorthand for (&Runner{}).Run.
func Run(initial Grid, stepCount, subStepsPerSnapshot int) (History, error) {
	var r Runner
	return r.Run(initial, stepCount, subStepsPerSnapshot)
}

// Run applies 2*subStepsPerSnapshot half-steps per simulation step, starting
// each simulation step on DownTurn, and returns exactly stepCount snapshots.
func (r *Runner) Run(initial Grid, stepCount, subStepsPerSnapshot int) (History, error) {
	if !initial.Valid() {
		return nil, fmt.Errorf("run: %w", ErrMalformedGrid)
	}
	if stepCount < 1 {
		return nil, core.NewConfigError("step count", stepCount, "must be at least 1")
	}
	if subStepsPerSnapshot < 1 {
		return nil, core.NewConfigError("frame skip", subStepsPerSnapshot, "must be at least 1")
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	occupied := initial.Occupied()
	logger.Debug("simulation started",
		slog.Int("scale", initial.Scale()),
		slog.Int("occupied", occupied),
		slog.Int("steps", stepCount),
		slog.Int("frame_skip", subStepsPerSnapshot),
	)

	history := make(History, 0, stepCount)
	grid := initial
	phase := DownTurn
	for i := 0; i < stepCount; i++ {
		if phase != DownTurn {
			panic("traffic: simulation step must start on DownTurn")
		}
		moves := 0
		for h := 0; h < 2*subStepsPerSnapshot; h++ {
			var m int
			grid, phase, m = StepMoves(grid, phase)
			moves += m
		}
		history = append(history, grid)

		snap := Snapshot{Index: i, Grid: grid, Moves: moves}
		if occupied > 0 {
			snap.Mobility = float64(moves) / float64(occupied*subStepsPerSnapshot)
		}
		recordSnapshot(2*subStepsPerSnapshot, snap.Mobility)
		if r.OnSnapshot != nil {
			r.OnSnapshot(snap)
		}
	}

	logger.Debug("simulation finished", slog.Int("snapshots", len(history)))
	return history, nil
}
