package traffic

import (
	"fmt"
	"sort"
	"sync"

	"bimile/internal/core"
)

// JamThreshold is the mobility below which a run is reported as jammed.
const JamThreshold = 0.05

// SweepResult summarises one density of a sweep.
type SweepResult struct {
	Density  float64
	Cars     int
	Mobility float64
	Jammed   bool
}

func (r SweepResult) String() string {
	state := "free"
	if r.Jammed {
		state = "jammed"
	}
	return fmt.Sprintf("density=%.3f cars=%d mobility=%.3f %s", r.Density, r.Cars, r.Mobility, state)
}

// DensitySweep runs one simulation per density on a pool of workers and
// reports the mean mobility over the last quarter of each run. All runs share
// base's scale and seed. Results are sorted by density.
func DensitySweep(base Config, densities []float64, steps, workers int) ([]SweepResult, error) {
	if steps < 1 {
		return nil, core.NewConfigError("steps", steps, "must be at least 1")
	}
	if workers < 1 {
		return nil, core.NewConfigError("workers", workers, "must be at least 1")
	}
	for _, d := range densities {
		cfg := base
		cfg.Density = d
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	jobs := make(chan float64)
	results := make(chan SweepResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for density := range jobs {
				cfg := base
				cfg.Density = density
				results <- runSweepScenario(cfg, steps)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, d := range densities {
			jobs <- d
		}
		close(jobs)
	}()

	all := make([]SweepResult, 0, len(densities))
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Density < all[j].Density })
	return all, nil
}

func runSweepScenario(cfg Config, steps int) SweepResult {
	grid, err := cfg.NewGrid()
	if err != nil {
		// densities were validated by DensitySweep.
		panic(err)
	}
	res := SweepResult{Density: cfg.Density, Cars: grid.Occupied()}
	if res.Cars == 0 {
		return res
	}

	window := steps / 4
	if window < 1 {
		window = 1
	}
	phase := DownTurn
	total := 0
	for step := 0; step < steps; step++ {
		var down, right int
		grid, phase, down = StepMoves(grid, phase)
		grid, phase, right = StepMoves(grid, phase)
		if step >= steps-window {
			total += down + right
		}
	}
	res.Mobility = float64(total) / float64(res.Cars*window)
	res.Jammed = res.Mobility < JamThreshold
	return res
}
