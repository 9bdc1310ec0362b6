package traffic

import (
	"bimile/internal/core"
)

// Model is a live, mutable BML simulation used by the interactive viewer. Each
// call to Step advances one full logical step (a down and a right half-step).
type Model struct {
	cfg      Config
	grid     Grid
	phase    Phase
	steps    int
	mobility float64
	display  []uint8
}

// NewModel returns a model seeded from cfg. Invalid values fall back to the
// defaults.
func NewModel(cfg Config) *Model {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	m := &Model{cfg: cfg}
	m.Reset(cfg.Seed)
	return m
}

// Name returns the simulation identifier.
func (m *Model) Name() string { return "bml" }

// Size returns the grid dimensions.
func (m *Model) Size() core.Size { return core.Size{W: m.cfg.Scale, H: m.cfg.Scale} }

// Cells exposes the display buffer; values are Cell codes.
func (m *Model) Cells() []uint8 { return m.display }

// Grid returns the current immutable grid.
func (m *Model) Grid() Grid { return m.grid }

// Steps returns the number of logical steps taken since the last reset.
func (m *Model) Steps() int { return m.steps }

// Reset reseeds the grid. A zero seed reuses the configured seed.
func (m *Model) Reset(seed int64) {
	if seed != 0 {
		m.cfg.Seed = seed
	}
	g, err := m.cfg.NewGrid()
	if err != nil {
		// cfg was validated in NewModel and SetFloatParameter.
		panic(err)
	}
	m.grid = g
	m.phase = DownTurn
	m.steps = 0
	m.mobility = 0
	m.refreshDisplay()
}

// Step advances the model by one logical step.
func (m *Model) Step() {
	occupied := m.grid.Occupied()
	g, p, down := StepMoves(m.grid, m.phase)
	g, p, right := StepMoves(g, p)
	m.grid, m.phase = g, p
	m.steps++
	m.mobility = 0
	if occupied > 0 {
		m.mobility = float64(down+right) / float64(occupied)
	}
	m.refreshDisplay()
}

func (m *Model) refreshDisplay() {
	raw := m.grid.raw()
	if len(m.display) != len(raw) {
		m.display = make([]uint8, len(raw))
	}
	copy(m.display, raw)
}

// Parameters reports the model state for the HUD.
func (m *Model) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("scale", "Scale", m.cfg.Scale),
				core.FloatParam("density", "Density", m.cfg.Density),
				core.Int64Param("seed", "Seed", m.cfg.Seed),
			},
		},
		{
			Name: "Traffic",
			Params: []core.Parameter{
				core.IntParam("step", "Step", m.steps),
				core.TextParam("phase", "Phase", m.phase.String()),
				core.IntParam("down", "Down cars", m.grid.Count(MovingDown)),
				core.IntParam("right", "Right cars", m.grid.Count(MovingRight)),
				core.FloatParam("mobility", "Mobility", m.mobility),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable values.
func (m *Model) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "density", Label: "Density", Step: 0.05, Min: 0, Max: 1},
	}
}

// SetFloatParameter updates a tunable and reseeds the grid.
func (m *Model) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "density":
		cfg := m.cfg
		cfg.Density = value
		if cfg.Validate() != nil {
			return false
		}
		m.cfg = cfg
		m.Reset(0)
		return true
	}
	return false
}

func init() {
	core.Register("bml", func(cfg map[string]string) core.Sim {
		return NewModel(FromMap(cfg))
	})
}
