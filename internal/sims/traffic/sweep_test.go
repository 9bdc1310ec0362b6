package traffic

import (
	"testing"

	"bimile/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensitySweepOrderedAndDeterministic(t *testing.T) {
	base := Config{Scale: 16, Seed: 5}
	densities := []float64{0.9, 0.0, 0.4, 1.0, 0.2}

	first, err := DensitySweep(base, densities, 40, 3)
	require.NoError(t, err)
	second, err := DensitySweep(base, densities, 40, 1)
	require.NoError(t, err)

	require.Len(t, first, len(densities))
	assert.Equal(t, first, second, "worker count must not change results")
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].Density, first[i].Density)
	}
}

func TestDensitySweepExtremes(t *testing.T) {
	res, err := DensitySweep(Config{Scale: 8, Seed: 1}, []float64{0, 1}, 10, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Zero(t, res[0].Cars)
	assert.Zero(t, res[0].Mobility)

	assert.Equal(t, 64, res[1].Cars)
	assert.Zero(t, res[1].Mobility, "a full grid cannot move")
	assert.True(t, res[1].Jammed)
}

func TestDensitySweepRejectsInvalidInput(t *testing.T) {
	base := Config{Scale: 8, Seed: 1}
	_, err := DensitySweep(base, []float64{0.5}, 0, 1)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	_, err = DensitySweep(base, []float64{0.5}, 5, 0)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	_, err = DensitySweep(base, []float64{1.5}, 5, 1)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestModelImplementsSim(t *testing.T) {
	factory, ok := core.Sims()["bml"]
	require.True(t, ok, "bml should be registered")

	sim := factory(map[string]string{"scale": "12", "density": "0.4", "seed": "9"})
	assert.Equal(t, "bml", sim.Name())
	assert.Equal(t, core.Size{W: 12, H: 12}, sim.Size())
	require.Len(t, sim.Cells(), 144)

	m := sim.(*Model)
	down, right := m.Grid().Count(MovingDown), m.Grid().Count(MovingRight)
	for i := 0; i < 5; i++ {
		sim.Step()
	}
	assert.Equal(t, 5, m.Steps())
	assert.Equal(t, down, m.Grid().Count(MovingDown))
	assert.Equal(t, right, m.Grid().Count(MovingRight))

	snap := m.Parameters()
	p, ok := snap.Lookup("phase")
	require.True(t, ok)
	assert.Equal(t, "D", p.Value, "a logical step ends on DownTurn")

	sim.Reset(0)
	assert.Zero(t, m.Steps())
}

func TestModelSetFloatParameter(t *testing.T) {
	m := NewModel(Config{Scale: 10, Density: 0.2, Seed: 3})
	assert.False(t, m.SetFloatParameter("density", 1.2))
	assert.False(t, m.SetFloatParameter("unknown", 0.5))

	require.True(t, m.SetFloatParameter("density", 1))
	assert.Equal(t, 100, m.Grid().Occupied())

	p, ok := m.Parameters().Lookup("density")
	require.True(t, ok)
	assert.Equal(t, "1", p.Value)
}
