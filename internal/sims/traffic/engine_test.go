package traffic

import (
	"testing"

	pcore "bimile/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) Grid {
	t.Helper()
	g, err := ParseGrid(text)
	require.NoError(t, err)
	return g
}

func randomGrid(t *testing.T, seed int64, scale int, density float64) Grid {
	t.Helper()
	g, err := NewGrid(scale, density, pcore.NewRNG(seed))
	require.NoError(t, err)
	return g
}

func TestStepEmptyGridIsFixedPoint(t *testing.T) {
	g := randomGrid(t, 1, 4, 0)
	assert.Equal(t, 16, g.Count(Empty))

	cur, phase := g, DownTurn
	for i := 0; i < 7; i++ {
		cur, phase = Step(cur, phase)
		require.True(t, cur.Equal(g), "empty grid changed after %d steps", i+1)
	}
}

func TestStepFullDownGridStaysPut(t *testing.T) {
	g := mustParse(t, "D D\nD D")

	next, phase := Step(g, DownTurn)
	assert.True(t, next.Equal(g), "fully occupied grid must not change")
	assert.Equal(t, RightTurn, phase)
}

func TestStepSingleRightMover(t *testing.T) {
	g := mustParse(t, `
R . .
. . .
. . .`)

	next, phase := Step(g, RightTurn)
	assert.Equal(t, DownTurn, phase)
	assert.Equal(t, MovingRight, next.Get(0, 1))
	assert.Equal(t, Empty, next.Get(0, 0))
	assert.Equal(t, 1, next.Count(MovingRight))
}

func TestStepOnlyMovesActiveSpecies(t *testing.T) {
	g := mustParse(t, `
R . .
D . .
. . .`)

	next, _ := Step(g, DownTurn)
	assert.Equal(t, "R . .\n. . .\nD . .\n", next.String())

	next, _ = Step(g, RightTurn)
	assert.Equal(t, ". R .\nD . .\n. . .\n", next.String())
}

func TestStepWrapsAroundEdges(t *testing.T) {
	g := mustParse(t, `
. . .
. . R
D . .`)

	next, _ := Step(g, DownTurn)
	assert.Equal(t, MovingDown, next.Get(0, 0))
	assert.Equal(t, Empty, next.Get(2, 0))

	next, _ = Step(g, RightTurn)
	assert.Equal(t, MovingRight, next.Get(1, 0))
	assert.Equal(t, MovingRight, next.Get(-2, 3), "Get must wrap both coordinates")
}

func TestStepBlockedByCellVacatedSameHalfStep(t *testing.T) {
	// The lower car leaves (1,0) during this half-step, but the upper car sees
	// the frozen grid and must stay.
	g := mustParse(t, `
D . .
D . .
. . .`)

	next, _ := Step(g, DownTurn)
	assert.Equal(t, "D . .\n. . .\nD . .\n", next.String())
}

func TestStepConservesSpeciesCounts(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		g := randomGrid(t, seed, 17, 0.4)
		down, right := g.Count(MovingDown), g.Count(MovingRight)
		phase := DownTurn
		for i := 0; i < 40; i++ {
			g, phase = Step(g, phase)
			require.Equal(t, down, g.Count(MovingDown), "seed %d step %d", seed, i)
			require.Equal(t, right, g.Count(MovingRight), "seed %d step %d", seed, i)
		}
	}
}

func TestStepPhaseAlternation(t *testing.T) {
	g := randomGrid(t, 3, 5, 0.5)
	phase := DownTurn
	for n := 1; n <= 10; n++ {
		g, phase = Step(g, phase)
		want := DownTurn
		if n%2 == 1 {
			want = RightTurn
		}
		require.Equal(t, want, phase, "after %d steps", n)
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	g := randomGrid(t, 9, 8, 0.5)
	before := g.Cells()
	Step(g, DownTurn)
	Step(g, RightTurn)
	assert.Equal(t, before, g.Cells())
}

// Every occupied target in the next grid must be explained by exactly one
// source: the mover stayed because it was blocked, or its predecessor moved in.
func TestStepNoDoubleOccupancy(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := randomGrid(t, seed, 11, 0.45)
		for _, phase := range []Phase{DownTurn, RightTurn} {
			next, _ := Step(g, phase)
			mover := phase.Mover()
			dr, dc := 1, 0
			if phase == RightTurn {
				dr, dc = 0, 1
			}
			n := g.Scale()
			for r := 0; r < n; r++ {
				for c := 0; c < n; c++ {
					stayed := g.Get(r, c) == mover && g.Get(r+dr, c+dc) != Empty
					arrived := g.Get(r-dr, c-dc) == mover && g.Get(r, c) == Empty
					require.False(t, stayed && arrived, "cell (%d,%d) claimed twice", r, c)
					require.Equal(t, stayed || arrived, next.Get(r, c) == mover,
						"seed %d phase %v cell (%d,%d)", seed, phase, r, c)
				}
			}
		}
	}
}

// reverseFrozenStep evaluates the rule in reverse iteration order against the
// frozen grid; it must agree with Step.
func reverseFrozenStep(g Grid, p Phase) Grid {
	n := g.Scale()
	out := make([]Cell, n*n)
	for r := n - 1; r >= 0; r-- {
		for c := n - 1; c >= 0; c-- {
			v := g.Get(r, c)
			if v == Empty {
				continue
			}
			tr, tc := r, c
			if p == DownTurn {
				tr = (r + 1) % n
			} else {
				tc = (c + 1) % n
			}
			if v == p.Mover() && g.Get(tr, tc) == Empty {
				out[tr*n+tc] = v
				continue
			}
			out[r*n+c] = v
		}
	}
	res, _ := GridFromCells(n, out)
	return res
}

// naiveSequentialStep mutates a single buffer cell by cell, so a car can see a
// cell vacated earlier in the same sweep or move twice.
func naiveSequentialStep(g Grid, p Phase) Grid {
	n := g.Scale()
	cells := g.Cells()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			idx := r*n + c
			if cells[idx] != p.Mover() {
				continue
			}
			tr, tc := r, c
			if p == DownTurn {
				tr = (r + 1) % n
			} else {
				tc = (c + 1) % n
			}
			target := tr*n + tc
			if cells[target] == Empty {
				cells[target] = cells[idx]
				cells[idx] = Empty
			}
		}
	}
	res, _ := GridFromCells(n, cells)
	return res
}

func TestStepIsOrderIndependent(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := randomGrid(t, seed, 13, 0.35)
		for _, phase := range []Phase{DownTurn, RightTurn} {
			next, _ := Step(g, phase)
			require.True(t, next.Equal(reverseFrozenStep(g, phase)), "seed %d phase %v", seed, phase)
		}
	}
}

func TestNaiveSequentialUpdateDiverges(t *testing.T) {
	g := mustParse(t, `
. . .
D . .
. . .`)

	frozen, _ := Step(g, DownTurn)
	naive := naiveSequentialStep(g, DownTurn)
	assert.Equal(t, MovingDown, frozen.Get(2, 0))
	assert.Equal(t, MovingDown, naive.Get(0, 0), "naive update lets the car move twice")
	assert.False(t, frozen.Equal(naive))

	diverged := 0
	for seed := int64(0); seed < 20; seed++ {
		rg := randomGrid(t, seed, 9, 0.3)
		for _, phase := range []Phase{DownTurn, RightTurn} {
			next, _ := Step(rg, phase)
			if !next.Equal(naiveSequentialStep(rg, phase)) {
				diverged++
			}
		}
	}
	assert.Positive(t, diverged, "expected the naive update to diverge on random grids")
}

func TestStepMovesCount(t *testing.T) {
	g := mustParse(t, `
D R .
D . .
. . .`)

	_, _, moved := StepMoves(g, DownTurn)
	assert.Equal(t, 1, moved)
	_, _, moved = StepMoves(g, RightTurn)
	assert.Equal(t, 1, moved)
}

func TestStepSingleCellGrid(t *testing.T) {
	g := mustParse(t, "D")
	next, _, moved := StepMoves(g, DownTurn)
	assert.True(t, next.Equal(g))
	assert.Zero(t, moved)
}

func TestBlockedMask(t *testing.T) {
	g := mustParse(t, `
D R .
D . .
. R R`)

	mask := BlockedMask(g)
	require.Len(t, mask, 9)
	want := []bool{
		true, false, false,
		false, false, false,
		false, true, false,
	}
	assert.Equal(t, want, mask)
	assert.Nil(t, BlockedMask(Grid{}))
}
