package traffic

import "bimile/internal/core"

// Step applies one half-step of the BML rule and returns the new grid and the
// opposite phase. Every occupancy check reads the input grid, so the update is
// simultaneous and independent of iteration order. The input is not modified.
func Step(g Grid, p Phase) (Grid, Phase) {
	next, phase, _ := StepMoves(g, p)
	return next, phase
}

// StepMoves is Step that also reports how many cells moved.
func StepMoves(g Grid, p Phase) (Grid, Phase, int) {
	if !g.Valid() {
		return g, p.Next(), 0
	}
	n := g.Scale()
	cur := g.raw()
	out := core.NewByteGrid(n, n)
	nxt := out.Cells()
	mover := uint8(p.Mover())
	moved := 0

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			idx := row*n + col
			v := cur[idx]
			if v == uint8(Empty) {
				continue
			}
			if v != mover {
				nxt[idx] = v
				continue
			}
			tr, tc := row, col
			if p == DownTurn {
				tr = (row + 1) % n
			} else {
				tc = (col + 1) % n
			}
			target := tr*n + tc
			if cur[target] == uint8(Empty) {
				nxt[target] = v
				moved++
				continue
			}
			nxt[idx] = v
		}
	}
	return Grid{cells: out}, p.Next(), moved
}

// BlockedMask reports, in row-major order, which cars have an occupied cell
// directly ahead in their own direction of travel, regardless of phase.
func BlockedMask(g Grid) []bool {
	if !g.Valid() {
		return nil
	}
	n := g.Scale()
	cur := g.raw()
	mask := make([]bool, len(cur))
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			var ahead int
			switch Cell(cur[row*n+col]) {
			case MovingDown:
				ahead = ((row+1)%n)*n + col
			case MovingRight:
				ahead = row*n + (col+1)%n
			default:
				continue
			}
			mask[row*n+col] = cur[ahead] != uint8(Empty)
		}
	}
	return mask
}
