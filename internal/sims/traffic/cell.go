package traffic

// Cell enumerates the state of a single grid site.
type Cell uint8

const (
	Empty Cell = iota
	MovingDown
	MovingRight
)

// Valid reports whether c is one of the three cell states.
func (c Cell) Valid() bool { return c <= MovingRight }

// Rune returns the single-character text form used by String and ParseGrid.
func (c Cell) Rune() rune {
	switch c {
	case MovingDown:
		return 'D'
	case MovingRight:
		return 'R'
	default:
		return '.'
	}
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case MovingDown:
		return "down"
	case MovingRight:
		return "right"
	default:
		return "invalid"
	}
}

func cellFromRune(r rune) (Cell, bool) {
	switch r {
	case '.':
		return Empty, true
	case 'D', 'd':
		return MovingDown, true
	case 'R', 'r':
		return MovingRight, true
	}
	return Empty, false
}

// Phase selects which species may move on the next half-step.
type Phase uint8

const (
	DownTurn Phase = iota
	RightTurn
)

// Next returns the opposite phase.
func (p Phase) Next() Phase {
	if p == DownTurn {
		return RightTurn
	}
	return DownTurn
}

// Mover returns the species eligible to move during p.
func (p Phase) Mover() Cell {
	if p == DownTurn {
		return MovingDown
	}
	return MovingRight
}

func (p Phase) String() string {
	if p == DownTurn {
		return "D"
	}
	return "R"
}
