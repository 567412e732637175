package board

import (
	"fmt"
	"iter"
	"math/bits"
)

// Outcome is derived from the two occupancy sets; it is never stored.
type Outcome uint8

const (
	Undecided Outcome = iota
	Draw
	UsWon
	ThemWon
)

func (o Outcome) String() string {
	switch o {
	case Draw:
		return "draw"
	case UsWon:
		return "us-won"
	case ThemWon:
		return "them-won"
	}
	return "undecided"
}

// Decided is true for a draw or a win.
func (o Outcome) Decided() bool {
	return o != Undecided
}

// Winner returns the winning player, or NoPlayer.
func (o Outcome) Winner() Player {
	switch o {
	case UsWon:
		return Us
	case ThemWon:
		return Them
	}
	return NoPlayer
}

// A Board is the state of the cube as seen by one player. It is a value
// type; copying it copies the whole position. mine&theirs is always zero.
type Board struct {
	mine   uint64
	theirs uint64
}

// FromBits builds a board from two occupancy sets.
func FromBits(mine, theirs uint64) (Board, error) {
	if mine&theirs != 0 {
		return Board{}, fmt.Errorf("occupancy sets overlap: %#x", mine&theirs)
	}
	return Board{mine: mine, theirs: theirs}, nil
}

func (b Board) Mine() uint64   { return b.mine }
func (b Board) Theirs() uint64 { return b.theirs }

// Occupancy returns the set of cells held by p.
func (b Board) Occupancy(p Player) uint64 {
	switch p {
	case Us:
		return b.mine
	case Them:
		return b.theirs
	}
	return b.EmptyMask()
}

// Set places a mark for p, or clears the cell if p is NoPlayer. Placing a
// mark on an occupied cell panics.
func (b *Board) Set(p Player, c Coord) {
	b.SetIndex(p, c.Index())
}

func (b *Board) SetIndex(p Player, idx int) {
	if idx < 0 || idx >= NumCells {
		panic(fmt.Sprintf("cell index out of range: %d", idx))
	}
	m := uint64(1) << idx
	switch p {
	case Us, Them:
		if (b.mine|b.theirs)&m != 0 {
			panic(fmt.Sprintf("cell %v is already occupied", CoordFromIndex(idx)))
		}
		if p == Us {
			b.mine |= m
		} else {
			b.theirs |= m
		}
	default:
		b.mine &^= m
		b.theirs &^= m
	}
}

// Get returns the occupant of a cell.
func (b Board) Get(c Coord) Player {
	return b.GetIndex(c.Index())
}

func (b Board) GetIndex(idx int) Player {
	if idx < 0 || idx >= NumCells {
		panic(fmt.Sprintf("cell index out of range: %d", idx))
	}
	m := uint64(1) << idx
	if b.mine&m != 0 {
		return Us
	}
	if b.theirs&m != 0 {
		return Them
	}
	return NoPlayer
}

// EmptyMask returns the set of unoccupied cells.
func (b Board) EmptyMask() uint64 {
	return ^(b.mine | b.theirs)
}

func (b Board) NumMarks() int {
	return bits.OnesCount64(b.mine | b.theirs)
}

func (b Board) Full() bool {
	return b.EmptyMask() == 0
}

// Flip returns the same position seen by the other player.
func (b Board) Flip() Board {
	return Board{mine: b.theirs, theirs: b.mine}
}

// Outcome checks the winning lines before fullness, since the move that
// fills the board can also complete a line.
func (b Board) Outcome() Outcome {
	for _, w := range WinningLines {
		if b.mine&w == w {
			return UsWon
		}
		if b.theirs&w == w {
			return ThemWon
		}
	}
	if b.Full() {
		return Draw
	}
	return Undecided
}

// CompletedLine returns the first completed line and its owner.
func (b Board) CompletedLine() (uint64, Player) {
	for _, w := range WinningLines {
		if b.mine&w == w {
			return w, Us
		}
		if b.theirs&w == w {
			return w, Them
		}
	}
	return 0, NoPlayer
}

// Empties yields the index of every empty cell in ascending order, which is
// the x, y, z nested scan order. The sequence is computed from the empty
// set at the time of the call; the board may be modified while iterating.
func (b Board) Empties() iter.Seq[int] {
	return Cells(b.EmptyMask())
}

func (b Board) EmptyCoords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for idx := range b.Empties() {
			if !yield(CoordFromIndex(idx)) {
				return
			}
		}
	}
}

// Cells yields the index of every set bit of mask in ascending order.
func Cells(mask uint64) iter.Seq[int] {
	return func(yield func(int) bool) {
		for mask != 0 {
			idx := bits.TrailingZeros64(mask)
			mask &= mask - 1
			if !yield(idx) {
				return
			}
		}
	}
}

// Result is an outcome in terms of marks rather than sides.
type Result uint8

const (
	InProgress Result = iota
	DrawResult
	XWins
	OWins
)

func (r Result) String() string {
	switch r {
	case DrawResult:
		return "draw"
	case XWins:
		return "X wins"
	case OWins:
		return "O wins"
	}
	return "in progress"
}

// Result converts the outcome for a board owned by the player of mark us.
func (o Outcome) Result(us Mark) Result {
	switch o {
	case Draw:
		return DrawResult
	case UsWon:
		if us == X {
			return XWins
		}
		return OWins
	case ThemWon:
		if us == X {
			return OWins
		}
		return XWins
	}
	return InProgress
}
