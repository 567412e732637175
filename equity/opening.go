package equity

import (
	"math/bits"

	"github.com/domino14/qubic/board"
)

// strongCells holds the 8 corners and the 8 central cells, each of which
// lies on 7 lines. Every other cell lies on 4.
var strongCells uint64

func init() {
	var counts [board.NumCells]int
	for _, w := range board.WinningLines {
		for idx := range board.Cells(w) {
			counts[idx]++
		}
	}
	for idx, n := range counts {
		if n == 7 {
			strongCells |= 1 << idx
		}
	}
}

// StrongCells is a placement adjustment that rewards owning the cells with
// the most lines through them. It matters mostly in the opening, before
// lines have formed.
type StrongCells struct {
	weight float64
}

func NewStrongCells(weight float64) *StrongCells {
	return &StrongCells{weight: weight}
}

func (s *StrongCells) Evaluate(b board.Board, perspective board.Player) float64 {
	if v, done := terminal(b, perspective); done {
		return v
	}
	own := bits.OnesCount64(b.Occupancy(perspective) & strongCells)
	opp := bits.OnesCount64(b.Occupancy(perspective.Opponent()) & strongCells)
	return s.weight * float64(own-opp)
}
