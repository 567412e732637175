package equity

import (
	"github.com/domino14/qubic/board"
)

// Evaluator scores a position from one player's point of view. A positive
// score favors perspective. Decided positions score +Inf, -Inf or 0, and
// swapping perspective negates the score.
type Evaluator interface {
	Evaluate(b board.Board, perspective board.Player) float64
}

// terminal returns the value of a decided position, and false if the game
// is still going.
func terminal(b board.Board, perspective board.Player) (float64, bool) {
	switch b.Outcome() {
	case board.Draw:
		return 0, true
	case board.Undecided:
		return 0, false
	case board.UsWon:
		if perspective == board.Us {
			return inf, true
		}
		return -inf, true
	default:
		if perspective == board.Them {
			return inf, true
		}
		return -inf, true
	}
}
