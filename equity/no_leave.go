package equity

import (
	"github.com/domino14/qubic/board"
)

// OutcomeOnly knows the value of decided positions and nothing else; every
// undecided position scores 0.
type OutcomeOnly struct{}

func NewOutcomeOnly() *OutcomeOnly {
	return &OutcomeOnly{}
}

func (o *OutcomeOnly) Evaluate(b board.Board, perspective board.Player) float64 {
	v, _ := terminal(b, perspective)
	return v
}
