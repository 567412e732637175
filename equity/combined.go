package equity

import (
	"github.com/samber/lo"

	"github.com/domino14/qubic/board"
)

// Combined adds up several evaluators. Decided positions short-circuit, so
// that +Inf and -Inf from different terms never meet.
type Combined struct {
	calculators []Evaluator
}

func NewCombined(calculators ...Evaluator) *Combined {
	return &Combined{calculators: calculators}
}

func (c *Combined) Evaluate(b board.Board, perspective board.Player) float64 {
	if v, done := terminal(b, perspective); done {
		return v
	}
	return lo.SumBy(c.calculators, func(e Evaluator) float64 {
		return e.Evaluate(b, perspective)
	})
}
