package equity

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/domino14/qubic/board"
)

var inf = math.Inf(1)

// DefaultLineWeights is the value of an open line holding 0, 1, 2 or 3 of
// a player's marks.
var DefaultLineWeights = [4]float64{1, 4, 32, 512}

var ErrBadWeights = errors.New("line weights must be non-negative and strictly increasing")

// WaysToWin counts the lines each player can still complete. A line
// touched by both players is dead and counts for nobody. Every live line
// is worth weights[n] to its owner, n being how many marks it already
// has, and the score is our total minus theirs.
type WaysToWin struct {
	weights [4]float64
}

func NewWaysToWin(weights [4]float64) (*WaysToWin, error) {
	for i, w := range weights {
		if w < 0 || math.IsInf(w, 0) || math.IsNaN(w) || (i > 0 && w <= weights[i-1]) {
			return nil, fmt.Errorf("%w: %v", ErrBadWeights, weights)
		}
	}
	return &WaysToWin{weights: weights}, nil
}

// ParseLineWeights parses four comma-separated numbers, the format of the
// eval-line-weights setting.
func ParseLineWeights(s string) ([4]float64, error) {
	var ws [4]float64
	fields := strings.Split(s, ",")
	if len(fields) != len(ws) {
		return ws, fmt.Errorf("%w: need %d weights, got %q", ErrBadWeights, len(ws), s)
	}
	for i, f := range fields {
		w, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return ws, fmt.Errorf("%w: %v", ErrBadWeights, err)
		}
		ws[i] = w
	}
	return ws, nil
}

func (w *WaysToWin) Evaluate(b board.Board, perspective board.Player) float64 {
	if perspective != board.Us && perspective != board.Them {
		panic("evaluating from nobody's perspective")
	}
	own := b.Occupancy(perspective)
	opp := b.Occupancy(perspective.Opponent())

	var ownPotential, oppPotential float64
	for _, line := range board.WinningLines {
		o, t := line&own, line&opp
		if o == line {
			return inf
		}
		if t == line {
			return -inf
		}
		if t == 0 {
			ownPotential += w.weights[bits.OnesCount64(o)]
		}
		if o == 0 {
			oppPotential += w.weights[bits.OnesCount64(t)]
		}
	}
	if b.Full() {
		return 0
	}
	return ownPotential - oppPotential
}

func (w *WaysToWin) Weights() [4]float64 {
	return w.weights
}
