package equity

import (
	"errors"
	"math"
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/qubic/board"
)

// randomPositions plays random games and returns every undecided position
// reached along the way, up to n of them.
func randomPositions(seed uint64, n int) []board.Board {
	r := rand.New(rand.NewPCG(seed, 1))
	var out []board.Board
	for len(out) < n {
		var b board.Board
		turn := board.Us
		for len(out) < n {
			var empties []int
			for idx := range b.Empties() {
				empties = append(empties, idx)
			}
			b.SetIndex(turn, empties[r.IntN(len(empties))])
			if b.Outcome().Decided() {
				break
			}
			out = append(out, b)
			turn = turn.Opponent()
		}
	}
	return out
}

func defaultWaysToWin(t *testing.T) *WaysToWin {
	w, err := NewWaysToWin(DefaultLineWeights)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestEmptyBoardIsEven(t *testing.T) {
	is := is.New(t)
	w := defaultWaysToWin(t)
	is.Equal(w.Evaluate(board.Board{}, board.Us), 0.0)
	is.Equal(w.Evaluate(board.Board{}, board.Them), 0.0)
}

func TestTerminalScores(t *testing.T) {
	is := is.New(t)
	w := defaultWaysToWin(t)
	b := board.MustBoard(board.XThreeOnZ, board.X)
	b.Set(board.Us, board.Coord{X: 0, Y: 0, Z: 3})
	is.Equal(w.Evaluate(b, board.Us), math.Inf(1))
	is.Equal(w.Evaluate(b, board.Them), math.Inf(-1))

	draw := board.MustBoard(board.FullDraw, board.X)
	is.Equal(w.Evaluate(draw, board.Us), 0.0)
	is.Equal(w.Evaluate(draw, board.Them), 0.0)
}

func TestAntisymmetry(t *testing.T) {
	is := is.New(t)
	w := defaultWaysToWin(t)
	for _, b := range randomPositions(42, 500) {
		us := w.Evaluate(b, board.Us)
		them := w.Evaluate(b, board.Them)
		is.True(!math.IsInf(us, 0))
		is.Equal(us, -them)
		is.Equal(w.Evaluate(b.Flip(), board.Us), them)
	}
}

func TestMonotoneInOwnAndOpponentMarks(t *testing.T) {
	is := is.New(t)
	w := defaultWaysToWin(t)
	for _, b := range randomPositions(7, 200) {
		before := w.Evaluate(b, board.Us)
		for idx := range b.Empties() {
			mine := b
			mine.SetIndex(board.Us, idx)
			is.True(w.Evaluate(mine, board.Us) >= before)

			theirs := b
			theirs.SetIndex(board.Them, idx)
			is.True(w.Evaluate(theirs, board.Us) <= before)
		}
	}
}

func TestThreatsFavorTheirOwner(t *testing.T) {
	is := is.New(t)
	w := defaultWaysToWin(t)
	b := board.MustBoard(board.XThreeOnZ, board.X)
	is.True(w.Evaluate(b, board.Us) > 0)

	b = board.MustBoard(board.OThreeOnZ, board.X)
	is.True(w.Evaluate(b, board.Us) < 0)
}

func TestLineWeights(t *testing.T) {
	is := is.New(t)
	ws, err := ParseLineWeights("1, 2,3,10")
	is.NoErr(err)
	is.Equal(ws, [4]float64{1, 2, 3, 10})
	w, err := NewWaysToWin(ws)
	is.NoErr(err)
	is.Equal(w.Weights(), ws)

	_, err = ParseLineWeights("1,2,3")
	is.True(errors.Is(err, ErrBadWeights))
	_, err = ParseLineWeights("1,2,x,4")
	is.True(errors.Is(err, ErrBadWeights))
	_, err = NewWaysToWin([4]float64{1, 1, 2, 3})
	is.True(errors.Is(err, ErrBadWeights))
	_, err = NewWaysToWin([4]float64{-1, 1, 2, 3})
	is.True(errors.Is(err, ErrBadWeights))
}

func TestStrongCells(t *testing.T) {
	is := is.New(t)
	is.Equal(bits.OnesCount64(strongCells), 16)
	for _, c := range []board.Coord{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 3}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 1, Z: 2}} {
		is.True(strongCells&(1<<c.Index()) != 0)
	}
	is.True(strongCells&(1<<board.Coord{X: 1, Y: 0, Z: 0}.Index()) == 0)

	s := NewStrongCells(2)
	var b board.Board
	b.Set(board.Us, board.Coord{X: 0, Y: 0, Z: 0})
	b.Set(board.Them, board.Coord{X: 1, Y: 0, Z: 0})
	is.Equal(s.Evaluate(b, board.Us), 2.0)
	is.Equal(s.Evaluate(b, board.Them), -2.0)
}

func TestCombined(t *testing.T) {
	is := is.New(t)
	w := defaultWaysToWin(t)
	s := NewStrongCells(3)
	c := NewCombined(w, s)
	for _, b := range randomPositions(3, 50) {
		is.Equal(c.Evaluate(b, board.Us), w.Evaluate(b, board.Us)+s.Evaluate(b, board.Us))
		is.Equal(c.Evaluate(b, board.Us), -c.Evaluate(b, board.Them))
	}
	won := board.MustBoard(board.XThreeOnZ, board.X)
	won.Set(board.Us, board.Coord{X: 0, Y: 0, Z: 3})
	is.Equal(c.Evaluate(won, board.Us), math.Inf(1))
}

func TestOutcomeOnly(t *testing.T) {
	is := is.New(t)
	o := NewOutcomeOnly()
	is.Equal(o.Evaluate(board.MustBoard(board.XThreeOnZ, board.X), board.Us), 0.0)
	won := board.MustBoard(board.OThreeOnZ, board.X)
	won.Set(board.Them, board.Coord{X: 3, Y: 3, Z: 3})
	is.Equal(o.Evaluate(won, board.Us), math.Inf(-1))
	is.Equal(o.Evaluate(won, board.Them), math.Inf(1))
}
