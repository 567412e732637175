package turnplayer

import (
	"fmt"
	"io"

	"github.com/domino14/qubic/board"
)

const MovePrompt = "Enter move (x y z): "

// LineReader is the part of a readline instance a Human needs.
type LineReader interface {
	SetPrompt(string)
	Readline() (string, error)
}

// Human asks a person for moves. Malformed, off-board and occupied cells
// are refused and the person is asked again.
type Human struct {
	name  string
	in    LineReader
	out   io.Writer
	board board.Board
}

func NewHuman(name string, in LineReader, out io.Writer) *Human {
	return &Human{name: name, in: in, out: out}
}

func (h *Human) Name() string {
	return h.name
}

func (h *Human) NewGame() {
	h.board = board.Board{}
}

func (h *Human) NextMove(last board.Coord) (board.Coord, error) {
	if last != board.NoCoord {
		if !last.Valid() || h.board.Get(last) != board.NoPlayer {
			return board.NoCoord, fmt.Errorf("%w: opponent played %v", ErrIllegalMove, last)
		}
		h.board.Set(board.Them, last)
	}
	if h.board.Outcome().Decided() {
		return board.NoCoord, ErrGameOver
	}
	for {
		h.in.SetPrompt(MovePrompt)
		line, err := h.in.Readline()
		if err != nil {
			return board.NoCoord, err
		}
		c, err := ParseMove(line)
		if err != nil {
			fmt.Fprintln(h.out, err)
			continue
		}
		if h.board.Get(c) != board.NoPlayer {
			fmt.Fprintf(h.out, "%v is taken\n", c)
			continue
		}
		h.board.Set(board.Us, c)
		return c, nil
	}
}

// Board is the position as this player sees it.
func (h *Human) Board() board.Board {
	return h.board
}
