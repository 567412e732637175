package turnplayer

import (
	"errors"

	"github.com/domino14/qubic/board"
)

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrGameOver     = errors.New("game is over")
	ErrClockExpired = errors.New("clock expired")
)

// Mover plays one side of a game. It keeps its own copy of the board and
// learns about the opponent's moves only through NextMove.
type Mover interface {
	Name() string
	// NewGame forgets the current game.
	NewGame()
	// NextMove is told the opponent's last move, or board.NoCoord when it
	// is to make the first move of the game, and answers with its own.
	NextMove(last board.Coord) (board.Coord, error)
}
