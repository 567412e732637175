package board

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

var (
	ColorSupport = os.Getenv("QUBIC_DISABLE_COLOR") != "on"
)

const (
	// Dim is the length of one edge of the cube.
	Dim = 4
	// NumCells is the number of cells in the cube.
	NumCells = Dim * Dim * Dim
)

var ErrBadCoord = errors.New("bad coordinate")

// A Coord identifies one cell of the cube. Each component is in [0, 3].
type Coord struct {
	X, Y, Z int
}

// NoCoord is passed to a mover that is asked to make the first move of
// a game.
var NoCoord = Coord{-1, -1, -1}

func (c Coord) Valid() bool {
	return c.X >= 0 && c.X < Dim && c.Y >= 0 && c.Y < Dim && c.Z >= 0 && c.Z < Dim
}

// Index returns the bit index of the cell: x*16 + y*4 + z. It panics on an
// invalid coordinate.
func (c Coord) Index() int {
	if !c.Valid() {
		panic(fmt.Sprintf("coordinate out of range: %v", c))
	}
	return c.X*Dim*Dim + c.Y*Dim + c.Z
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// CoordFromIndex is the inverse of Coord.Index.
func CoordFromIndex(idx int) Coord {
	if idx < 0 || idx >= NumCells {
		panic(fmt.Sprintf("cell index out of range: %d", idx))
	}
	return Coord{X: idx / (Dim * Dim), Y: (idx / Dim) % Dim, Z: idx % Dim}
}

// ParseCoord parses three integer fields, such as the ones a user types
// in response to "Enter move (x y z)".
func ParseCoord(fields []string) (Coord, error) {
	if len(fields) != 3 {
		return NoCoord, fmt.Errorf("%w: need 3 numbers, got %d", ErrBadCoord, len(fields))
	}
	var vals [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return NoCoord, fmt.Errorf("%w: %q is not a number", ErrBadCoord, f)
		}
		vals[i] = v
	}
	c := Coord{vals[0], vals[1], vals[2]}
	if !c.Valid() {
		return NoCoord, fmt.Errorf("%w: %v is off the board", ErrBadCoord, c)
	}
	return c, nil
}

// Player is relative to whoever owns the board: Us is the owner.
type Player uint8

const (
	NoPlayer Player = iota
	Us
	Them
)

func (p Player) Opponent() Player {
	switch p {
	case Us:
		return Them
	case Them:
		return Us
	}
	return NoPlayer
}

func (p Player) String() string {
	switch p {
	case Us:
		return "us"
	case Them:
		return "them"
	}
	return "none"
}

// Mark is the absolute symbol of a player. X always moves first.
type Mark uint8

const (
	X Mark = iota
	O
)

func (m Mark) Other() Mark {
	if m == X {
		return O
	}
	return X
}

func (m Mark) String() string {
	if m == X {
		return "X"
	}
	return "O"
}
