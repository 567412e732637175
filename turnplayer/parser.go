package turnplayer

import (
	"strings"

	"github.com/domino14/qubic/board"
)

// ParseMove reads a cell typed by a person. "1 2 3", "1,2,3" and
// "(1, 2, 3)" all mean x=1, y=2, z=3.
func ParseMove(s string) (board.Coord, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '(' || r == ')' || r == '\t'
	})
	return board.ParseCoord(fields)
}
