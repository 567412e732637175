package board

// This file contains some sample boards, used solely for testing. They are
// in the ToDisplayText layout, drawn from X's point of view.

// SampleBoard is a plaintext board.
type SampleBoard string

const (
	// XThreeOnZ has X on (0,0,0), (0,0,1) and (0,0,2); (0,0,3) completes
	// the line.
	XThreeOnZ SampleBoard = `
....    ....    ....    ....
..O.    ....    ....    ....
....    .O..    ....    ....
X...    X...    X...    ....
z=0     z=1     z=2     z=3
`
	// OThreeOnZ has O on (3,3,0), (3,3,1) and (3,3,2), and no X line
	// with three marks. (3,3,3) blocks.
	OThreeOnZ SampleBoard = `
...O    ...O    ...O    ....
....    ....    ....    ....
....    ....    ....    ....
XX..    ....    ....    ....
z=0     z=1     z=2     z=3
`
	// BothThree has three in a line for both players. X to move should
	// win at (0,0,3) rather than block at (3,3,3).
	BothThree SampleBoard = `
...O    ...O    ...O    ....
....    ....    ....    ....
....    ....    ....    ....
X...    X...    X...    ....
z=0     z=1     z=2     z=3
`
	// FullDraw fills all 64 cells without completing a line.
	FullDraw SampleBoard = `
OXXX    XXOO    XOOX    OXOX
XXOX    OOXX    OOXX    XOOO
OXOO    XOXO    XOOO    XOXX
OOXX    XOOX    XXOO    OOXX
z=0     z=1     z=2     z=3
`
)

// MustBoard parses a sample board from the point of view of us. It panics
// on a malformed sample.
func MustBoard(s SampleBoard, us Mark) Board {
	b, err := FromPlaintext(string(s), us)
	if err != nil {
		panic(err)
	}
	return b
}
