package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/qubic/board"
)

const bignum = 1<<63 - 2

// Zobrist generates a zobrist hash for a cube position. Whose turn it is
// does not need a key: it follows from the number of marks once the first
// mover is known, and an engine never changes sides.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	ourTable   [board.NumCells]uint64
	theirTable [board.NumCells]uint64
}

func (z *Zobrist) Initialize() {
	for i := 0; i < board.NumCells; i++ {
		z.ourTable[i] = frand.Uint64n(bignum) + 1
		z.theirTable[i] = frand.Uint64n(bignum) + 1
	}
}

func (z *Zobrist) Hash(b board.Board) uint64 {
	key := uint64(0)
	for idx := range board.Cells(b.Mine()) {
		key ^= z.ourTable[idx]
	}
	for idx := range board.Cells(b.Theirs()) {
		key ^= z.theirTable[idx]
	}
	return key
}

// Toggle adds or removes a mark from a key. Calling it twice with the same
// arguments gives back the original key.
func (z *Zobrist) Toggle(key uint64, p board.Player, idx int) uint64 {
	switch p {
	case board.Us:
		return key ^ z.ourTable[idx]
	case board.Them:
		return key ^ z.theirTable[idx]
	}
	return key
}
