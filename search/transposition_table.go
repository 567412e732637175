package search

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/qubic/board"
	"github.com/domino14/qubic/zobrist"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const entrySize = 32

const depthMask = (1 << 6) - 1

// MinSizePowerOf2 is the smallest table Reset will build.
const MinSizePowerOf2 = 10

// 32 bytes (entrySize)
type TableEntry struct {
	// The whole position is stored, so a hit is always for the same board
	// and never for another board that happens to share a bucket.
	mine         uint64
	theirs       uint64
	score        float64
	flagAndDepth uint8
}

func (t TableEntry) flag() uint8 {
	return t.flagAndDepth >> 6
}

func (t TableEntry) depth() uint8 {
	return t.flagAndDepth & depthMask
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag() != 0
}

func (t TableEntry) Score() float64 {
	return t.score
}

// TranspositionTable caches search results keyed by board. It belongs to a
// single solver and is not safe for concurrent use; the counters are
// atomic only so that they can be read while a search runs.
type TranspositionTable struct {
	table        []TableEntry
	created      atomic.Uint64
	lookups      atomic.Uint64
	hits         atomic.Uint64
	sizePowerOf2 int
	sizeMask     uint64
	// A collision happens when two different boards land in the same
	// bucket. The newer one overwrites the older.
	t2collisions atomic.Uint64

	zobrist *zobrist.Zobrist
}

// TTStats is a snapshot of the table counters.
type TTStats struct {
	Created    uint64
	Lookups    uint64
	Hits       uint64
	Collisions uint64
}

func (t *TranspositionTable) lookup(b board.Board, zval uint64) (TableEntry, bool) {
	t.lookups.Add(1)
	idx := zval & t.sizeMask
	e := t.table[idx]
	if !e.valid() {
		return TableEntry{}, false
	}
	if e.mine != b.Mine() || e.theirs != b.Theirs() {
		// There is another unrelated node at this position.
		t.t2collisions.Add(1)
		return TableEntry{}, false
	}
	t.hits.Add(1)
	return e, true
}

func (t *TranspositionTable) store(b board.Board, zval uint64, tentry TableEntry) {
	idx := zval & t.sizeMask
	tentry.mine = b.Mine()
	tentry.theirs = b.Theirs()
	// just overwrite whatever is there for now.
	t.table[idx] = tentry
	t.created.Add(1)
}

// Reset sizes the table to about fractionOfMemory of the system memory,
// rounded down to a power of two and clamped to
// [MinSizePowerOf2, maxSizePowerOf2]. An existing table of the right size
// is cleared and reused.
func (t *TranspositionTable) Reset(fractionOfMemory float64, maxSizePowerOf2 int) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	t.sizePowerOf2 = MinSizePowerOf2
	if desiredNElems >= 1 {
		// find biggest power of 2 lower than desired.
		t.sizePowerOf2 = max(int(math.Log2(desiredNElems)), MinSizePowerOf2)
	}
	if t.sizePowerOf2 > maxSizePowerOf2 {
		t.sizePowerOf2 = max(maxSizePowerOf2, MinSizePowerOf2)
	}

	numElems := 1 << t.sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}

	if t.zobrist == nil {
		log.Debug().Msg("creating zobrist hash")
		t.zobrist = &zobrist.Zobrist{}
		t.zobrist.Initialize()
	}

	log.Debug().Int("num-elems", numElems).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

func (t *TranspositionTable) Zobrist() *zobrist.Zobrist {
	return t.zobrist
}

func (t *TranspositionTable) Size() int {
	return len(t.table)
}

func (t *TranspositionTable) Stats() TTStats {
	return TTStats{
		Created:    t.created.Load(),
		Lookups:    t.lookups.Load(),
		Hits:       t.hits.Load(),
		Collisions: t.t2collisions.Load(),
	}
}
