package search

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/domino14/qubic/board"
	"github.com/domino14/qubic/equity"
)

// CacheMode decides what the transposition table remembers.
type CacheMode int

const (
	// CacheBounded stores whether a value is exact or only a lower or an
	// upper bound, along with the depth it was searched to.
	CacheBounded CacheMode = iota
	// CacheLegacy stores every returned value as if it were exact, pruned
	// or not, and trusts it at any depth.
	CacheLegacy
)

var ErrUnknownCacheMode = errors.New("unknown cache mode")

func (m CacheMode) String() string {
	if m == CacheLegacy {
		return "legacy"
	}
	return "bounded"
}

func ParseCacheMode(s string) (CacheMode, error) {
	switch s {
	case "bounded":
		return CacheBounded, nil
	case "legacy":
		return CacheLegacy, nil
	}
	return CacheBounded, fmt.Errorf("%w: %q", ErrUnknownCacheMode, s)
}

var inf = math.Inf(1)

// Solver is a depth-limited minimax search with alpha-beta pruning. Us is
// the maximizing player and every leaf is scored from our point of view.
type Solver struct {
	evaluator equity.Evaluator
	ttable    *TranspositionTable
	cacheMode CacheMode

	nodes   atomic.Uint64
	cutoffs atomic.Uint64
}

// NewSolver creates a solver. ttable may be nil to search without a
// transposition table; otherwise it must have been Reset.
func NewSolver(e equity.Evaluator, ttable *TranspositionTable, mode CacheMode) *Solver {
	return &Solver{evaluator: e, ttable: ttable, cacheMode: mode}
}

// Minimax returns the value of b with turn to move, searching depth-1
// more plies. A depth of 1, or a decided board, is scored by the evaluator
// directly.
func (s *Solver) Minimax(b board.Board, turn board.Player, depth int, alpha, beta float64) float64 {
	var key uint64
	if s.ttable != nil {
		key = s.ttable.Zobrist().Hash(b)
	}
	return s.minimax(b, key, turn, depth, alpha, beta)
}

func (s *Solver) minimax(b board.Board, key uint64, turn board.Player, depth int, α, β float64) float64 {
	s.nodes.Add(1)
	alphaOrig, betaOrig := α, β

	if s.ttable != nil {
		if e, ok := s.ttable.lookup(b, key); ok {
			if s.cacheMode == CacheLegacy {
				return e.score
			}
			if int(e.depth()) >= depth {
				switch e.flag() {
				case TTExact:
					return e.score
				case TTLower:
					α = max(α, e.score)
				case TTUpper:
					β = min(β, e.score)
				}
				if α >= β {
					return e.score
				}
			}
		}
	}

	if depth <= 1 {
		v := s.evaluator.Evaluate(b, board.Us)
		s.store(b, key, v, TTExact, depth)
		return v
	}
	if b.Outcome().Decided() {
		v := s.evaluator.Evaluate(b, board.Us)
		// A finished game has the same value at every depth.
		s.store(b, key, v, TTExact, depthMask)
		return v
	}

	var best float64
	if turn == board.Us {
		best = -inf
	} else {
		best = inf
	}
	for idx := range b.Empties() {
		child := b
		child.SetIndex(turn, idx)
		childKey := key
		if s.ttable != nil {
			childKey = s.ttable.Zobrist().Toggle(key, turn, idx)
		}
		v := s.minimax(child, childKey, turn.Opponent(), depth-1, α, β)
		if turn == board.Us {
			best = max(best, v)
			α = max(α, best)
		} else {
			best = min(best, v)
			β = min(β, best)
		}
		if β <= α {
			s.cutoffs.Add(1)
			break
		}
	}

	var flag uint8
	if best <= alphaOrig {
		flag = TTUpper
	} else if best >= betaOrig {
		flag = TTLower
	} else {
		flag = TTExact
	}
	s.store(b, key, best, flag, depth)
	return best
}

func (s *Solver) store(b board.Board, key uint64, score float64, flag uint8, depth int) {
	if s.ttable == nil {
		return
	}
	if s.cacheMode == CacheLegacy {
		flag = TTExact
	}
	d := uint8(min(depth, depthMask))
	s.ttable.store(b, key, TableEntry{score: score, flagAndDepth: flag<<6 + d})
}

// Nodes is the number of positions visited since the last ResetStats.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

func (s *Solver) Cutoffs() uint64 {
	return s.cutoffs.Load()
}

func (s *Solver) ResetStats() {
	s.nodes.Store(0)
	s.cutoffs.Store(0)
}

func (s *Solver) TranspositionTable() *TranspositionTable {
	return s.ttable
}

func (s *Solver) CacheMode() CacheMode {
	return s.cacheMode
}
