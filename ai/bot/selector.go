package bot

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/qubic/board"
	"github.com/domino14/qubic/config"
	"github.com/domino14/qubic/equity"
	"github.com/domino14/qubic/search"
)

var ErrNoLegalMove = errors.New("no legal move: the board is full")

type MoveKind uint8

const (
	SearchedMove MoveKind = iota
	WinningMove
	BlockingMove
)

func (k MoveKind) String() string {
	switch k {
	case WinningMove:
		return "win-shortcut"
	case BlockingMove:
		return "block-shortcut"
	}
	return "search"
}

// Move is a chosen cell and how much we like it. Score may be infinite.
type Move struct {
	Coord board.Coord
	Score float64
	Kind  MoveKind
}

func (m Move) String() string {
	return fmt.Sprintf("%v %v (%g)", m.Coord, m.Kind, m.Score)
}

// ImmediateWin finds a line where p has three marks and the fourth cell is
// empty. Lines are tried in table order.
func ImmediateWin(b board.Board, p board.Player) (board.Coord, bool) {
	own := b.Occupancy(p)
	opp := b.Occupancy(p.Opponent())
	for _, line := range board.WinningLines {
		if line&opp == 0 && bits.OnesCount64(line&own) == 3 {
			return board.CoordFromIndex(bits.TrailingZeros64(line &^ own)), true
		}
	}
	return board.NoCoord, false
}

// ImmediateBlock finds the cell p must take to stop the opponent from
// winning on their next move.
func ImmediateBlock(b board.Board, p board.Player) (board.Coord, bool) {
	return ImmediateWin(b, p.Opponent())
}

// Selector picks a move for Us.
type Selector struct {
	solver    *search.Solver
	depth     int
	shortcuts bool

	ttFraction float64
	ttMaxPower int
}

func NewSelector(solver *search.Solver, depth int, shortcuts bool) *Selector {
	return &Selector{solver: solver, depth: depth, shortcuts: shortcuts}
}

// NewSelectorFromConfig builds the evaluator, table and solver described
// by the configuration.
func NewSelectorFromConfig(cfg *config.Config, code BotCode) (*Selector, error) {
	depth := cfg.GetInt(config.ConfigSearchDepth)
	if depth < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", config.ConfigSearchDepth, depth)
	}
	e, err := EvaluatorFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	mode, err := search.ParseCacheMode(cfg.GetString(config.ConfigTTMode))
	if err != nil {
		return nil, err
	}
	s := &Selector{
		depth:      depth,
		shortcuts:  hasShortcuts(code),
		ttFraction: cfg.GetFloat64(config.ConfigTTFractionOfMem),
		ttMaxPower: cfg.GetInt(config.ConfigTTMaxSizePower),
	}
	tt := &search.TranspositionTable{}
	tt.Reset(s.ttFraction, s.ttMaxPower)
	s.solver = search.NewSolver(e, tt, mode)
	return s, nil
}

// EvaluatorFromConfig returns the ways-to-win evaluator, plus the strong
// cell adjustment when it has a nonzero weight.
func EvaluatorFromConfig(cfg *config.Config) (equity.Evaluator, error) {
	ws, err := equity.ParseLineWeights(cfg.GetString(config.ConfigEvalLineWeights))
	if err != nil {
		return nil, err
	}
	w, err := equity.NewWaysToWin(ws)
	if err != nil {
		return nil, err
	}
	strong := cfg.GetFloat64(config.ConfigEvalStrongCells)
	if strong == 0 {
		return w, nil
	}
	return equity.NewCombined(w, equity.NewStrongCells(strong)), nil
}

// SelectMove chooses a cell for Us. With shortcuts on, a win is taken and
// a loss is blocked without searching. Otherwise every empty cell is
// searched and the best one wins; on a tie the first in scan order does.
func (s *Selector) SelectMove(b board.Board) (Move, error) {
	if b.Full() {
		return Move{Coord: board.NoCoord}, ErrNoLegalMove
	}
	if s.shortcuts {
		if c, ok := ImmediateWin(b, board.Us); ok {
			return Move{Coord: c, Score: math.Inf(1), Kind: WinningMove}, nil
		}
		if c, ok := ImmediateBlock(b, board.Us); ok {
			return Move{Coord: c, Score: 0, Kind: BlockingMove}, nil
		}
	}

	tstart := time.Now()
	s.solver.ResetStats()
	moves := make([]Move, 0, board.NumCells-b.NumMarks())
	for c := range b.EmptyCoords() {
		child := b
		child.Set(board.Us, c)
		score := s.solver.Minimax(child, board.Them, s.depth, math.Inf(-1), math.Inf(1))
		moves = append(moves, Move{Coord: c, Score: score, Kind: SearchedMove})
	}
	best := lo.MaxBy(moves, func(a, b Move) bool {
		return a.Score > b.Score
	})

	ev := log.Debug().
		Int("depth", s.depth).
		Int("candidates", len(moves)).
		Uint64("nodes", s.solver.Nodes()).
		Uint64("cutoffs", s.solver.Cutoffs()).
		Stringer("best", best).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds())
	if tt := s.solver.TranspositionTable(); tt != nil {
		st := tt.Stats()
		ev = ev.Uint64("ttable-created", st.Created).
			Uint64("ttable-lookups", st.Lookups).
			Uint64("ttable-hits", st.Hits).
			Uint64("ttable-t2collisions", st.Collisions)
	}
	ev.Msg("search-finished")
	return best, nil
}

// Reset empties the transposition table for a new game.
func (s *Selector) Reset() {
	if tt := s.solver.TranspositionTable(); tt != nil {
		tt.Reset(s.ttFraction, s.ttMaxPower)
	}
}

func (s *Selector) Depth() int {
	return s.depth
}

func (s *Selector) Solver() *search.Solver {
	return s.solver
}
