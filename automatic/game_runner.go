// Package automatic plays computer-vs-computer matches and gathers
// statistics about them.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/qubic/board"
	"github.com/domino14/qubic/config"
	"github.com/domino14/qubic/turnplayer"
)

// EndReason tells how a game stopped.
type EndReason uint8

const (
	EndedOnBoard EndReason = iota
	EndedIllegalMove
	EndedClockExpired
)

func (r EndReason) String() string {
	switch r {
	case EndedIllegalMove:
		return "illegal-move"
	case EndedClockExpired:
		return "clock-expired"
	}
	return "board"
}

// GameRecord is one finished game. The first player has X.
type GameRecord struct {
	ID       int
	Players  [2]string
	Moves    []board.Coord
	Result   board.Result
	Reason   EndReason
	TimeUsed [2]time.Duration
}

// Winner returns the name of the winner, or "" for a draw or an unfinished
// game.
func (g *GameRecord) Winner() string {
	switch g.Result {
	case board.XWins:
		return g.Players[0]
	case board.OWins:
		return g.Players[1]
	}
	return ""
}

// GameRunner referees games between two movers. It keeps its own board,
// from X's point of view, and only ever passes coordinates to the movers.
type GameRunner struct {
	players      [2]*turnplayer.Clocked
	enforceClock bool
	board        board.Board
	logchan      chan string
}

// NewGameRunner wraps both movers in a clock of the configured allowance.
// logchan may be nil.
func NewGameRunner(logchan chan string, cfg *config.Config, first, second turnplayer.Mover) *GameRunner {
	allowance := cfg.GetDuration(config.ConfigClockAllowance)
	if allowance <= 0 {
		allowance = turnplayer.DefaultAllowance
	}
	return &GameRunner{
		players: [2]*turnplayer.Clocked{
			turnplayer.NewClocked(first, allowance),
			turnplayer.NewClocked(second, allowance),
		},
		enforceClock: cfg.GetBool(config.ConfigClockEnforce),
		logchan:      logchan,
	}
}

// Swap exchanges the players, so that the other one has X next game.
func (r *GameRunner) Swap() {
	r.players[0], r.players[1] = r.players[1], r.players[0]
}

func (r *GameRunner) Board() board.Board {
	return r.board
}

// Player returns the mover with X (0) or O (1).
func (r *GameRunner) Player(idx int) *turnplayer.Clocked {
	return r.players[idx]
}

// PlayGame plays a whole game. A mover that plays an illegal cell, or
// runs out of time when the clock is enforced, forfeits. An error from a
// mover ends the game with that error.
func (r *GameRunner) PlayGame(ctx context.Context, id int) (*GameRecord, error) {
	r.board = board.Board{}
	for _, p := range r.players {
		p.NewGame()
	}
	rec := &GameRecord{
		ID:      id,
		Players: [2]string{r.players[0].Name(), r.players[1].Name()},
		Moves:   make([]board.Coord, 0, board.NumCells),
	}
	defer func() {
		rec.TimeUsed = [2]time.Duration{r.players[0].TimeUsed(), r.players[1].TimeUsed()}
	}()

	last := board.NoCoord
	for turn := 0; ; turn++ {
		if err := ctx.Err(); err != nil {
			return rec, err
		}
		idx := turn % 2
		p := r.players[idx]
		side := board.Us
		if idx == 1 {
			side = board.Them
		}

		mv, err := p.NextMove(last)
		if err != nil {
			if errors.Is(err, turnplayer.ErrIllegalMove) || errors.Is(err, turnplayer.ErrGameOver) {
				// the mover disagrees with the referee about the position.
				return rec, fmt.Errorf("game %d, %s: %w", id, p.Name(), err)
			}
			return rec, err
		}
		if !mv.Valid() || r.board.Get(mv) != board.NoPlayer {
			log.Info().Int("game", id).Str("player", p.Name()).Stringer("move", mv).Msg("illegal-move-forfeit")
			r.forfeit(rec, idx, EndedIllegalMove)
			r.logMove(rec, turn, idx, board.NoCoord)
			return rec, nil
		}
		r.board.Set(side, mv)
		rec.Moves = append(rec.Moves, mv)

		if r.enforceClock && p.Expired() {
			log.Info().Int("game", id).Str("player", p.Name()).Dur("used", p.TimeUsed()).Msg("clock-expired-forfeit")
			r.forfeit(rec, idx, EndedClockExpired)
			r.logMove(rec, turn, idx, mv)
			return rec, nil
		}
		if o := r.board.Outcome(); o.Decided() {
			rec.Result = o.Result(board.X)
			rec.Reason = EndedOnBoard
			r.logMove(rec, turn, idx, mv)
			log.Debug().Int("game", id).Stringer("result", rec.Result).Int("moves", len(rec.Moves)).Msg("game-over")
			return rec, nil
		}
		r.logMove(rec, turn, idx, mv)
		last = mv
	}
}

func (r *GameRunner) forfeit(rec *GameRecord, loser int, reason EndReason) {
	if loser == 0 {
		rec.Result = board.OWins
	} else {
		rec.Result = board.XWins
	}
	rec.Reason = reason
}

// logMove sends a line in the format of logfileHeader. Only the last line
// of a game carries a result.
func (r *GameRunner) logMove(rec *GameRecord, turn, idx int, mv board.Coord) {
	if r.logchan == nil {
		return
	}
	mark := board.X
	if idx == 1 {
		mark = board.O
	}
	cell := "-"
	if mv.Valid() {
		cell = fmt.Sprintf("%d %d %d", mv.X, mv.Y, mv.Z)
	}
	result, reason := "", ""
	if rec.Result != board.InProgress {
		result, reason = rec.Result.String(), rec.Reason.String()
	}
	r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v\n",
		rec.ID,
		turn+1,
		rec.Players[idx],
		mark,
		cell,
		r.players[idx].TimeUsed().Milliseconds(),
		result,
		reason)
}
