package bot

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/qubic/board"
	"github.com/domino14/qubic/config"
	"github.com/domino14/qubic/turnplayer"
)

// BotTurnPlayer is a computer player. It owns its board and its
// transposition table; two bots in the same match share nothing.
type BotTurnPlayer struct {
	name     string
	botCode  BotCode
	selector *Selector

	board    board.Board
	mark     board.Mark
	started  bool
	lastMove Move
}

func NewBotTurnPlayer(cfg *config.Config, name string, botCode BotCode) (*BotTurnPlayer, error) {
	s, err := NewSelectorFromConfig(cfg, botCode)
	if err != nil {
		return nil, err
	}
	return NewBotTurnPlayerWithSelector(name, botCode, s), nil
}

func NewBotTurnPlayerWithSelector(name string, botCode BotCode, s *Selector) *BotTurnPlayer {
	return &BotTurnPlayer{name: name, botCode: botCode, selector: s}
}

func (p *BotTurnPlayer) Name() string {
	return p.name
}

func (p *BotTurnPlayer) NewGame() {
	p.board = board.Board{}
	p.mark = board.X
	p.started = false
	p.lastMove = Move{}
	p.selector.Reset()
}

// NextMove records the opponent's move, searches, and records and returns
// our own. The first call of a game decides our mark: X if we were given
// board.NoCoord, O otherwise.
func (p *BotTurnPlayer) NextMove(last board.Coord) (board.Coord, error) {
	if last == board.NoCoord {
		if p.started {
			return board.NoCoord, fmt.Errorf("%w: the opponent's move is missing", turnplayer.ErrIllegalMove)
		}
		p.mark = board.X
	} else {
		if !last.Valid() || p.board.Get(last) != board.NoPlayer {
			return board.NoCoord, fmt.Errorf("%w: opponent played %v", turnplayer.ErrIllegalMove, last)
		}
		if !p.started {
			p.mark = board.O
		}
		p.board.Set(board.Them, last)
	}
	p.started = true

	if p.board.Outcome().Decided() {
		return board.NoCoord, fmt.Errorf("%w: %v", turnplayer.ErrGameOver, p.Result())
	}
	m, err := p.selector.SelectMove(p.board)
	if err != nil {
		return board.NoCoord, err
	}
	p.board.Set(board.Us, m.Coord)
	p.lastMove = m
	log.Debug().
		Str("player", p.name).
		Stringer("mark", p.mark).
		Stringer("bot", p.botCode).
		Stringer("move", m.Coord).
		Stringer("kind", m.Kind).
		Float64("score", m.Score).
		Msg("ai-move")
	return m.Coord, nil
}

func (p *BotTurnPlayer) Board() board.Board {
	return p.board
}

// Mark is meaningful once the first move of the game has been made.
func (p *BotTurnPlayer) Mark() board.Mark {
	return p.mark
}

func (p *BotTurnPlayer) Result() board.Result {
	return p.board.Outcome().Result(p.mark)
}

// LastMove is our most recent move, with its score.
func (p *BotTurnPlayer) LastMove() Move {
	return p.lastMove
}

func (p *BotTurnPlayer) BotCode() BotCode {
	return p.botCode
}

var _ turnplayer.Mover = (*BotTurnPlayer)(nil)
