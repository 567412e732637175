package bot

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/qubic/board"
	"github.com/domino14/qubic/config"
	"github.com/domino14/qubic/equity"
	"github.com/domino14/qubic/search"
	"github.com/domino14/qubic/turnplayer"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testConfig(depth int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSearchDepth, depth)
	cfg.Set(config.ConfigTTMaxSizePower, 16)
	return cfg
}

func testSelector(t *testing.T, depth int, code BotCode) *Selector {
	s, err := NewSelectorFromConfig(testConfig(depth), code)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// dumbSelector scores nothing but finished games and looks one ply
// ahead, so it plays the first empty cell unless another cell wins
// outright.
func dumbSelector() *Selector {
	return NewSelector(search.NewSolver(equity.NewOutcomeOnly(), nil, search.CacheBounded), 1, false)
}

func c(x, y, z int) board.Coord {
	return board.Coord{X: x, Y: y, Z: z}
}

func TestImmediateWin(t *testing.T) {
	is := is.New(t)
	b := board.MustBoard(board.XThreeOnZ, board.X)
	m, err := testSelector(t, 3, TacticalBot).SelectMove(b)
	is.NoErr(err)
	is.Equal(m.Coord, c(0, 0, 3))
	is.Equal(m.Score, math.Inf(1))
	is.Equal(m.Kind, WinningMove)
}

func TestImmediateBlock(t *testing.T) {
	is := is.New(t)
	b := board.MustBoard(board.OThreeOnZ, board.X)
	m, err := testSelector(t, 3, TacticalBot).SelectMove(b)
	is.NoErr(err)
	is.Equal(m.Coord, c(3, 3, 3))
	is.Equal(m.Score, 0.0)
	is.Equal(m.Kind, BlockingMove)
}

func TestWinBeforeBlock(t *testing.T) {
	is := is.New(t)
	b := board.MustBoard(board.BothThree, board.X)
	m, err := testSelector(t, 3, TacticalBot).SelectMove(b)
	is.NoErr(err)
	is.Equal(m.Coord, c(0, 0, 3))
	is.Equal(m.Kind, WinningMove)

	// The same position from O's side: O wins at (3,3,3) instead.
	m, err = testSelector(t, 3, TacticalBot).SelectMove(b.Flip())
	is.NoErr(err)
	is.Equal(m.Coord, c(3, 3, 3))
	is.Equal(m.Kind, WinningMove)
}

func TestShortcutsFollowLineOrder(t *testing.T) {
	is := is.New(t)
	var b board.Board
	// a z line through (3,3,*) comes before the x line through (*,0,0),
	// even though (0,0,0) comes first in scan order.
	for _, cc := range []board.Coord{c(3, 3, 0), c(3, 3, 1), c(3, 3, 2), c(1, 0, 0), c(2, 0, 0), c(3, 0, 0)} {
		b.Set(board.Us, cc)
	}
	cell, ok := ImmediateWin(b, board.Us)
	is.True(ok)
	is.Equal(cell, c(3, 3, 3))
	_, ok = ImmediateBlock(b, board.Us)
	is.True(!ok)
	cell, ok = ImmediateBlock(b.Flip(), board.Us)
	is.True(ok)
	is.Equal(cell, c(3, 3, 3))
}

func TestSearchFindsWinAndBlock(t *testing.T) {
	is := is.New(t)
	m, err := testSelector(t, 2, SearchOnlyBot).SelectMove(board.MustBoard(board.XThreeOnZ, board.X))
	is.NoErr(err)
	is.Equal(m.Coord, c(0, 0, 3))
	is.Equal(m.Score, math.Inf(1))
	is.Equal(m.Kind, SearchedMove)

	m, err = testSelector(t, 2, SearchOnlyBot).SelectMove(board.MustBoard(board.OThreeOnZ, board.X))
	is.NoErr(err)
	is.Equal(m.Coord, c(3, 3, 3))
	is.Equal(m.Kind, SearchedMove)
	is.True(!math.IsInf(m.Score, 0))
}

func TestTiesGoToFirstCell(t *testing.T) {
	is := is.New(t)
	m, err := dumbSelector().SelectMove(board.Board{})
	is.NoErr(err)
	is.Equal(m.Coord, c(0, 0, 0))
	is.Equal(m.Score, 0.0)

	var b board.Board
	b.Set(board.Them, c(0, 0, 0))
	b.Set(board.Us, c(0, 0, 1))
	m, err = dumbSelector().SelectMove(b)
	is.NoErr(err)
	is.Equal(m.Coord, c(0, 0, 2))
}

func TestEmptyBoardFirstMove(t *testing.T) {
	is := is.New(t)
	m, err := testSelector(t, 3, TacticalBot).SelectMove(board.Board{})
	is.NoErr(err)
	is.True(m.Coord.Valid())
	is.True(!math.IsInf(m.Score, 0))
}

func TestFullBoard(t *testing.T) {
	is := is.New(t)
	_, err := dumbSelector().SelectMove(board.MustBoard(board.FullDraw, board.X))
	is.True(errors.Is(err, ErrNoLegalMove))
}

func TestBotMovesFirst(t *testing.T) {
	is := is.New(t)
	p, err := NewBotTurnPlayer(testConfig(2), "bot", TacticalBot)
	is.NoErr(err)
	p.NewGame()

	mv, err := p.NextMove(board.NoCoord)
	is.NoErr(err)
	is.True(mv.Valid())
	is.Equal(p.Mark(), board.X)
	is.Equal(p.Board().Get(mv), board.Us)
	is.Equal(p.Board().NumMarks(), 1)
	is.Equal(p.LastMove().Coord, mv)
	is.Equal(p.Result(), board.InProgress)

	// The opponent's move can't be skipped, or land on a taken cell.
	_, err = p.NextMove(board.NoCoord)
	is.True(errors.Is(err, turnplayer.ErrIllegalMove))
	_, err = p.NextMove(mv)
	is.True(errors.Is(err, turnplayer.ErrIllegalMove))
	_, err = p.NextMove(c(0, 5, 0))
	is.True(errors.Is(err, turnplayer.ErrIllegalMove))
	is.Equal(p.Board().NumMarks(), 1)
}

func TestBotMovesSecond(t *testing.T) {
	is := is.New(t)
	p := NewBotTurnPlayerWithSelector("dumb", SearchOnlyBot, dumbSelector())
	p.NewGame()

	opp := []board.Coord{c(3, 3, 0), c(3, 3, 1), c(3, 3, 2)}
	expected := []board.Coord{c(0, 0, 0), c(0, 0, 1), c(0, 0, 2)}
	for i := range opp {
		mv, err := p.NextMove(opp[i])
		is.NoErr(err)
		is.Equal(mv, expected[i])
	}
	is.Equal(p.Mark(), board.O)

	_, err := p.NextMove(c(3, 3, 3))
	is.True(errors.Is(err, turnplayer.ErrGameOver))
	is.Equal(p.Result(), board.XWins)

	p.NewGame()
	is.Equal(p.Board(), board.Board{})
	is.Equal(p.Result(), board.InProgress)
	mv, err := p.NextMove(board.NoCoord)
	is.NoErr(err)
	is.Equal(mv, c(0, 0, 0))
	is.Equal(p.Mark(), board.X)
}

func TestTwoBotsShareNothing(t *testing.T) {
	is := is.New(t)
	cfg := testConfig(2)
	x, err := NewBotTurnPlayer(cfg, "x", TacticalBot)
	is.NoErr(err)
	o, err := NewBotTurnPlayer(cfg, "o", TacticalBot)
	is.NoErr(err)
	x.NewGame()
	o.NewGame()
	is.True(x.selector.Solver().TranspositionTable() != o.selector.Solver().TranspositionTable())

	// Neither side can make two threats at once with four marks.
	last := board.NoCoord
	for i := 0; i < 4; i++ {
		mv, err := x.NextMove(last)
		is.NoErr(err)
		last, err = o.NextMove(mv)
		is.NoErr(err)
	}
	xb := x.Board()
	xb.Set(board.Them, last)
	is.Equal(xb, o.Board().Flip())
	is.Equal(x.Mark(), board.X)
	is.Equal(o.Mark(), board.O)
}

func TestConfigErrors(t *testing.T) {
	is := is.New(t)
	cfg := testConfig(0)
	_, err := NewBotTurnPlayer(cfg, "bot", TacticalBot)
	is.True(err != nil)

	cfg = testConfig(2)
	cfg.Set(config.ConfigTTMode, "sometimes")
	_, err = NewBotTurnPlayer(cfg, "bot", TacticalBot)
	is.True(errors.Is(err, search.ErrUnknownCacheMode))

	cfg = testConfig(2)
	cfg.Set(config.ConfigEvalLineWeights, "4,3,2,1")
	_, err = NewBotTurnPlayer(cfg, "bot", TacticalBot)
	is.True(errors.Is(err, equity.ErrBadWeights))
}

func TestEvaluatorFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := testConfig(2)
	e, err := EvaluatorFromConfig(cfg)
	is.NoErr(err)
	_, ok := e.(*equity.WaysToWin)
	is.True(ok)

	cfg.Set(config.ConfigEvalStrongCells, 2.5)
	e, err = EvaluatorFromConfig(cfg)
	is.NoErr(err)
	_, ok = e.(*equity.Combined)
	is.True(ok)
}

func TestParseBotCode(t *testing.T) {
	is := is.New(t)
	code, err := ParseBotCode("search-only")
	is.NoErr(err)
	is.Equal(code, SearchOnlyBot)
	is.Equal(code.String(), "search-only")
	code, err = ParseBotCode("tactical")
	is.NoErr(err)
	is.Equal(code, TacticalBot)
	_, err = ParseBotCode("random")
	is.True(errors.Is(err, ErrUnknownBotCode))
}
