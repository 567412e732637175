package automatic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/qubic/ai/bot"
	"github.com/domino14/qubic/board"
	"github.com/domino14/qubic/config"
	"github.com/domino14/qubic/turnplayer"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

type scriptedMover struct {
	name  string
	moves []board.Coord
	next  int
	delay time.Duration
}

func (s *scriptedMover) Name() string { return s.name }
func (s *scriptedMover) NewGame()     { s.next = 0 }
func (s *scriptedMover) NextMove(last board.Coord) (board.Coord, error) {
	time.Sleep(s.delay)
	if s.next >= len(s.moves) {
		return board.NoCoord, errors.New("out of moves")
	}
	s.next++
	return s.moves[s.next-1], nil
}

func c(x, y, z int) board.Coord {
	return board.Coord{X: x, Y: y, Z: z}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSearchDepth, 1)
	cfg.Set(config.ConfigTTMaxSizePower, 12)
	return cfg
}

func TestGameEndsOnWin(t *testing.T) {
	is := is.New(t)
	x := &scriptedMover{name: "x", moves: []board.Coord{c(0, 0, 0), c(0, 0, 1), c(0, 0, 2), c(0, 0, 3)}}
	o := &scriptedMover{name: "o", moves: []board.Coord{c(1, 0, 0), c(1, 0, 1), c(1, 0, 2), c(1, 0, 3)}}
	logchan := make(chan string, 100)
	r := NewGameRunner(logchan, testConfig(), x, o)

	rec, err := r.PlayGame(context.Background(), 7)
	is.NoErr(err)
	close(logchan)
	is.Equal(rec.ID, 7)
	is.Equal(rec.Result, board.XWins)
	is.Equal(rec.Reason, EndedOnBoard)
	is.Equal(rec.Winner(), "x")
	is.Equal(len(rec.Moves), 7)
	is.Equal(r.Board().Outcome(), board.UsWon)

	var lines []string
	for l := range logchan {
		lines = append(lines, l)
	}
	is.Equal(len(lines), 7)
	is.Equal(lines[0][:12], "7,1,x,X,0 0 ")
	is.Equal(lines[6][len(lines[6])-len("X wins,board\n"):], "X wins,board\n")
}

func TestIllegalMoveForfeits(t *testing.T) {
	is := is.New(t)
	x := &scriptedMover{name: "x", moves: []board.Coord{c(0, 0, 0), c(2, 2, 2)}}
	o := &scriptedMover{name: "o", moves: []board.Coord{c(0, 0, 0)}}
	r := NewGameRunner(nil, testConfig(), x, o)

	rec, err := r.PlayGame(context.Background(), 0)
	is.NoErr(err)
	is.Equal(rec.Result, board.XWins)
	is.Equal(rec.Reason, EndedIllegalMove)
	is.Equal(len(rec.Moves), 1)

	o.moves = []board.Coord{c(1, 5, 0)}
	rec, err = r.PlayGame(context.Background(), 1)
	is.NoErr(err)
	is.Equal(rec.Reason, EndedIllegalMove)
	is.Equal(rec.Winner(), "x")
}

func TestClockExpiry(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	cfg.Set(config.ConfigClockAllowance, "1ms")
	x := &scriptedMover{name: "x", moves: []board.Coord{c(0, 0, 0)}, delay: 5 * time.Millisecond}
	o := &scriptedMover{name: "o", moves: []board.Coord{c(1, 1, 1)}}

	// Without enforcement the clock only keeps time.
	r := NewGameRunner(nil, cfg, x, o)
	rec, err := r.PlayGame(context.Background(), 0)
	is.True(err != nil)
	is.True(rec.TimeUsed[0] >= 5*time.Millisecond)
	is.True(r.Player(0).Expired())

	cfg.Set(config.ConfigClockEnforce, true)
	r = NewGameRunner(nil, cfg, x, o)
	rec, err = r.PlayGame(context.Background(), 1)
	is.NoErr(err)
	is.Equal(rec.Result, board.OWins)
	is.Equal(rec.Reason, EndedClockExpired)
	is.Equal(rec.Winner(), "o")
}

func TestMoverErrorStopsGame(t *testing.T) {
	is := is.New(t)
	x := &scriptedMover{name: "x", moves: []board.Coord{c(0, 0, 0)}}
	o := &scriptedMover{name: "o"}
	r := NewGameRunner(nil, testConfig(), x, o)
	rec, err := r.PlayGame(context.Background(), 0)
	is.True(err != nil)
	is.Equal(rec.Result, board.InProgress)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.PlayGame(ctx, 1)
	is.True(errors.Is(err, context.Canceled))
}

func TestBotsPlayAFullGame(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	p1, err := bot.NewBotTurnPlayer(cfg, "one", bot.TacticalBot)
	is.NoErr(err)
	p2, err := bot.NewBotTurnPlayer(cfg, "two", bot.SearchOnlyBot)
	is.NoErr(err)
	r := NewGameRunner(nil, cfg, p1, p2)

	rec, err := r.PlayGame(context.Background(), 0)
	is.NoErr(err)
	is.True(rec.Result != board.InProgress)
	is.Equal(rec.Reason, EndedOnBoard)
	is.Equal(r.Board().Outcome().Result(board.X), rec.Result)

	// Each bot saw every move but the last one, which it didn't need.
	is.True(p1.Board().NumMarks() >= len(rec.Moves)-1)
	is.True(p2.Board().NumMarks() >= len(rec.Moves)-1)
	is.Equal(p1.Mark(), board.X)
	is.Equal(p2.Mark(), board.O)
}

func TestCompVComp(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	logfile := filepath.Join(t.TempDir(), "games.txt")

	sum, err := StartCompVComp(context.Background(), cfg,
		BotFactories(cfg, bot.TacticalBot, bot.TacticalBot), 4, 2, logfile)
	is.NoErr(err)
	is.Equal(sum.GamesPlayed, 4)
	is.Equal(sum.Players, [2]string{"tactical-1", "tactical-2"})
	is.Equal(sum.Wins[0]+sum.Wins[1]+sum.Draws, 4)
	is.Equal(sum.WentFirst, [2]int{2, 2})
	is.Equal(sum.Forfeits, 0)
	is.Equal(CVCCounter.Value(), int64(4))
	is.Equal(IsPlaying.Value(), int64(0))

	fromLog, err := AnalyzeLogFile(logfile)
	is.NoErr(err)
	is.Equal(fromLog.GamesPlayed, 4)
	is.Equal(fromLog.Draws, sum.Draws)
	is.Equal(fromLog.MeanLength, sum.MeanLength)
	is.Equal(fromLog.WentFirst[0]+fromLog.WentFirst[1], 4)
}

func TestCompVCompCancelled(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := StartCompVComp(ctx, cfg, BotFactories(cfg, bot.TacticalBot, bot.SearchOnlyBot),
		10, 2, filepath.Join(t.TempDir(), "games.txt"))
	is.True(errors.Is(err, context.Canceled))
	is.True(sum.GamesPlayed < 10)
}

func TestCompVCompErrors(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	_, err := StartCompVComp(context.Background(), cfg, BotFactories(cfg, bot.TacticalBot, bot.TacticalBot),
		0, 2, filepath.Join(t.TempDir(), "games.txt"))
	is.True(err != nil)

	bad := func() (turnplayer.Mover, error) { return nil, errors.New("no bot") }
	_, err = StartCompVComp(context.Background(), cfg, [2]MoverFactory{bad, bad},
		2, 1, filepath.Join(t.TempDir(), "games.txt"))
	is.True(err != nil)
	is.Equal(IsPlaying.Value(), int64(0))
}
