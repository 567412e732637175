package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/qubic/ai/bot"
	"github.com/domino14/qubic/automatic"
	"github.com/domino14/qubic/board"
	"github.com/domino14/qubic/config"
	"github.com/domino14/qubic/turnplayer"
)

// interactiveGame is a game between the person at the shell and the
// engine. The engine's board is the only board.
type interactiveGame struct {
	ai    *bot.BotTurnPlayer
	clock *turnplayer.Clocked
	over  bool
}

func (g *interactiveGame) board() board.Board {
	return g.ai.Board()
}

func (g *interactiveGame) display() string {
	return g.ai.Board().ToDisplayText(g.ai.Mark())
}

func aiMoveText(c board.Coord) string {
	return fmt.Sprintf("AI: moving to (%d, %d) on board %d", c.X, c.Y, c.Z)
}

// gameOverText describes a decided board owned by the engine.
func gameOverText(o board.Outcome) string {
	switch o {
	case board.UsWon:
		return "Game over: AI has won"
	case board.ThemWon:
		return "Game over: Player has won"
	}
	return "Game over: Draw"
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	code, err := sc.botCode(cmd.options)
	if err != nil {
		return nil, err
	}
	aiFirst, err := aiMovesFirst(cmd.options)
	if err != nil {
		return nil, err
	}
	ai, err := bot.NewBotTurnPlayer(sc.config, "ai", code)
	if err != nil {
		return nil, err
	}
	g := &interactiveGame{
		ai:    ai,
		clock: turnplayer.NewClocked(ai, sc.config.GetDuration(config.ConfigClockAllowance)),
	}
	g.clock.NewGame()
	sc.game = g

	var sb strings.Builder
	if aiFirst {
		mv, err := g.clock.NextMove(board.NoCoord)
		if err != nil {
			return nil, err
		}
		sb.WriteString(aiMoveText(mv) + "\n")
		sb.WriteString(g.display())
		sb.WriteString("You are O.")
	} else {
		sb.WriteString(g.display())
		sb.WriteString("You are X. Play your first move with `play x y z`.")
	}
	log.Debug().Stringer("bot", code).Bool("ai-first", aiFirst).Msg("new-game")
	return msg(sb.String()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	g := sc.game
	if g == nil {
		return nil, errNoGame
	}
	if g.over {
		return nil, errors.New("this game is over; start another with `new`")
	}
	c, err := turnplayer.ParseMove(strings.Join(cmd.args, " "))
	if err != nil {
		return nil, err
	}
	if g.board().Get(c) != board.NoPlayer {
		return nil, fmt.Errorf("%v is taken", c)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Player: moving to %v\n", c)
	mv, err := g.clock.NextMove(c)
	if errors.Is(err, turnplayer.ErrGameOver) {
		g.over = true
		sb.WriteString(g.display())
		sb.WriteString(gameOverText(g.board().Outcome()))
		return msg(sb.String()), nil
	}
	if err != nil {
		return nil, err
	}
	sb.WriteString(aiMoveText(mv) + "\n")
	sb.WriteString(g.display())
	if sc.config.GetBool(config.ConfigClockEnforce) && g.clock.Expired() {
		g.over = true
		sb.WriteString("Game over: Player has won (the AI ran out of time)")
		return msg(sb.String()), nil
	}
	if o := g.board().Outcome(); o.Decided() {
		g.over = true
		sb.WriteString(gameOverText(o))
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	g := sc.game
	if g == nil {
		return nil, errNoGame
	}
	var sb strings.Builder
	sb.WriteString(g.display())
	if g.ai.Board().NumMarks() > 0 {
		fmt.Fprintf(&sb, "You are %v. ", g.ai.Mark().Other())
	}
	fmt.Fprintf(&sb, "Marks on the board: %d", g.board().NumMarks())
	if g.over {
		sb.WriteString("\n" + gameOverText(g.board().Outcome()))
	}
	return msg(sb.String()), nil
}

// hint runs a fresh selector on the board as the player sees it.
func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	g := sc.game
	if g == nil {
		return nil, errNoGame
	}
	if g.over {
		return nil, errors.New("this game is over")
	}
	code, err := sc.botCode(cmd.options)
	if err != nil {
		return nil, err
	}
	s, err := bot.NewSelectorFromConfig(sc.config, code)
	if err != nil {
		return nil, err
	}
	m, err := s.SelectMove(g.board().Flip())
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Suggested move: %v (%v, score %g)", m.Coord, m.Kind, m.Score)), nil
}

func (sc *ShellController) clock(cmd *shellcmd) (*Response, error) {
	g := sc.game
	if g == nil {
		return nil, errNoGame
	}
	return msg(fmt.Sprintf("AI: used %v of %v, %v remaining",
		g.clock.TimeUsed().Round(time.Millisecond), g.clock.Allowance(), g.clock.Remaining().Round(time.Millisecond))), nil
}

// match plays a whole refereed game, reading the player's moves at the
// prompt.
func (sc *ShellController) match(cmd *shellcmd) (*Response, error) {
	code, err := sc.botCode(cmd.options)
	if err != nil {
		return nil, err
	}
	aiFirst, err := aiMovesFirst(cmd.options)
	if err != nil {
		return nil, err
	}
	ai, err := bot.NewBotTurnPlayer(sc.config, "ai", code)
	if err != nil {
		return nil, err
	}
	human := turnplayer.NewHuman("player", sc.in, sc.out)
	var r *automatic.GameRunner
	if aiFirst {
		r = automatic.NewGameRunner(nil, sc.config, ai, human)
	} else {
		r = automatic.NewGameRunner(nil, sc.config, human, ai)
	}
	if sc.l != nil {
		defer sc.l.SetPrompt(sc.l.Config.Prompt)
	}

	rec, err := r.PlayGame(context.Background(), 0)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(r.Board().ToDisplayText(board.X))
	switch rec.Winner() {
	case "ai":
		sb.WriteString("Game over: AI has won")
	case "player":
		sb.WriteString("Game over: Player has won")
	default:
		sb.WriteString("Game over: Draw")
	}
	if rec.Reason != automatic.EndedOnBoard {
		fmt.Fprintf(&sb, " (%v)", rec.Reason)
	}
	seat := playerSeat(aiFirst)
	fmt.Fprintf(&sb, "\nTime used: player %v, AI %v",
		rec.TimeUsed[seat].Round(time.Millisecond), rec.TimeUsed[1-seat].Round(time.Millisecond))
	return msg(sb.String()), nil
}

// playerSeat is 0 if the player has X and 1 otherwise.
func playerSeat(aiFirst bool) int {
	if aiFirst {
		return 1
	}
	return 0
}

func (sc *ShellController) autoplaying() bool {
	if sc.autoplayDone == nil {
		return false
	}
	select {
	case <-sc.autoplayDone:
		return false
	default:
		return true
	}
}

// autoplay starts computer-vs-computer games in the background. The
// summary is shown when they finish.
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 1 && cmd.args[0] == "stop" {
		if !sc.autoplaying() {
			return nil, errors.New("no autoplay is running")
		}
		sc.autoplayCancel()
		<-sc.autoplayDone
		return msg("autoplay stopped"), nil
	}
	if sc.autoplaying() {
		return nil, errors.New("autoplay is already running; do `autoplay stop` first")
	}
	codes := [2]bot.BotCode{}
	for i := range codes {
		s := sc.config.GetString(config.ConfigBotCode)
		if i < len(cmd.args) {
			s = cmd.args[i]
		}
		c, err := bot.ParseBotCode(s)
		if err != nil {
			return nil, err
		}
		codes[i] = c
	}
	games, err := cmd.options.IntDefault("games", sc.config.GetInt(config.ConfigAutoplayGames))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigAutoplayThreads))
	if err != nil {
		return nil, err
	}
	logfile := cmd.options.String("file")
	if logfile == "" {
		logfile = sc.config.GetString(config.ConfigAutoplayLogfile)
	}
	summaryFile := sc.config.GetString(config.ConfigAutoplaySummary)

	// The workers read settings while the shell may be changing them.
	cfg := sc.config.Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	sc.autoplayCancel = cancel
	sc.autoplayDone = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		defer cancel()
		sum, err := automatic.StartCompVComp(ctx, cfg,
			automatic.BotFactories(cfg, codes[0], codes[1]), games, threads, logfile)
		if err != nil && !errors.Is(err, context.Canceled) {
			sc.showError(err)
			return
		}
		sc.showMessage(sum.String())
		sc.outMu.Lock()
		herr := sum.FprintHistogram(sc.out)
		sc.outMu.Unlock()
		if herr != nil {
			sc.showError(herr)
		}
		if summaryFile != "" {
			if err := sum.WriteYAML(summaryFile); err != nil {
				sc.showError(err)
			}
		}
	}(sc.autoplayDone)

	return msg(fmt.Sprintf("autoplay started: %d games of %v vs %v; moves are logged to %v",
		games, codes[0], codes[1], logfile)), nil
}

// analyze summarizes an autoplay log.
func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: analyze <logfile>")
	}
	sum, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(sum.String())
	sb.WriteString("\n")
	if err := sum.FprintHistogram(&sb); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
