package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/qubic/board"
	"github.com/domino14/qubic/config"
	"github.com/domino14/qubic/turnplayer"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("sending quit signal")
	errNoGame            = errors.New("please start a game first with the `new` command")
)

type ShellController struct {
	l      *readline.Instance
	in     turnplayer.LineReader
	out    io.Writer
	outMu  sync.Mutex
	config *config.Config

	gitVersion string

	game *interactiveGame

	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, gitVersion string) *ShellController {
	prompt := "qubic> "
	if board.ColorSupport {
		prompt = "\033[31mqubic>\033[0m "
	}
	sc := &ShellController{config: cfg, gitVersion: gitVersion}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/qubic_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.in = l
	sc.out = l.Stderr()
	return sc
}

// newControllerWithIO builds a controller without a terminal.
func newControllerWithIO(cfg *config.Config, in turnplayer.LineReader, out io.Writer) *ShellController {
	return &ShellController{config: cfg, in: in, out: out}
}

func (sc *ShellController) showMessage(msg string) {
	sc.outMu.Lock()
	defer sc.outMu.Unlock()
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, its arguments, and its
// -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") && !isNumber(f) {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := strings.TrimPrefix(f, "-")
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func (sc *ShellController) standardModeSwitch(cmd *shellcmd, sig chan os.Signal) (*Response, error) {
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "hint":
		return sc.hint(cmd)
	case "clock":
		return sc.clock(cmd)
	case "match":
		return sc.match(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "set":
		return sc.set(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "script":
		return sc.script(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
		return nil, errors.New("unrecognized command: " + cmd.cmd)
	}
}

// Execute runs a single command line. It returns errQuit after an exit
// command; any other error has already been shown.
func (sc *ShellController) Execute(sig chan os.Signal, line string) error {
	cmd, err := extractFields(strings.TrimSpace(line))
	if errors.Is(err, errNoData) {
		return nil
	}
	if err != nil {
		sc.showError(err)
		return err
	}
	resp, err := sc.standardModeSwitch(cmd, sig)
	if errors.Is(err, errQuit) {
		return err
	}
	if err != nil {
		sc.showError(err)
		return err
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	log.Debug().Str("version", sc.gitVersion).Msg("shell-started")

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if errors.Is(sc.Execute(sig, line), errQuit) {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any running autoplay and waits for it to finish.
func (sc *ShellController) Cleanup() {
	if sc.autoplayCancel != nil {
		sc.autoplayCancel()
		<-sc.autoplayDone
	}
	log.Info().Msg("shell cleaned up")
}
