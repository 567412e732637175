package shell

import (
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/qubic/config"
)

// ShellCompleter completes command names, options and option values.
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-games", "-threads")
	Args    []string // Possible argument values (for non-option arguments)
}

var botCodes = []string{"tactical", "search-only"}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-first", "-bot"},
	},
	"match": {
		Options: []string{"-first", "-bot"},
	},
	"hint": {
		Options: []string{"-bot"},
	},
	"autoplay": {
		Options: []string{"-games", "-threads", "-file"},
		Args:    append([]string{"stop"}, botCodes...),
	},
	"set": {
		Args: settingNames(),
	},
	"setconfig": {
		Args: settingNames(),
	},
	"help": {
		Args: []string{"new", "play", "autoplay", "analyze", "script", "set"},
	},
}

var commandNames = []string{
	"help", "new", "play", "show", "hint", "clock", "match", "autoplay", "analyze",
	"set", "setconfig", "script", "exit",
}

func settingNames() []string {
	keys := config.DefaultConfig().AllKeys()
	slices.Sort(keys)
	return keys
}

// Do implements the readline.AutoCompleter interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// an unterminated quote; fall back to simple space splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "first":
				completions = []string{"player", "ai"}
			case "bot":
				completions = botCodes
			}
		}
		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
