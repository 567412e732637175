package bot

import (
	"errors"
	"fmt"
)

// BotCode selects the kind of computer player.
type BotCode int

const (
	// TacticalBot takes a win or blocks a loss on sight, and searches
	// otherwise.
	TacticalBot BotCode = iota
	// SearchOnlyBot always searches.
	SearchOnlyBot
)

var ErrUnknownBotCode = errors.New("unknown bot code")

func (c BotCode) String() string {
	switch c {
	case TacticalBot:
		return "tactical"
	case SearchOnlyBot:
		return "search-only"
	}
	return fmt.Sprintf("bot-%d", int(c))
}

func ParseBotCode(s string) (BotCode, error) {
	switch s {
	case "tactical":
		return TacticalBot, nil
	case "search-only", "search":
		return SearchOnlyBot, nil
	}
	return TacticalBot, fmt.Errorf("%w: %q", ErrUnknownBotCode, s)
}

func hasShortcuts(c BotCode) bool {
	switch c {
	case TacticalBot:
		return true
	}
	return false
}
