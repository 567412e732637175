package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/domino14/qubic/board"
)

// Summary describes a set of games between two players. A win counts 1
// and a draw 0.5 towards a player's score.
type Summary struct {
	GamesPlayed    int        `yaml:"games-played"`
	Players        [2]string  `yaml:"players"`
	Wins           [2]int     `yaml:"wins"`
	Draws          int        `yaml:"draws"`
	WentFirst      [2]int     `yaml:"went-first"`
	WentFirstScore float64    `yaml:"went-first-score"`
	Forfeits       int        `yaml:"forfeits"`
	MeanScore      [2]float64 `yaml:"mean-score"`
	StdevScore     [2]float64 `yaml:"stdev-score"`
	MeanLength     float64    `yaml:"mean-length"`
	StdevLength    float64    `yaml:"stdev-length"`

	lengths []float64
}

// Summarize computes statistics for games between the named players.
func Summarize(players [2]string, games []*GameRecord) *Summary {
	s := &Summary{GamesPlayed: len(games), Players: players}
	if len(games) == 0 {
		return s
	}
	var scores [2][]float64
	for _, g := range games {
		first := lo.IndexOf(players[:], g.Players[0])
		winner := g.Winner()
		for i, p := range players {
			switch {
			case winner == p:
				scores[i] = append(scores[i], 1)
			case g.Result == board.DrawResult:
				scores[i] = append(scores[i], 0.5)
			default:
				scores[i] = append(scores[i], 0)
			}
		}
		if first >= 0 {
			s.WentFirst[first]++
			s.WentFirstScore += scores[first][len(scores[first])-1]
		}
		s.lengths = append(s.lengths, float64(len(g.Moves)))
	}
	for i, p := range players {
		s.Wins[i] = lo.CountBy(games, func(g *GameRecord) bool { return g.Winner() == p })
		s.MeanScore[i], s.StdevScore[i] = stat.MeanStdDev(scores[i], nil)
	}
	s.Draws = lo.CountBy(games, func(g *GameRecord) bool { return g.Result == board.DrawResult })
	s.Forfeits = lo.CountBy(games, func(g *GameRecord) bool { return g.Reason != EndedOnBoard })
	s.MeanLength, s.StdevLength = stat.MeanStdDev(s.lengths, nil)
	return s
}

func (s *Summary) String() string {
	var ss strings.Builder
	n := float64(max(s.GamesPlayed, 1))
	fmt.Fprintf(&ss, "Games played: %d\n", s.GamesPlayed)
	for i, p := range s.Players {
		fmt.Fprintf(&ss, "%v wins: %d (%.3f%%)\n", p, s.Wins[i], 100.0*float64(s.Wins[i])/n)
	}
	fmt.Fprintf(&ss, "Draws: %d (%.3f%%)\n", s.Draws, 100.0*float64(s.Draws)/n)
	fmt.Fprintf(&ss, "%v went first: %d (%.3f%%)\n", s.Players[0], s.WentFirst[0], 100.0*float64(s.WentFirst[0])/n)
	fmt.Fprintf(&ss, "Player who went first scored: %.1f (%.3f%%)\n", s.WentFirstScore, 100.0*s.WentFirstScore/n)
	if s.Forfeits > 0 {
		fmt.Fprintf(&ss, "Forfeits: %d\n", s.Forfeits)
	}
	for i, p := range s.Players {
		fmt.Fprintf(&ss, "%v Mean Score: %.6f  Stdev: %.6f\n", p, s.MeanScore[i], s.StdevScore[i])
	}
	fmt.Fprintf(&ss, "Game length: %.3f moves  Stdev: %.3f\n", s.MeanLength, s.StdevLength)
	return ss.String()
}

// FprintHistogram draws the distribution of game lengths.
func (s *Summary) FprintHistogram(w io.Writer) error {
	if len(s.lengths) == 0 {
		return nil
	}
	h := histogram.Hist(10, s.lengths)
	return histogram.Fprint(w, h, histogram.Linear(40))
}

// WriteYAML saves the summary to a file.
func (s *Summary) WriteYAML(path string) error {
	bts, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bts, 0o644)
}

// AnalyzeLogFile rebuilds the game records from a log file written by
// StartCompVComp and summarizes them. The players are named in the
// order they first appear.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	r := csv.NewReader(file)
	r.FieldsPerRecord = 8

	var players []string
	games := map[int]*GameRecord{}
	var order []int
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			continue
		}
		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, err
		}
		g, ok := games[id]
		if !ok {
			g = &GameRecord{ID: id}
			games[id] = g
			order = append(order, id)
		}
		if !lo.Contains(players, record[2]) {
			players = append(players, record[2])
		}
		if record[3] == board.X.String() {
			g.Players[0] = record[2]
		} else {
			g.Players[1] = record[2]
		}
		if record[4] != "-" {
			c, err := board.ParseCoord(strings.Fields(record[4]))
			if err != nil {
				return nil, err
			}
			g.Moves = append(g.Moves, c)
		}
		if record[6] != "" {
			g.Result = parseResult(record[6])
			if record[7] != EndedOnBoard.String() {
				g.Reason = EndedIllegalMove
				if record[7] == EndedClockExpired.String() {
					g.Reason = EndedClockExpired
				}
			}
		}
	}
	if len(players) > 2 {
		return nil, fmt.Errorf("expected two players, found %v", players)
	}
	var names [2]string
	copy(names[:], players)
	return Summarize(names, lo.Map(order, func(id int, _ int) *GameRecord { return games[id] })), nil
}

func parseResult(s string) board.Result {
	for _, r := range []board.Result{board.DrawResult, board.XWins, board.OWins} {
		if r.String() == s {
			return r
		}
	}
	return board.InProgress
}
