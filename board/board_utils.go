package board

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// ToDisplayText renders the board with the four z layers side by side and y
// growing upwards. us is the mark of the board's owner.
func (b Board) ToDisplayText(us Mark) string {
	profile := termenv.Ascii
	if ColorSupport {
		profile = termenv.ANSI
	}
	return b.Render(us, profile)
}

// Render is ToDisplayText with an explicit color profile.
func (b Board) Render(us Mark, profile termenv.Profile) string {
	line, _ := b.CompletedLine()
	var sb strings.Builder
	for y := Dim - 1; y >= 0; y-- {
		for z := 0; z < Dim; z++ {
			for x := 0; x < Dim; x++ {
				c := Coord{x, y, z}
				sb.WriteString(b.cellString(c, us, line, profile))
			}
			sb.WriteString("    ")
		}
		sb.WriteString("\n")
	}
	for z := 0; z < Dim; z++ {
		fmt.Fprintf(&sb, "z=%d     ", z)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (b Board) cellString(c Coord, us Mark, line uint64, profile termenv.Profile) string {
	idx := c.Index()
	var s termenv.Style
	switch b.GetIndex(idx) {
	case Us:
		s = profile.String(us.String()).Background(profile.Color("2"))
	case Them:
		s = profile.String(us.Other().String()).Background(profile.Color("4"))
	default:
		return "."
	}
	if line&(1<<idx) != 0 {
		s = s.Background(profile.Color("1")).Bold()
	}
	return s.String()
}

// FromPlaintext parses the uncolored output of ToDisplayText back into a
// board. Marks equal to us go into the owner's set.
func FromPlaintext(text string, us Mark) (Board, error) {
	var rows [][]string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "z=") {
			continue
		}
		rows = append(rows, strings.Fields(l))
	}
	if len(rows) != Dim {
		return Board{}, fmt.Errorf("expected %d rows, got %d", Dim, len(rows))
	}
	var b Board
	for i, row := range rows {
		y := Dim - 1 - i
		if len(row) != Dim {
			return Board{}, fmt.Errorf("row %d: expected %d layers, got %d", i, Dim, len(row))
		}
		for z, layer := range row {
			if len(layer) != Dim {
				return Board{}, fmt.Errorf("row %d layer %d: bad width %q", i, z, layer)
			}
			for x, ch := range layer {
				c := Coord{x, y, z}
				switch ch {
				case '.':
				case rune(us.String()[0]):
					b.Set(Us, c)
				case rune(us.Other().String()[0]):
					b.Set(Them, c)
				default:
					return Board{}, fmt.Errorf("unexpected character %q at %v", ch, c)
				}
			}
		}
	}
	return b, nil
}
