package render

import (
	"strconv"
	"strings"

	"mad-puzzle/internal/core"
	"mad-puzzle/internal/rules"
)

// Text draws the grid as rows of two-character cells: the first letter of
// the tile type's name and its level, or ". " for empty cells. Row 0 is
// printed first.
func Text(g *core.Grid, reg *rules.Registry) string {
	var b strings.Builder
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			s, _ := g.Get(x, y)
			b.WriteString(cellText(s, reg))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func cellText(s core.Slot, reg *rules.Registry) string {
	if s.IsEmpty() {
		return ". "
	}
	letter := "?"
	if t, ok := reg.Lookup(s.TypeID); ok && t.Name != "" {
		letter = strings.ToUpper(t.Name[:1])
	}
	level := strconv.Itoa(s.Level)
	if s.Level > 9 || s.Level < 0 {
		level = "+"
	}
	return letter + level
}
