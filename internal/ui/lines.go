// Package ui draws the viewer's side panel and board overlay.
package ui

import (
	"fmt"
	"strings"

	"mad-puzzle/internal/core"
)

// Lines formats a parameter snapshot as panel text: one header per group
// followed by "Label: value" rows.
func Lines(snapshot core.ParameterSnapshot) []string {
	var lines []string
	for i, g := range snapshot.Groups {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, strings.ToUpper(g.Name))
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %s: %s", p.Label, p.Value))
		}
	}
	return lines
}

// HelpLines lists the viewer key bindings.
func HelpLines() []string {
	return []string{
		"click  select / interact",
		"N      step",
		"S      settle board",
		"space  autoplay",
		"A      cycle adjacency",
		"C      cycle cascade",
		"R      reset",
		"K / L  save / load layout",
		"1      toggle levels",
		"Q      quit",
	}
}
