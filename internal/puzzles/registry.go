// Package puzzles holds the registry of built-in puzzle presets. Presets
// register themselves from init functions; import them for side effects.
package puzzles

import (
	"slices"
	"strconv"

	"mad-puzzle/internal/layout"
	"mad-puzzle/internal/rules"
	pcore "mad-puzzle/pkg/core"
)

// Preset is a ready-to-play catalog plus a starting layout.
type Preset struct {
	Name        string
	Description string
	Catalog     rules.Catalog
	Layout      layout.Layout
}

// Factory constructs a Preset using an optional configuration map.
type Factory func(cfg map[string]string) Preset

var presets = map[string]Factory{}

// Register adds a preset factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	presets[name] = f
}

// Presets exposes the registry of available preset factories.
func Presets() map[string]Factory {
	return presets
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Board holds the settings every preset understands.
type Board struct {
	Width   int
	Height  int
	Seed    int64
	Density float64
}

// BoardFromMap reads w, h, seed and density over def.
func BoardFromMap(def Board, cfg map[string]string) Board {
	b := def
	if cfg == nil {
		return b
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			b.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			b.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			b.Seed = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			b.Density = parsed
		}
	}
	return b
}

// Scatter fills a w x h layout row by row: each cell is occupied with
// probability density and then given the tile pick returns.
func Scatter(b Board, pick func(rng *pcore.RNG) (typeID, level int)) layout.Layout {
	rng := pcore.NewRNG(b.Seed)
	l := layout.Layout{Width: b.Width, Height: b.Height}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if !rng.Chance(b.Density) {
				continue
			}
			typeID, level := pick(rng)
			l.Cells = append(l.Cells, layout.Cell{X: x, Y: y, TypeID: typeID, Level: level})
		}
	}
	return l
}
