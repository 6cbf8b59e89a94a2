// Package elements is the four-element alchemy preset: base elements merge
// with themselves and combine pairwise into compounds.
package elements

import (
	"mad-puzzle/internal/puzzles"
	"mad-puzzle/internal/rules"
	pcore "mad-puzzle/pkg/core"
)

// Tile type ids.
const (
	Fire = iota
	Water
	Earth
	Air
	Steam
	Mud
	Lava
	Dust
)

var base = []int{Fire, Water, Earth, Air}

// DefaultBoard returns the default board settings.
func DefaultBoard() puzzles.Board {
	return puzzles.Board{Width: 8, Height: 8, Seed: 42, Density: 0.75}
}

// Catalog returns the element tile types and rules.
func Catalog() rules.Catalog {
	return rules.Catalog{
		Types: []rules.TileType{
			{ID: Fire, Name: "Fire", Color: "#e25822", MaxLevel: 3, Mergeable: true},
			{ID: Water, Name: "Water", Color: "#1e90ff", MaxLevel: 3, Mergeable: true},
			{ID: Earth, Name: "Earth", Color: "#8b5a2b", MaxLevel: 3, Mergeable: true},
			{ID: Air, Name: "Air", Color: "#d8e6ee", MaxLevel: 3, Mergeable: true},
			{ID: Steam, Name: "Steam", Color: "#b0b8c0", MaxLevel: 1},
			{ID: Mud, Name: "Mud", Color: "#5c4033", MaxLevel: 1},
			{ID: Lava, Name: "Lava", Color: "#ff4500", MaxLevel: 1},
			{ID: Dust, Name: "Dust", Color: "#c2b280", MaxLevel: 1},
		},
		Rules: []rules.Rule{
			merge(Fire), merge(Water), merge(Earth), merge(Air),
			combine(Fire, Water, Steam),
			combine(Water, Earth, Mud),
			combine(Fire, Earth, Lava),
			combine(Earth, Air, Dust),
			// Air feeds fire.
			{KeyA: Air, KeyB: Fire, Mode: rules.ReplaceSecond, ResultType: Fire, FixedResultLevel: 2},
		},
	}
}

func merge(id int) rules.Rule {
	return rules.Rule{KeyA: id, KeyB: id, Unordered: true, IsMergeRule: true, LevelDelta: 1, ResultType: rules.NoResult}
}

func combine(a, b, result int) rules.Rule {
	return rules.Rule{KeyA: a, KeyB: b, Unordered: true, Mode: rules.ReplaceBoth, ResultType: result, FixedResultLevel: 1}
}

// New builds the preset for a board.
func New(b puzzles.Board) puzzles.Preset {
	return puzzles.Preset{
		Name:        "elements",
		Description: "Fire, water, earth and air merge with their own kind and combine into compounds",
		Catalog:     Catalog(),
		Layout: puzzles.Scatter(b, func(rng *pcore.RNG) (int, int) {
			return pcore.Pick(rng, base), 1
		}),
	}
}

func init() {
	puzzles.Register("elements", func(cfg map[string]string) puzzles.Preset {
		return New(puzzles.BoardFromMap(DefaultBoard(), cfg))
	})
}
