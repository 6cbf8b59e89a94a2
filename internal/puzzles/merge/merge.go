// Package merge is the number-merging preset: equal tiles fuse and climb one
// level, stones block the board.
package merge

import (
	"strconv"

	"mad-puzzle/internal/puzzles"
	"mad-puzzle/internal/rules"
	pcore "mad-puzzle/pkg/core"
)

// Tile type ids.
const (
	Tile = iota
	Stone
)

// Config controls the merge preset.
type Config struct {
	Board      puzzles.Board
	MaxLevel   int
	StoneRatio float64
}

// DefaultConfig returns the default merge preset settings.
func DefaultConfig() Config {
	return Config{
		Board:      puzzles.Board{Width: 6, Height: 6, Seed: 7, Density: 0.6},
		MaxLevel:   11,
		StoneRatio: 0.1,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	c.Board = puzzles.BoardFromMap(c.Board, cfg)
	if cfg == nil {
		return c
	}
	if v, ok := cfg["max_level"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.MaxLevel = parsed
		}
	}
	if v, ok := cfg["stone_ratio"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.StoneRatio = parsed
		}
	}
	return c
}

// Catalog returns the merge tile types and rules.
func Catalog(maxLevel int) rules.Catalog {
	return rules.Catalog{
		Types: []rules.TileType{
			{ID: Tile, Name: "Tile", Color: "#edc22e", MaxLevel: maxLevel, Mergeable: true},
			{ID: Stone, Name: "Stone", Color: "#6e6e6e", MaxLevel: 1},
		},
		Rules: []rules.Rule{
			{KeyA: Tile, KeyB: Tile, Unordered: true, IsMergeRule: true, LevelDelta: 1, ResultType: rules.NoResult},
		},
	}
}

// New builds the preset.
func New(c Config) puzzles.Preset {
	return puzzles.Preset{
		Name:        "merge",
		Description: "Equal tiles merge and climb one level; stones never move",
		Catalog:     Catalog(c.MaxLevel),
		Layout: puzzles.Scatter(c.Board, func(rng *pcore.RNG) (int, int) {
			if rng.Chance(c.StoneRatio) {
				return Stone, 1
			}
			return Tile, 1 + rng.IntN(2)
		}),
	}
}

func init() {
	puzzles.Register("merge", func(cfg map[string]string) puzzles.Preset {
		return New(FromMap(cfg))
	})
}
