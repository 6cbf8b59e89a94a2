// Package render turns puzzle grids into pixels.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"mad-puzzle/internal/rules"
)

// Background is the color of empty cells.
var Background = color.RGBA{R: 24, G: 24, B: 28, A: 255}

// fallback colors for tile types without a valid catalog color, by id.
var fallback = []color.RGBA{
	{R: 230, G: 90, B: 60, A: 255},
	{R: 70, G: 140, B: 230, A: 255},
	{R: 120, G: 190, B: 80, A: 255},
	{R: 230, G: 200, B: 70, A: 255},
	{R: 170, G: 100, B: 210, A: 255},
	{R: 90, G: 200, B: 200, A: 255},
}

// ParseHexColor parses "#rrggbb" or "rrggbb".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Palette maps tile types to base colors and shades them by level.
type Palette struct {
	colors   map[int]color.RGBA
	maxLevel map[int]int
}

// NewPalette builds a palette from the registry's tile types.
func NewPalette(reg *rules.Registry) Palette {
	p := Palette{colors: map[int]color.RGBA{}, maxLevel: map[int]int{}}
	if reg == nil {
		return p
	}
	for _, t := range reg.Types() {
		c, err := ParseHexColor(t.Color)
		if err != nil {
			c = fallback[t.ID%len(fallback)]
		}
		p.colors[t.ID] = c
		p.maxLevel[t.ID] = t.MaxLevel
	}
	return p
}

// Color returns the display color for a tile. Higher levels are drawn
// brighter; empty and unknown tiles use Background.
func (p Palette) Color(typeID, level int) color.RGBA {
	base, ok := p.colors[typeID]
	if !ok {
		return Background
	}
	return Shade(base, level, p.maxLevel[typeID])
}

// Shade darkens base for low levels: level 1 gets 55% brightness and
// maxLevel the full color. Single-level types are left unchanged.
func Shade(base color.RGBA, level, maxLevel int) color.RGBA {
	if maxLevel <= 1 {
		return base
	}
	level = max(1, min(level, maxLevel))
	pct := 55 + 45*(level-1)/(maxLevel-1)
	scale := func(v uint8) uint8 { return uint8(int(v) * pct / 100) }
	return color.RGBA{R: scale(base.R), G: scale(base.G), B: scale(base.B), A: base.A}
}
