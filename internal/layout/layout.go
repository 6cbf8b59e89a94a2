// Package layout captures grids into a compact persisted form and restores
// them, and provides stores for named layouts.
package layout

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"mad-puzzle/internal/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound is returned by stores when no layout has the requested name.
var ErrNotFound = errors.New("layout not found")

// Cell is one non-empty tile of a layout.
type Cell struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	TypeID int `json:"typeId"`
	Level  int `json:"level"`
}

// Layout is the persisted form of a grid: its size plus every non-empty cell.
type Layout struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

// Capture records every non-empty cell of g in row-major order.
func Capture(g *core.Grid) Layout {
	l := Layout{Width: g.Width(), Height: g.Height()}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			s, err := g.Get(x, y)
			if err != nil || s.IsEmpty() {
				continue
			}
			l.Cells = append(l.Cells, Cell{X: x, Y: y, TypeID: s.TypeID, Level: s.Level})
		}
	}
	return l
}

// Apply clears g and writes the layout's cells into it. A layout whose size
// differs from g is not applied; Apply logs a warning and returns false.
// Cells outside the grid or without a tile type are skipped.
func (l Layout) Apply(g *core.Grid, logger *zap.Logger) bool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if g.Width() != l.Width || g.Height() != l.Height {
		logger.Warn("layout size does not match grid, not applied",
			zap.Int("layoutWidth", l.Width), zap.Int("layoutHeight", l.Height),
			zap.Int("gridWidth", g.Width()), zap.Int("gridHeight", g.Height()))
		return false
	}
	g.Clear()
	for _, c := range l.Cells {
		if c.TypeID < 0 {
			continue
		}
		if err := g.Set(c.X, c.Y, core.NewSlot(c.TypeID, c.Level)); err != nil {
			logger.Debug("layout cell skipped", zap.Error(err))
		}
	}
	return true
}

// Encode serializes a layout as JSON.
func Encode(l Layout) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// Decode parses a JSON layout.
func Decode(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}

// Store persists named layouts.
type Store interface {
	Save(ctx context.Context, name string, l Layout) error
	Load(ctx context.Context, name string) (Layout, error)
	List(ctx context.Context) ([]string, error)
	Close() error
}
