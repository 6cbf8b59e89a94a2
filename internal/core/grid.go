package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned when a grid is constructed with a
	// non-positive width or height.
	ErrInvalidDimension = errors.New("invalid grid dimension")
	// ErrOutOfBounds is returned for coordinate access outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

// Grid stores a fixed-size 2D grid of tile slots in row-major order.
type Grid struct {
	w, h int
	data []Slot
}

// NewGrid allocates an all-empty grid with the given dimensions.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("new grid %dx%d: %w", w, h, ErrInvalidDimension)
	}
	g := &Grid{w: w, h: h, data: make([]Slot, w*h)}
	g.Clear()
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.w, H: g.h} }

// IsInside reports whether (x, y) addresses a cell of the grid.
func (g *Grid) IsInside(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// Index returns the linear row-major index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.w + x }

// Get returns the slot at (x, y).
func (g *Grid) Get(x, y int) (Slot, error) {
	if !g.IsInside(x, y) {
		return Empty(), fmt.Errorf("get (%d,%d) on %dx%d grid: %w", x, y, g.w, g.h, ErrOutOfBounds)
	}
	return g.data[g.Index(x, y)], nil
}

// Set stores slot at (x, y).
func (g *Grid) Set(x, y int, slot Slot) error {
	if !g.IsInside(x, y) {
		return fmt.Errorf("set (%d,%d) on %dx%d grid: %w", x, y, g.w, g.h, ErrOutOfBounds)
	}
	g.data[g.Index(x, y)] = slot
	return nil
}

// Clear fills the grid with empty slots.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = Empty()
	}
}

// Snapshot returns a row-major copy of every slot.
func (g *Grid) Snapshot() []Slot {
	return append([]Slot(nil), g.data...)
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{w: g.w, h: g.h, data: g.Snapshot()}
}

// Equal reports whether both grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.w != other.w || g.h != other.h {
		return false
	}
	for i := range g.data {
		if g.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// CountType returns how many cells hold a tile of the given type.
func (g *Grid) CountType(typeID int) int {
	n := 0
	for _, s := range g.data {
		if !s.IsEmpty() && s.TypeID == typeID {
			n++
		}
	}
	return n
}
