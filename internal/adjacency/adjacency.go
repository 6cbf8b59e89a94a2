// Package adjacency decides which cell pairs may interact and which cells
// count as neighbors for local cascades.
package adjacency

import (
	"fmt"
	"iter"
	"strings"

	"mad-puzzle/internal/core"
)

// Mode enumerates the supported pair constraints.
type Mode int

const (
	// Anywhere allows any two distinct cells.
	Anywhere Mode = iota
	// Orthogonal allows the four edge neighbors.
	Orthogonal
	// OrthogonalAndDiagonal allows all eight surrounding cells.
	OrthogonalAndDiagonal
)

var modeNames = map[Mode]string{
	Anywhere:              "anywhere",
	Orthogonal:            "orthogonal",
	OrthogonalAndDiagonal: "orthogonal+diagonal",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name back into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "anywhere", "any":
		return Anywhere, nil
	case "orthogonal", "ortho", "4":
		return Orthogonal, nil
	case "orthogonal+diagonal", "diagonal", "moore", "8":
		return OrthogonalAndDiagonal, nil
	}
	return Anywhere, fmt.Errorf("unknown adjacency mode %q", s)
}

// Modes lists every mode in declaration order.
func Modes() []Mode { return []Mode{Anywhere, Orthogonal, OrthogonalAndDiagonal} }

// Bounds is satisfied by anything that can answer whether a cell exists.
type Bounds interface {
	IsInside(x, y int) bool
}

// Neighbor offsets; the order is observable by first-match consumers.
var (
	orthogonalOffsets = [4]core.Coord{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	diagonalOffsets   = [4]core.Coord{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// Policy applies one Mode.
type Policy struct {
	Mode Mode
}

// IsPairAllowed reports whether a and b may be selected as an interaction pair.
func (p Policy) IsPairAllowed(a, b core.Coord) bool {
	if a == b {
		return false
	}
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	switch p.Mode {
	case Orthogonal:
		return dx+dy == 1
	case OrthogonalAndDiagonal:
		return max(dx, dy) == 1
	default:
		return true
	}
}

// IncludesDiagonals reports whether Neighbors yields the diagonal cells too.
func (p Policy) IncludesDiagonals() bool {
	return p.Mode == Anywhere || p.Mode == OrthogonalAndDiagonal
}

// Neighbors yields the in-bounds neighbors of center: right, left, up, down,
// then for diagonal modes the four diagonals. The sequence can be iterated
// any number of times.
func (p Policy) Neighbors(center core.Coord, bounds Bounds) iter.Seq[core.Coord] {
	diagonals := p.IncludesDiagonals()
	return func(yield func(core.Coord) bool) {
		if bounds == nil {
			return
		}
		for _, off := range orthogonalOffsets {
			n := center.Add(off.X, off.Y)
			if bounds.IsInside(n.X, n.Y) && !yield(n) {
				return
			}
		}
		if !diagonals {
			return
		}
		for _, off := range diagonalOffsets {
			n := center.Add(off.X, off.Y)
			if bounds.IsInside(n.X, n.Y) && !yield(n) {
				return
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
