package sim

import (
	"iter"

	"mad-puzzle/internal/core"
)

// ApplyGlobalMatchingPairs resolves a synthetic seedA+seedB pair and rewrites,
// in one row-major sweep, every tile of type seedA to the first result and
// every tile of type seedB to the second. Rewritten cells are not revisited,
// so results never chain within a call. It reports whether any cell changed.
func ApplyGlobalMatchingPairs(g *core.Grid, r Resolver, seedA, seedB int) bool {
	if g == nil || r == nil {
		return false
	}
	resultA, resultB, ok := r.Resolve(core.Slot{TypeID: seedA}, core.Slot{TypeID: seedB})
	if !ok {
		return false
	}

	changed := false
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			cell, err := g.Get(x, y)
			if err != nil || cell.IsEmpty() {
				continue
			}
			var next core.Slot
			switch cell.TypeID {
			case seedA:
				next = resultA
			case seedB:
				next = resultB
			default:
				continue
			}
			if next != cell {
				changed = true
			}
			_ = g.Set(x, y, next)
		}
	}
	return changed
}

// ApplyLocal runs one step-style pass restricted to the given centers: for
// each center in order, its neighbors are tried in policy order and the first
// pair that resolves is recorded. Reads come from the grid as it was before
// the pass, no cell takes part in two interactions, and the batch is applied
// at the end. It returns the applied batch.
func ApplyLocal(g *core.Grid, r Resolver, neighbors func(core.Coord) iter.Seq[core.Coord], centers ...core.Coord) []Interaction {
	if g == nil || r == nil || neighbors == nil {
		return nil
	}
	w := g.Width()
	cells := g.Snapshot()
	used := make([]bool, len(cells))

	var batch []Interaction
	for _, c := range centers {
		if !g.IsInside(c.X, c.Y) {
			continue
		}
		idx := c.Y*w + c.X
		if used[idx] || cells[idx].IsEmpty() {
			continue
		}
		for n := range neighbors(c) {
			if !g.IsInside(n.X, n.Y) {
				continue
			}
			nIdx := n.Y*w + n.X
			if nIdx == idx || used[nIdx] || cells[nIdx].IsEmpty() {
				continue
			}
			newA, newB, ok := r.Resolve(cells[idx], cells[nIdx])
			if !ok {
				continue
			}
			used[idx] = true
			used[nIdx] = true
			batch = append(batch, Interaction{A: c, B: n, NewA: newA, NewB: newB})
			break
		}
	}
	Apply(g, batch)
	return batch
}
