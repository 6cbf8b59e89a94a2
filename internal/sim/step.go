// Package sim advances a puzzle grid by applying interaction rules: the
// deterministic full-board step, the bounded run to stability, the local
// neighbor pass and the global matching-pairs sweep.
package sim

import (
	"mad-puzzle/internal/core"
)

// DefaultMaxIterations caps RunUntilStable when callers pass a non-positive
// limit.
const DefaultMaxIterations = 64

// Resolver turns two interacting slots into their replacements.
type Resolver interface {
	Resolve(a, b core.Slot) (newA, newB core.Slot, ok bool)
}

// Interaction is one pending replacement of a cell pair.
type Interaction struct {
	A, B       core.Coord
	NewA, NewB core.Slot
}

// stepOffsets are the candidate partners of each scanned cell: right, then up.
var stepOffsets = [2]core.Coord{{X: 1, Y: 0}, {X: 0, Y: 1}}

// Stepper performs deterministic single-step scans.
type Stepper struct {
	resolver Resolver
}

// NewStepper returns a Stepper using resolver.
func NewStepper(resolver Resolver) *Stepper {
	return &Stepper{resolver: resolver}
}

// Plan scans the grid row by row and returns the non-conflicting batch of
// interactions one step would apply. The grid is not modified.
func (s *Stepper) Plan(g *core.Grid) []Interaction {
	if s == nil || s.resolver == nil || g == nil {
		return nil
	}
	w, h := g.Width(), g.Height()
	cells := g.Snapshot()
	used := make([]bool, len(cells))

	var batch []Interaction
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if used[idx] || cells[idx].IsEmpty() {
				continue
			}
			for _, off := range stepOffsets {
				nx, ny := x+off.X, y+off.Y
				if !g.IsInside(nx, ny) {
					continue
				}
				nIdx := ny*w + nx
				if used[nIdx] || cells[nIdx].IsEmpty() {
					continue
				}
				newA, newB, ok := s.resolver.Resolve(cells[idx], cells[nIdx])
				if !ok {
					continue
				}
				used[idx] = true
				used[nIdx] = true
				batch = append(batch, Interaction{
					A: core.Coord{X: x, Y: y}, B: core.Coord{X: nx, Y: ny},
					NewA: newA, NewB: newB,
				})
				break
			}
		}
	}
	return batch
}

// Step applies one planned batch and reports whether anything was recorded.
func (s *Stepper) Step(g *core.Grid) bool {
	batch := s.Plan(g)
	if len(batch) == 0 {
		return false
	}
	Apply(g, batch)
	return true
}

// RunUntilStable steps until a step records nothing or maxSteps steps have
// run. It returns the number of changing steps and whether a fixed point was
// reached; stable is false only when the limit was hit.
func (s *Stepper) RunUntilStable(g *core.Grid, maxSteps int) (steps int, stable bool) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxIterations
	}
	for steps < maxSteps {
		if !s.Step(g) {
			return steps, true
		}
		steps++
	}
	return steps, false
}

// Apply writes every interaction of batch into g. Batches produced by Plan
// never share a coordinate, so order does not matter for them.
func Apply(g *core.Grid, batch []Interaction) {
	for _, in := range batch {
		// Plan only records in-bounds coordinates.
		_ = g.Set(in.A.X, in.A.Y, in.NewA)
		_ = g.Set(in.B.X, in.B.Y, in.NewB)
	}
}
