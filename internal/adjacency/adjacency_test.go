package adjacency

import (
	"slices"
	"testing"

	"mad-puzzle/internal/core"
)

func TestIsPairAllowed(t *testing.T) {
	center := core.Coord{X: 2, Y: 2}
	cases := []struct {
		mode  Mode
		other core.Coord
		want  bool
	}{
		{Anywhere, core.Coord{X: 0, Y: 4}, true},
		{Anywhere, center, false},
		{Orthogonal, core.Coord{X: 3, Y: 2}, true},
		{Orthogonal, core.Coord{X: 1, Y: 2}, true},
		{Orthogonal, core.Coord{X: 2, Y: 3}, true},
		{Orthogonal, core.Coord{X: 2, Y: 1}, true},
		{Orthogonal, core.Coord{X: 3, Y: 3}, false},
		{Orthogonal, core.Coord{X: 1, Y: 3}, false},
		{Orthogonal, core.Coord{X: 4, Y: 2}, false},
		{Orthogonal, center, false},
		{OrthogonalAndDiagonal, core.Coord{X: 3, Y: 2}, true},
		{OrthogonalAndDiagonal, core.Coord{X: 3, Y: 3}, true},
		{OrthogonalAndDiagonal, core.Coord{X: 1, Y: 1}, true},
		{OrthogonalAndDiagonal, core.Coord{X: 4, Y: 3}, false},
		{OrthogonalAndDiagonal, center, false},
	}
	for _, tc := range cases {
		if got := (Policy{Mode: tc.mode}).IsPairAllowed(center, tc.other); got != tc.want {
			t.Fatalf("%v: IsPairAllowed(%v,%v)=%v, expected %v", tc.mode, center, tc.other, got, tc.want)
		}
	}
}

func sizedGrid(t *testing.T, w, h int) *core.Grid {
	t.Helper()
	g, err := core.NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestOrthogonalNeighborsOnFiveByFive(t *testing.T) {
	g := sizedGrid(t, 5, 5)
	center := core.Coord{X: 2, Y: 2}
	got := slices.Collect(Policy{Mode: Orthogonal}.Neighbors(center, g))
	if len(got) != 4 {
		t.Fatalf("expected 4 neighbors, got %d: %v", len(got), got)
	}
	for _, n := range got {
		if abs(n.X-center.X)+abs(n.Y-center.Y) != 1 {
			t.Fatalf("neighbor %v is not Manhattan distance 1", n)
		}
		if !g.IsInside(n.X, n.Y) {
			t.Fatalf("neighbor %v out of bounds", n)
		}
	}
}

func TestDiagonalModesYieldEightNeighbors(t *testing.T) {
	g := sizedGrid(t, 5, 5)
	for _, mode := range []Mode{Anywhere, OrthogonalAndDiagonal} {
		got := slices.Collect(Policy{Mode: mode}.Neighbors(core.Coord{X: 2, Y: 2}, g))
		if len(got) != 8 {
			t.Fatalf("%v: expected 8 neighbors, got %d", mode, len(got))
		}
	}
}

func TestNeighborOrderIsFixed(t *testing.T) {
	g := sizedGrid(t, 5, 5)
	got := slices.Collect(Policy{Mode: OrthogonalAndDiagonal}.Neighbors(core.Coord{X: 2, Y: 2}, g))
	want := []core.Coord{
		{X: 3, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 1},
		{X: 3, Y: 3}, {X: 3, Y: 1}, {X: 1, Y: 3}, {X: 1, Y: 1},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected order:\n got %v\nwant %v", got, want)
	}
}

func TestNeighborsSkipOutOfBoundsAndRestart(t *testing.T) {
	g := sizedGrid(t, 3, 3)
	seq := Policy{Mode: OrthogonalAndDiagonal}.Neighbors(core.Coord{X: 0, Y: 0}, g)
	first := slices.Collect(seq)
	want := []core.Coord{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	if !slices.Equal(first, want) {
		t.Fatalf("corner neighbors = %v, expected %v", first, want)
	}
	if second := slices.Collect(seq); !slices.Equal(first, second) {
		t.Fatalf("sequence not restartable: %v then %v", first, second)
	}
}

func TestNeighborsStopsEarly(t *testing.T) {
	g := sizedGrid(t, 5, 5)
	var seen int
	for range (Policy{Mode: Anywhere}).Neighbors(core.Coord{X: 2, Y: 2}, g) {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("expected early stop after 2, saw %d", seen)
	}
}

func TestParseModeRoundTrip(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("hex"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
