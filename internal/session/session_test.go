package session

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mad-puzzle/internal/adjacency"
	"mad-puzzle/internal/core"
	"mad-puzzle/internal/layout"
	"mad-puzzle/internal/rules"
)

const (
	fire  = 1
	water = 2
	steam = 3
	wood  = 4
)

func testCatalog(rs ...rules.Rule) rules.Catalog {
	return rules.Catalog{
		Types: []rules.TileType{
			{ID: fire, Name: "Fire", MaxLevel: 3},
			{ID: water, Name: "Water", MaxLevel: 3},
			{ID: steam, Name: "Steam", MaxLevel: 3},
			{ID: wood, Name: "Wood", MaxLevel: 4, Mergeable: true},
		},
		Rules: rs,
	}
}

func woodMerge() rules.Rule {
	return rules.Rule{KeyA: wood, KeyB: wood, Unordered: true, IsMergeRule: true, LevelDelta: 1, ResultType: rules.NoResult}
}

func steamRule(mode rules.ResultMode, level int) rules.Rule {
	return rules.Rule{KeyA: fire, KeyB: water, Unordered: true, ResultType: steam, FixedResultLevel: level, Mode: mode}
}

func newSession(t *testing.T, cfg Config, logger *zap.Logger, rs ...rules.Rule) *Session {
	t.Helper()
	s, err := New(cfg, rules.NewResolver(testCatalog(rs...), nil), logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func place(t *testing.T, s *Session, cells map[core.Coord]core.Slot) {
	t.Helper()
	l := layout.Layout{Width: s.Grid().Width(), Height: s.Grid().Height()}
	for c, slot := range cells {
		l.Cells = append(l.Cells, layout.Cell{X: c.X, Y: c.Y, TypeID: slot.TypeID, Level: slot.Level})
	}
	if !s.ApplyLayout(l) {
		t.Fatalf("layout not applied")
	}
}

func at(t *testing.T, s *Session, x, y int) core.Slot {
	t.Helper()
	slot, err := s.Grid().Get(x, y)
	if err != nil {
		t.Fatalf("Get(%d,%d): %v", x, y, err)
	}
	return slot
}

func config(w, h int, adj adjacency.Mode, cascade CascadeMode) Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.Adjacency = adj
	cfg.Cascade = cascade
	return cfg
}

func TestNewValidates(t *testing.T) {
	if _, err := New(DefaultConfig(), nil, nil); err == nil {
		t.Fatal("expected error without resolver")
	}
	_, err := New(Config{Width: 0, Height: 3}, rules.NewResolver(testCatalog(), nil), nil)
	if !errors.Is(err, core.ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestInteractOutOfBounds(t *testing.T) {
	s := newSession(t, config(3, 3, adjacency.Anywhere, CascadeNone), nil)
	_, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 3, Y: 0})
	if !errors.Is(err, core.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestInteractDisallowedPairLeavesGrid(t *testing.T) {
	s := newSession(t, config(3, 3, adjacency.Orthogonal, CascadeNone), nil, woodMerge())
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(wood, 1),
		{X: 1, Y: 1}: core.NewSlot(wood, 1),
	})
	before := s.Grid().Clone()
	out, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if out.Allowed || out.Changed() {
		t.Fatalf("diagonal pair must be rejected in orthogonal mode: %+v", out)
	}
	if !s.Grid().Equal(before) {
		t.Fatal("grid changed")
	}
}

func TestInteractNoRule(t *testing.T) {
	s := newSession(t, config(2, 1, adjacency.Anywhere, CascadeStable), nil)
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(fire, 1),
		{X: 1, Y: 0}: core.NewSlot(wood, 1),
	})
	changes := 0
	s.Subscribe(func(Change) { changes++ })
	out, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if !out.Allowed || out.Applied || out.Changed() {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if changes != 0 {
		t.Fatalf("expected no notifications, got %d", changes)
	}
}

func TestInteractPairOnly(t *testing.T) {
	s := newSession(t, config(3, 1, adjacency.Anywhere, CascadeNone), nil, woodMerge())
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(wood, 1),
		{X: 1, Y: 0}: core.NewSlot(wood, 1),
		{X: 2, Y: 0}: core.NewSlot(wood, 1),
	})
	out, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 2, Y: 0})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if !out.Applied || out.Cascade.Changed {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if at(t, s, 0, 0).Level != 2 || at(t, s, 2, 0).Level != 2 || at(t, s, 1, 0).Level != 1 {
		t.Fatal("only the explicit pair should merge")
	}
}

func TestInteractLocalCascade(t *testing.T) {
	s := newSession(t, config(3, 3, adjacency.Orthogonal, CascadeLocal), nil, woodMerge())
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(wood, 1),
		{X: 1, Y: 0}: core.NewSlot(wood, 1),
		{X: 0, Y: 1}: core.NewSlot(wood, 1),
	})
	out, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if out.Cascade.Interactions != 1 || !out.Cascade.Changed {
		t.Fatalf("expected one local interaction, got %+v", out.Cascade)
	}
	// (0,0) first tries its right neighbor, which is the freshly merged wood.
	if at(t, s, 0, 0).Level != 3 || at(t, s, 1, 0).Level != 3 {
		t.Fatalf("pair should merge again, got %+v %+v", at(t, s, 0, 0), at(t, s, 1, 0))
	}
	if at(t, s, 0, 1).Level != 1 {
		t.Fatal("up neighbor should be untouched")
	}
}

func TestInteractStableCascade(t *testing.T) {
	s := newSession(t, config(4, 3, adjacency.Anywhere, CascadeStable), nil, steamRule(rules.ReplaceFirst, 1))
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(fire, 1),
		{X: 3, Y: 0}: core.NewSlot(water, 1),
		{X: 0, Y: 2}: core.NewSlot(fire, 1),
		{X: 1, Y: 2}: core.NewSlot(water, 1),
	})
	out, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 3, Y: 0})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if out.Cascade.Steps != 1 || out.Cascade.LimitReached || !out.Cascade.Changed {
		t.Fatalf("unexpected report %+v", out.Cascade)
	}
	if s.Grid().CountType(steam) != 2 || s.Grid().CountType(fire) != 0 || s.Grid().CountType(water) != 0 {
		t.Fatal("expected both fire/water pairs to become steam")
	}
}

func TestInteractStableLimitReached(t *testing.T) {
	obs, logs := observer.New(zapcore.InfoLevel)
	cfg := config(3, 2, adjacency.Anywhere, CascadeStable)
	cfg.MaxIterations = 5
	s := newSession(t, cfg, zap.New(obs), woodMerge())
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(wood, 1),
		{X: 2, Y: 0}: core.NewSlot(wood, 1),
		{X: 0, Y: 1}: core.NewSlot(wood, 4),
		{X: 1, Y: 1}: core.NewSlot(wood, 4),
	})
	out, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 2, Y: 0})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if !out.Cascade.LimitReached || out.Cascade.Steps != 5 {
		t.Fatalf("expected limit after 5 steps, got %+v", out.Cascade)
	}
	if logs.FilterMessage("iteration limit reached").Len() != 1 {
		t.Fatal("expected limit to be logged once")
	}
}

func TestInteractMatchingPairsCascade(t *testing.T) {
	s := newSession(t, config(3, 3, adjacency.Anywhere, CascadeMatchingPairs), nil, steamRule(rules.ReplaceBoth, 2))
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(fire, 1),
		{X: 1, Y: 0}: core.NewSlot(water, 1),
		{X: 2, Y: 2}: core.NewSlot(fire, 3),
		{X: 0, Y: 2}: core.NewSlot(water, 2),
		{X: 1, Y: 1}: core.NewSlot(wood, 1),
	})
	out, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0})
	if err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if !out.Cascade.Changed {
		t.Fatalf("expected global rewrite, got %+v", out.Cascade)
	}
	if s.Grid().CountType(steam) != 4 || s.Grid().CountType(wood) != 1 {
		t.Fatal("every fire and water tile should become steam")
	}
	if at(t, s, 2, 2) != core.NewSlot(steam, 2) {
		t.Fatalf("unexpected rewritten slot %+v", at(t, s, 2, 2))
	}
}

func TestSelectStateMachine(t *testing.T) {
	s := newSession(t, config(3, 3, adjacency.Orthogonal, CascadeNone), nil, woodMerge())
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(wood, 1),
		{X: 1, Y: 0}: core.NewSlot(wood, 1),
	})
	a, b, far := core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0}, core.Coord{X: 2, Y: 2}

	steps := []struct {
		click core.Coord
		want  SelectionEvent
	}{
		{a, SelectionStarted},
		{a, SelectionCleared},
		{a, SelectionStarted},
		{far, SelectionRejected},
		{b, SelectionResolved},
	}
	for i, st := range steps {
		res, err := s.Select(st.click)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Event != st.want {
			t.Fatalf("step %d: got %v, want %v", i, res.Event, st.want)
		}
		if st.want == SelectionRejected {
			if anchor, ok := s.Selected(); !ok || anchor != a {
				t.Fatal("rejected click must keep the anchor")
			}
		}
		if st.want == SelectionResolved && !res.Outcome.Applied {
			t.Fatal("expected resolved selection to apply the merge")
		}
	}
	if _, ok := s.Selected(); ok {
		t.Fatal("selection should be cleared after resolving")
	}
	if at(t, s, 0, 0).Level != 2 {
		t.Fatal("expected merged wood")
	}
	if _, err := s.Select(core.Coord{X: -1, Y: 0}); !errors.Is(err, core.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestSubscribeAndCancel(t *testing.T) {
	s := newSession(t, config(2, 1, adjacency.Anywhere, CascadeNone), nil, woodMerge())
	var kinds []ChangeKind
	cancel := s.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(wood, 1),
		{X: 1, Y: 0}: core.NewSlot(wood, 1),
	})
	if _, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0}); err != nil {
		t.Fatalf("Interact: %v", err)
	}
	cancel()
	s.Reset()
	if len(kinds) != 2 || kinds[0] != ChangeLayout || kinds[1] != ChangeInteraction {
		t.Fatalf("unexpected notifications %v", kinds)
	}
}

func TestResetRestoresBaseline(t *testing.T) {
	s := newSession(t, config(2, 1, adjacency.Anywhere, CascadeNone), nil, woodMerge())
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(wood, 1),
		{X: 1, Y: 0}: core.NewSlot(wood, 1),
	})
	baseline := s.Grid().Clone()
	if _, err := s.Interact(core.Coord{X: 0, Y: 0}, core.Coord{X: 1, Y: 0}); err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if s.Grid().Equal(baseline) {
		t.Fatal("interaction should change the grid")
	}
	s.Reset()
	if !s.Grid().Equal(baseline) {
		t.Fatal("reset should restore the applied layout")
	}
}

func TestApplyLayoutMismatchKeepsGrid(t *testing.T) {
	s := newSession(t, config(2, 2, adjacency.Anywhere, CascadeNone), nil)
	if s.ApplyLayout(layout.Layout{Width: 3, Height: 3}) {
		t.Fatal("expected mismatched layout to be rejected")
	}
}

func TestStepAndRunUntilStable(t *testing.T) {
	s := newSession(t, config(2, 2, adjacency.Anywhere, CascadeNone), nil, steamRule(rules.ReplaceBoth, 1))
	place(t, s, map[core.Coord]core.Slot{
		{X: 0, Y: 0}: core.NewSlot(fire, 1),
		{X: 1, Y: 0}: core.NewSlot(water, 1),
	})
	if !s.Step() {
		t.Fatal("expected first step to change the grid")
	}
	if s.Step() {
		t.Fatal("expected second step to be a no-op")
	}
	rep := s.RunUntilStable()
	if rep.Steps != 0 || rep.LimitReached || rep.Changed {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestParameters(t *testing.T) {
	s := newSession(t, config(5, 4, adjacency.OrthogonalAndDiagonal, CascadeMatchingPairs), nil, woodMerge())
	params := s.Parameters()
	checks := map[string]string{
		"w":         "5",
		"h":         "4",
		"adjacency": "orthogonal+diagonal",
		"cascade":   "matching",
		"rules":     "1",
		"types":     "4",
	}
	for key, want := range checks {
		p, ok := params.Lookup(key)
		if !ok || p.Value != want {
			t.Fatalf("param %s = %+v, want %s", key, p, want)
		}
	}
}

func TestParseCascadeMode(t *testing.T) {
	for _, m := range CascadeModes() {
		got, err := ParseCascadeMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseCascadeMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseCascadeMode("sideways"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
