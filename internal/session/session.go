// Package session ties a grid, a rule resolver, an adjacency policy and a
// cascade mode together into the interactive puzzle used by the viewer, the
// CLI and the websocket server.
package session

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"mad-puzzle/internal/adjacency"
	"mad-puzzle/internal/core"
	"mad-puzzle/internal/layout"
	"mad-puzzle/internal/rules"
	"mad-puzzle/internal/sim"
)

// Config controls a Session.
type Config struct {
	Width         int
	Height        int
	Adjacency     adjacency.Mode
	Cascade       CascadeMode
	MaxIterations int
}

// DefaultConfig returns an 8x8 board where any pair may interact and every
// interaction settles the board.
func DefaultConfig() Config {
	return Config{
		Width:         8,
		Height:        8,
		Adjacency:     adjacency.Anywhere,
		Cascade:       CascadeStable,
		MaxIterations: sim.DefaultMaxIterations,
	}
}

// ChangeKind names the operation behind a Change.
type ChangeKind string

const (
	ChangeInteraction ChangeKind = "interaction"
	ChangeStep        ChangeKind = "step"
	ChangeReset       ChangeKind = "reset"
	ChangeLayout      ChangeKind = "layout"
	ChangeSelection   ChangeKind = "selection"
)

// Change is delivered to subscribers after the session mutates.
type Change struct {
	Kind    ChangeKind
	Outcome *Outcome
}

// Outcome is the result of an explicit pair interaction.
type Outcome struct {
	A, B    core.Coord
	Allowed bool
	// Applied is set when a rule matched and the pair was rewritten.
	Applied bool
	Cascade Report
}

// Changed reports whether the grid needs redrawing.
func (o Outcome) Changed() bool { return o.Applied || o.Cascade.Changed }

// Session is not safe for concurrent use; callers that share one serialize
// access themselves.
type Session struct {
	cfg      Config
	grid     *core.Grid
	resolver *rules.Resolver
	policy   adjacency.Policy
	stepper  *sim.Stepper
	logger   *zap.Logger

	baseline layout.Layout
	selected core.Coord
	hasSel   bool

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// New builds a session with an empty grid of the configured size.
func New(cfg Config, resolver *rules.Resolver, logger *zap.Logger) (*Session, error) {
	if resolver == nil {
		return nil, errors.New("session: resolver is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = sim.DefaultMaxIterations
	}
	grid, err := core.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s := &Session{
		cfg:      cfg,
		grid:     grid,
		resolver: resolver,
		policy:   adjacency.Policy{Mode: cfg.Adjacency},
		stepper:  sim.NewStepper(resolver),
		logger:   logger,
		subs:     make(map[int]func(Change)),
	}
	s.baseline = layout.Capture(grid)
	return s, nil
}

// Grid exposes the live grid for rendering. Callers must not mutate it.
func (s *Session) Grid() *core.Grid { return s.grid }

// Resolver returns the rule resolver in use.
func (s *Session) Resolver() *rules.Resolver { return s.resolver }

// Config returns the active configuration.
func (s *Session) Config() Config { return s.cfg }

// Policy returns the active adjacency policy.
func (s *Session) Policy() adjacency.Policy { return s.policy }

// SetAdjacency switches the adjacency mode and drops any pending selection.
func (s *Session) SetAdjacency(mode adjacency.Mode) {
	s.cfg.Adjacency = mode
	s.policy = adjacency.Policy{Mode: mode}
	s.clearSelection()
}

// SetCascade switches the cascade mode.
func (s *Session) SetCascade(mode CascadeMode) { s.cfg.Cascade = mode }

// Subscribe registers fn for change notifications. The returned func removes
// the subscription.
func (s *Session) Subscribe(fn func(Change)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) notify(c Change) {
	s.subMu.Lock()
	ids := slices.Sorted(maps.Keys(s.subs))
	fns := make([]func(Change), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
}

// Interact applies the rule for the pair (a, b) and then the configured
// cascade.
func (s *Session) Interact(a, b core.Coord) (Outcome, error) {
	out, err := s.interact(a, b)
	if err != nil {
		return out, err
	}
	if out.Changed() {
		s.notify(Change{Kind: ChangeInteraction, Outcome: &out})
	}
	return out, nil
}

func (s *Session) interact(a, b core.Coord) (Outcome, error) {
	out := Outcome{A: a, B: b, Cascade: Report{Mode: s.cfg.Cascade}}
	slotA, err := s.grid.Get(a.X, a.Y)
	if err != nil {
		return out, fmt.Errorf("interact: %w", err)
	}
	slotB, err := s.grid.Get(b.X, b.Y)
	if err != nil {
		return out, fmt.Errorf("interact: %w", err)
	}
	if !s.policy.IsPairAllowed(a, b) {
		return out, nil
	}
	out.Allowed = true

	newA, newB, ok := s.resolver.Resolve(slotA, slotB)
	if !ok {
		return out, nil
	}
	_ = s.grid.Set(a.X, a.Y, newA)
	_ = s.grid.Set(b.X, b.Y, newB)
	out.Applied = true
	s.logger.Debug("interaction applied",
		zap.Int("ax", a.X), zap.Int("ay", a.Y),
		zap.Int("bx", b.X), zap.Int("by", b.Y),
		zap.Int("typeA", newA.TypeID), zap.Int("levelA", newA.Level),
		zap.Int("typeB", newB.TypeID), zap.Int("levelB", newB.Level))

	out.Cascade = s.cascade(a, b, slotA.TypeID, slotB.TypeID)
	return out, nil
}

func (s *Session) cascade(a, b core.Coord, seedA, seedB int) Report {
	rep := Report{Mode: s.cfg.Cascade}
	switch s.cfg.Cascade {
	case CascadeLocal:
		batch := sim.ApplyLocal(s.grid, s.resolver, s.neighbors, a, b)
		rep.Interactions = len(batch)
		rep.Changed = len(batch) > 0
	case CascadeStable:
		steps, stable := s.stepper.RunUntilStable(s.grid, s.cfg.MaxIterations)
		rep.Steps = steps
		rep.LimitReached = !stable
		rep.Changed = steps > 0
		if !stable {
			s.logger.Info("iteration limit reached", zap.Int("steps", steps))
		}
	case CascadeMatchingPairs:
		rep.Changed = sim.ApplyGlobalMatchingPairs(s.grid, s.resolver, seedA, seedB)
	}
	return rep
}

func (s *Session) neighbors(c core.Coord) iter.Seq[core.Coord] {
	return s.policy.Neighbors(c, s.grid)
}

// Step advances the whole board by one step.
func (s *Session) Step() bool {
	changed := s.stepper.Step(s.grid)
	if changed {
		s.notify(Change{Kind: ChangeStep})
	}
	return changed
}

// RunUntilStable steps the board until it stops changing or the configured
// cap is reached.
func (s *Session) RunUntilStable() Report {
	steps, stable := s.stepper.RunUntilStable(s.grid, s.cfg.MaxIterations)
	rep := Report{Mode: CascadeStable, Steps: steps, LimitReached: !stable, Changed: steps > 0}
	if !stable {
		s.logger.Info("iteration limit reached", zap.Int("steps", steps))
	}
	if rep.Changed {
		s.notify(Change{Kind: ChangeStep})
	}
	return rep
}

// ApplyLayout writes l into the grid and makes it the reset baseline.
func (s *Session) ApplyLayout(l layout.Layout) bool {
	if !l.Apply(s.grid, s.logger) {
		return false
	}
	s.baseline = l
	s.clearSelection()
	s.notify(Change{Kind: ChangeLayout})
	return true
}

// Capture records the current grid.
func (s *Session) Capture() layout.Layout { return layout.Capture(s.grid) }

// Reset restores the last applied layout, or an empty grid.
func (s *Session) Reset() {
	s.baseline.Apply(s.grid, s.logger)
	s.clearSelection()
	s.notify(Change{Kind: ChangeReset})
}
