package session

import (
	"fmt"

	"mad-puzzle/internal/core"
)

// SelectionEvent names what a click did to the selection.
type SelectionEvent int

const (
	// SelectionStarted means the clicked cell became the anchor.
	SelectionStarted SelectionEvent = iota
	// SelectionCleared means the anchor was clicked again and dropped.
	SelectionCleared
	// SelectionRejected means the pair is not allowed; the anchor is kept.
	SelectionRejected
	// SelectionResolved means the pair interacted and the selection was cleared.
	SelectionResolved
)

func (e SelectionEvent) String() string {
	switch e {
	case SelectionStarted:
		return "started"
	case SelectionCleared:
		return "cleared"
	case SelectionRejected:
		return "rejected"
	case SelectionResolved:
		return "resolved"
	}
	return fmt.Sprintf("selection(%d)", int(e))
}

// SelectResult reports a Select call. Outcome is set only for SelectionResolved.
type SelectResult struct {
	Event   SelectionEvent
	Outcome Outcome
}

// Selected returns the anchor cell, if any.
func (s *Session) Selected() (core.Coord, bool) { return s.selected, s.hasSel }

// Select feeds one click into the two-click selection state machine.
func (s *Session) Select(c core.Coord) (SelectResult, error) {
	if !s.grid.IsInside(c.X, c.Y) {
		return SelectResult{}, fmt.Errorf("select (%d,%d): %w", c.X, c.Y, core.ErrOutOfBounds)
	}
	if !s.hasSel {
		s.selected, s.hasSel = c, true
		s.notify(Change{Kind: ChangeSelection})
		return SelectResult{Event: SelectionStarted}, nil
	}
	anchor := s.selected
	if anchor == c {
		s.clearSelection()
		s.notify(Change{Kind: ChangeSelection})
		return SelectResult{Event: SelectionCleared}, nil
	}
	if !s.policy.IsPairAllowed(anchor, c) {
		return SelectResult{Event: SelectionRejected}, nil
	}
	s.clearSelection()
	out, err := s.interact(anchor, c)
	if err != nil {
		return SelectResult{}, err
	}
	s.notify(Change{Kind: ChangeInteraction, Outcome: &out})
	return SelectResult{Event: SelectionResolved, Outcome: out}, nil
}

func (s *Session) clearSelection() {
	s.selected, s.hasSel = core.Coord{}, false
}
