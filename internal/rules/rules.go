package rules

import (
	"fmt"
	"strings"

	"mad-puzzle/internal/core"
)

// NoResult marks a rule without a result type.
const NoResult = core.EmptyType

// ResultMode selects which of the two interacting cells receive the result.
type ResultMode int

const (
	// ReplaceBoth writes the result into both cells.
	ReplaceBoth ResultMode = iota
	// ReplaceFirst writes the result into the first cell and empties the second.
	ReplaceFirst
	// ReplaceSecond empties the first cell and writes the result into the second.
	ReplaceSecond
)

var resultModeNames = map[ResultMode]string{
	ReplaceBoth:   "both",
	ReplaceFirst:  "first",
	ReplaceSecond: "second",
}

func (m ResultMode) String() string {
	if name, ok := resultModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ResultMode(%d)", int(m))
}

// ParseResultMode accepts "both", "first" or "second". The empty string maps
// to ReplaceBoth.
func ParseResultMode(s string) (ResultMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "replace_both":
		return ReplaceBoth, nil
	case "first", "replace_first":
		return ReplaceFirst, nil
	case "second", "replace_second":
		return ReplaceSecond, nil
	}
	return ReplaceBoth, fmt.Errorf("unknown result mode %q", s)
}

// Rule is one binary interaction between two tile types.
type Rule struct {
	KeyA      int
	KeyB      int
	Unordered bool
	Mode      ResultMode

	IsMergeRule bool
	LevelDelta  int

	ResultType       int
	FixedResultLevel int
}

// merges reports whether the rule can take the same-type merge path.
func (r Rule) merges() bool { return r.IsMergeRule && r.KeyA == r.KeyB }

// needsResult reports whether the rule can take the combination path.
func (r Rule) needsResult() bool { return !r.merges() }

type pairKey struct{ a, b int }

func (r Rule) key() pairKey {
	if r.Unordered && r.KeyB < r.KeyA {
		return pairKey{a: r.KeyB, b: r.KeyA}
	}
	return pairKey{a: r.KeyA, b: r.KeyB}
}

// Index maps canonical type-id pairs to rules.
type Index struct {
	rules map[pairKey]Rule
	order []pairKey
}

func buildIndex(reg *Registry, rules []Rule) (*Index, []*ConfigError) {
	ix := &Index{rules: make(map[pairKey]Rule, len(rules))}
	var problems []*ConfigError
	for i, r := range rules {
		report := func(kind, reason string, dropped bool) {
			problems = append(problems, &ConfigError{Kind: kind, Index: i, KeyA: r.KeyA, KeyB: r.KeyB, Reason: reason, Dropped: dropped})
		}
		if !reg.Has(r.KeyA) || !reg.Has(r.KeyB) {
			report(KindUnknownType, "rule references an unregistered tile type", true)
			continue
		}
		if r.ResultType != NoResult && !reg.Has(r.ResultType) {
			report(KindUnknownType, fmt.Sprintf("result type %d is not registered", r.ResultType), true)
			continue
		}
		if _, ok := resultModeNames[r.Mode]; !ok {
			report(KindInvalidRule, fmt.Sprintf("unknown result mode %d", int(r.Mode)), true)
			continue
		}
		if r.merges() && r.LevelDelta < 1 {
			report(KindInvalidRule, "level delta must be at least 1", true)
			continue
		}
		if r.needsResult() && r.ResultType != NoResult && r.FixedResultLevel < 1 {
			report(KindInvalidRule, "fixed result level must be at least 1", true)
			continue
		}
		k := r.key()
		if _, dup := ix.rules[k]; dup {
			report(KindDuplicateRule, fmt.Sprintf("duplicate rule for pair (%d,%d)", k.a, k.b), true)
			continue
		}
		if r.needsResult() && r.ResultType == NoResult {
			report(KindMissingResult, "combination rule has no result type", false)
		}
		ix.rules[k] = r
		ix.order = append(ix.order, k)
	}
	return ix, problems
}

// Lookup finds the rule for (a, b), retrying with the swapped order.
func (ix *Index) Lookup(a, b int) (Rule, bool) {
	if r, ok := ix.rules[pairKey{a: a, b: b}]; ok {
		return r, true
	}
	r, ok := ix.rules[pairKey{a: b, b: a}]
	return r, ok
}

// Rules returns the indexed rules in declaration order.
func (ix *Index) Rules() []Rule {
	out := make([]Rule, 0, len(ix.order))
	for _, k := range ix.order {
		out = append(out, ix.rules[k])
	}
	return out
}

// Len returns the number of indexed rules.
func (ix *Index) Len() int { return len(ix.rules) }
