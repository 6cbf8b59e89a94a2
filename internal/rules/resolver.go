package rules

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"mad-puzzle/internal/core"
)

// Catalog is the authored input for a resolver: tile types and rules in the
// order they were declared.
type Catalog struct {
	Types []TileType
	Rules []Rule
}

// Resolver decides what two slots become when they interact. It is immutable
// and safe to share between grids.
type Resolver struct {
	registry *Registry
	index    *Index
	problems error
}

// NewResolver builds the registry and rule index from cat. Construction never
// fails: every dropped or unusable entry is logged once and kept in Problems.
func NewResolver(cat Catalog, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg, typeProblems := buildRegistry(cat.Types)
	ix, ruleProblems := buildIndex(reg, cat.Rules)

	var problems error
	for _, p := range append(typeProblems, ruleProblems...) {
		logConfigError(logger, p)
		problems = multierr.Append(problems, p)
	}
	return &Resolver{registry: reg, index: ix, problems: problems}
}

func logConfigError(logger *zap.Logger, p *ConfigError) {
	fields := []zap.Field{
		zap.String("kind", p.Kind),
		zap.Int("index", p.Index),
		zap.Bool("dropped", p.Dropped),
	}
	switch p.Kind {
	case KindDuplicateType, KindInvalidType:
		fields = append(fields, zap.Int("id", p.TypeID))
	default:
		fields = append(fields, zap.Int("keyA", p.KeyA), zap.Int("keyB", p.KeyB))
	}
	logger.Error("catalog: "+p.Reason, fields...)
}

// Registry exposes the tile type registry.
func (r *Resolver) Registry() *Registry { return r.registry }

// Catalog returns the accepted tile types and rules, in declaration order.
func (r *Resolver) Catalog() Catalog {
	return Catalog{Types: r.registry.Types(), Rules: r.index.Rules()}
}

// RuleCount returns the number of usable rule keys.
func (r *Resolver) RuleCount() int { return r.index.Len() }

// Problems returns every catalog problem found at construction, combined with
// multierr, or nil for a clean catalog.
func (r *Resolver) Problems() error { return r.problems }

// Resolve returns the replacement slots for a interacting with b. ok is false
// when either slot is empty, no rule matches, or the matching rule has no
// result type.
func (r *Resolver) Resolve(a, b core.Slot) (newA, newB core.Slot, ok bool) {
	if a.IsEmpty() || b.IsEmpty() {
		return a, b, false
	}
	rule, found := r.index.Lookup(a.TypeID, b.TypeID)
	if !found {
		return a, b, false
	}

	var result core.Slot
	if rule.IsMergeRule && a.TypeID == b.TypeID {
		result = a
		result.Level = mergedLevel(a.Level, rule.LevelDelta, r.registry.MaxLevel(a.TypeID))
	} else {
		// Reported once at build time.
		if rule.ResultType == NoResult {
			return a, b, false
		}
		result = core.Slot{TypeID: rule.ResultType, Level: rule.FixedResultLevel}
	}

	switch rule.Mode {
	case ReplaceFirst:
		return result, core.Empty(), true
	case ReplaceSecond:
		return core.Empty(), result, true
	default:
		return result, result, true
	}
}

func mergedLevel(level, delta, maxLevel int) int {
	if level > maxLevel-delta {
		return maxLevel
	}
	return level + delta
}
