package rules

import "math"

// TileType is the catalog metadata for one kind of tile.
type TileType struct {
	ID        int
	Name      string
	Color     string
	MaxLevel  int
	Mergeable bool
}

// Registry indexes tile types by id. It is immutable once built.
type Registry struct {
	byID  map[int]TileType
	order []int
}

// NewRegistry builds a registry from types in order. Invalid and duplicate
// entries are skipped; use NewResolver to have them reported.
func NewRegistry(types []TileType) *Registry {
	reg, _ := buildRegistry(types)
	return reg
}

func buildRegistry(types []TileType) (*Registry, []*ConfigError) {
	reg := &Registry{byID: make(map[int]TileType, len(types))}
	var problems []*ConfigError
	for i, t := range types {
		if t.ID < 0 {
			problems = append(problems, &ConfigError{Kind: KindInvalidType, Index: i, TypeID: t.ID, Reason: "id must be non-negative", Dropped: true})
			continue
		}
		if t.MaxLevel < 1 {
			problems = append(problems, &ConfigError{Kind: KindInvalidType, Index: i, TypeID: t.ID, Reason: "max level must be at least 1", Dropped: true})
			continue
		}
		if _, ok := reg.byID[t.ID]; ok {
			problems = append(problems, &ConfigError{Kind: KindDuplicateType, Index: i, TypeID: t.ID, Reason: "duplicate tile type id", Dropped: true})
			continue
		}
		reg.byID[t.ID] = t
		reg.order = append(reg.order, t.ID)
	}
	return reg, problems
}

// Lookup returns the tile type registered under id.
func (r *Registry) Lookup(id int) (TileType, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id int) bool {
	_, ok := r.byID[id]
	return ok
}

// MaxLevel returns the level cap for id, or math.MaxInt when unregistered.
func (r *Registry) MaxLevel(id int) int {
	if t, ok := r.byID[id]; ok {
		return t.MaxLevel
	}
	return math.MaxInt
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []TileType {
	out := make([]TileType, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.order) }
