package rules

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks catalog entries that were dropped or cannot be used.
var ErrConfiguration = errors.New("configuration error")

// Problem kinds reported while building a catalog.
const (
	KindDuplicateType = "duplicate_type"
	KindInvalidType   = "invalid_type"
	KindDuplicateRule = "duplicate_rule"
	KindUnknownType   = "unknown_type"
	KindInvalidRule   = "invalid_rule"
	KindMissingResult = "missing_result_type"
)

// ConfigError describes one catalog problem. Index is the position of the
// offending record in its input list. Dropped is false only for entries that
// stay in the catalog but can never resolve.
type ConfigError struct {
	Kind    string
	Index   int
	TypeID  int
	KeyA    int
	KeyB    int
	Reason  string
	Dropped bool
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case KindDuplicateType, KindInvalidType:
		return fmt.Sprintf("tile type #%d (id %d): %s", e.Index, e.TypeID, e.Reason)
	default:
		return fmt.Sprintf("rule #%d (%d,%d): %s", e.Index, e.KeyA, e.KeyB, e.Reason)
	}
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigError) Unwrap() error { return ErrConfiguration }
