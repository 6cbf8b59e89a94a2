package session

import (
	"fmt"
	"strings"
)

// CascadeMode selects what happens after an explicit pair interaction.
type CascadeMode int

const (
	// CascadeNone applies the pair and nothing else.
	CascadeNone CascadeMode = iota
	// CascadeLocal runs one neighbor pass around both interacted cells.
	CascadeLocal
	// CascadeStable steps the whole board until it stops changing.
	CascadeStable
	// CascadeMatchingPairs rewrites every cell matching the original pair types.
	CascadeMatchingPairs
)

var cascadeNames = map[CascadeMode]string{
	CascadeNone:          "pair",
	CascadeLocal:         "neighbors",
	CascadeStable:        "stable",
	CascadeMatchingPairs: "matching",
}

func (m CascadeMode) String() string {
	if name, ok := cascadeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("cascade(%d)", int(m))
}

// ParseCascadeMode maps a configuration name to a CascadeMode.
func ParseCascadeMode(s string) (CascadeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pair", "none", "pair-only":
		return CascadeNone, nil
	case "neighbors", "local":
		return CascadeLocal, nil
	case "", "stable", "until-stable":
		return CascadeStable, nil
	case "matching", "matching-pairs", "global":
		return CascadeMatchingPairs, nil
	}
	return CascadeNone, fmt.Errorf("unknown cascade mode %q", s)
}

// CascadeModes lists every mode in cycling order.
func CascadeModes() []CascadeMode {
	return []CascadeMode{CascadeNone, CascadeLocal, CascadeStable, CascadeMatchingPairs}
}

// Report describes what the cascade after an interaction did.
type Report struct {
	Mode CascadeMode
	// Steps counts board steps that changed something (CascadeStable only).
	Steps int
	// LimitReached is set when CascadeStable hit its iteration cap.
	LimitReached bool
	// Interactions counts pairs rewritten by CascadeLocal.
	Interactions int
	Changed      bool
}
