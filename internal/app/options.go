// Package app assembles puzzle sessions from configuration and runs the
// ebiten viewer around them.
package app

import (
	"go.uber.org/zap"

	"mad-puzzle/internal/layout"
)

// QuickSaveName is the layout name the viewer saves to and loads from.
const QuickSaveName = "quicksave"

// Options configure the viewer.
type Options struct {
	Scale          int
	HUDWidth       int
	StepsPerSecond int
	Store          layout.Store
	Logger         *zap.Logger
}

// DefaultOptions returns the viewer defaults.
func DefaultOptions() Options {
	return Options{Scale: 48, HUDWidth: 240, StepsPerSecond: 4}
}
