package ws

import (
	"mad-puzzle/internal/core"
	"mad-puzzle/internal/layout"
	"mad-puzzle/internal/session"
)

// Client message types.
const (
	msgSelect    = "select"
	msgInteract  = "interact"
	msgStep      = "step"
	msgStabilize = "stabilize"
	msgReset     = "reset"
)

type clientMessage struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	AX   int    `json:"ax"`
	AY   int    `json:"ay"`
	BX   int    `json:"bx"`
	BY   int    `json:"by"`
}

type coordMessage struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type outcomeMessage struct {
	Allowed      bool   `json:"allowed"`
	Applied      bool   `json:"applied"`
	Cascade      string `json:"cascade"`
	Steps        int    `json:"steps,omitempty"`
	LimitReached bool   `json:"limitReached,omitempty"`
	Interactions int    `json:"interactions,omitempty"`
	Changed      bool   `json:"changed"`
}

type stateMessage struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Cells    []layout.Cell   `json:"cells"`
	Selected *coordMessage   `json:"selected,omitempty"`
	Outcome  *outcomeMessage `json:"outcome,omitempty"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newOutcomeMessage(o *session.Outcome) *outcomeMessage {
	if o == nil {
		return nil
	}
	return &outcomeMessage{
		Allowed:      o.Allowed,
		Applied:      o.Applied,
		Cascade:      o.Cascade.Mode.String(),
		Steps:        o.Cascade.Steps,
		LimitReached: o.Cascade.LimitReached,
		Interactions: o.Cascade.Interactions,
		Changed:      o.Changed(),
	}
}

func newCoordMessage(c core.Coord, ok bool) *coordMessage {
	if !ok {
		return nil
	}
	return &coordMessage{X: c.X, Y: c.Y}
}
