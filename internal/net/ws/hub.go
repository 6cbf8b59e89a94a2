// Package ws serves a puzzle session to websocket clients: every client sees
// the same board and any client may play it.
package ws

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"mad-puzzle/internal/core"
	"mad-puzzle/internal/layout"
	"mad-puzzle/internal/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub serializes access to one session and fans state out to clients.
type Hub struct {
	mu      sync.Mutex
	session *session.Session
	logger  *zap.Logger

	clients map[string]*client
	changed bool
	outcome *session.Outcome
}

// NewHub wraps s. The hub subscribes to s for change notifications.
func NewHub(s *session.Session, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{session: s, logger: logger, clients: make(map[string]*client)}
	s.Subscribe(func(c session.Change) {
		// Delivered while h.mu is held by the command that caused it.
		h.changed = true
		if c.Outcome != nil {
			out := *c.Outcome
			h.outcome = &out
		}
	})
	return h
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) join(conn *websocket.Conn) (*client, error) {
	c := &client{id: uuid.NewString(), conn: conn}
	h.mu.Lock()
	defer h.mu.Unlock()
	payload, err := h.marshalStateLocked(c.id, nil)
	if err != nil {
		return nil, fmt.Errorf("marshal initial state: %w", err)
	}
	// Written before the client is visible to broadcasts.
	if err := c.write(payload); err != nil {
		return nil, fmt.Errorf("write initial state: %w", err)
	}
	h.clients[c.id] = c
	h.logger.Info("client joined", zap.String("client", c.id))
	return c, nil
}

func (h *Hub) leave(id string) {
	h.mu.Lock()
	_, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		h.logger.Info("client left", zap.String("client", id))
	}
}

// apply runs one client command. Changes go to every client; commands that
// changed nothing are answered only to the sender.
func (h *Hub) apply(from *client, msg clientMessage) {
	h.mu.Lock()
	h.changed = false
	h.outcome = nil
	cmdErr := h.runLocked(msg)
	var (
		payload []byte
		err     error
		targets []*client
	)
	switch {
	case cmdErr != nil:
		payload, err = json.Marshal(errorMessage{Type: "error", Message: cmdErr.Error()})
		targets = []*client{from}
	case h.changed:
		payload, err = h.marshalStateLocked("", h.outcome)
		for _, c := range h.clients {
			targets = append(targets, c)
		}
	default:
		payload, err = h.marshalStateLocked("", h.outcome)
		targets = []*client{from}
	}
	h.mu.Unlock()

	if err != nil {
		h.logger.Error("marshal response", zap.Error(err))
		return
	}
	for _, c := range targets {
		if err := c.write(payload); err != nil {
			h.logger.Debug("write failed", zap.String("client", c.id), zap.Error(err))
			h.leave(c.id)
			_ = c.conn.Close()
		}
	}
}

func (h *Hub) runLocked(msg clientMessage) error {
	switch msg.Type {
	case msgSelect:
		res, err := h.session.Select(core.Coord{X: msg.X, Y: msg.Y})
		if err != nil {
			return err
		}
		if res.Event == session.SelectionRejected {
			return fmt.Errorf("pair not allowed by %s adjacency", h.session.Policy().Mode)
		}
		if res.Event == session.SelectionResolved {
			h.outcome = &res.Outcome
		}
	case msgInteract:
		out, err := h.session.Interact(core.Coord{X: msg.AX, Y: msg.AY}, core.Coord{X: msg.BX, Y: msg.BY})
		if err != nil {
			return err
		}
		if !out.Allowed {
			return fmt.Errorf("pair not allowed by %s adjacency", h.session.Policy().Mode)
		}
		h.outcome = &out
	case msgStep:
		h.session.Step()
	case msgStabilize:
		rep := h.session.RunUntilStable()
		h.outcome = &session.Outcome{Allowed: true, Cascade: rep}
	case msgReset:
		h.session.Reset()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func (h *Hub) marshalStateLocked(clientID string, outcome *session.Outcome) ([]byte, error) {
	l := h.session.Capture()
	if l.Cells == nil {
		l.Cells = []layout.Cell{}
	}
	sel, ok := h.session.Selected()
	msg := stateMessage{
		Type:     "state",
		ClientID: clientID,
		Width:    l.Width,
		Height:   l.Height,
		Cells:    l.Cells,
		Selected: newCoordMessage(sel, ok),
		Outcome:  newOutcomeMessage(outcome),
	}
	return json.Marshal(msg)
}
