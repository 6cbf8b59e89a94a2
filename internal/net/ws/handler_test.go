package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"mad-puzzle/internal/adjacency"
	"mad-puzzle/internal/layout"
	"mad-puzzle/internal/rules"
	"mad-puzzle/internal/session"
)

const wood = 0

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	cat := rules.Catalog{
		Types: []rules.TileType{{ID: wood, Name: "Wood", MaxLevel: 5, Mergeable: true}},
		Rules: []rules.Rule{{KeyA: wood, KeyB: wood, Unordered: true, IsMergeRule: true, LevelDelta: 1, ResultType: rules.NoResult}},
	}
	cfg := session.Config{Width: 3, Height: 1, Adjacency: adjacency.Orthogonal, Cascade: session.CascadeNone}
	s, err := session.New(cfg, rules.NewResolver(cat, nil), nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	s.ApplyLayout(layout.Layout{Width: 3, Height: 1, Cells: []layout.Cell{
		{X: 0, Y: 0, TypeID: wood, Level: 1},
		{X: 1, Y: 0, TypeID: wood, Level: 1},
	}})
	hub := NewHub(s, nil)
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, HandlerConfig{}).Handle))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) stateMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg stateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("decode %s: %v", payload, err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestInitialState(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv)
	msg := readState(t, conn)
	if msg.Type != "state" || msg.ClientID == "" {
		t.Fatalf("unexpected initial message %+v", msg)
	}
	if msg.Width != 3 || msg.Height != 1 || len(msg.Cells) != 2 || msg.Selected != nil {
		t.Fatalf("unexpected board %+v", msg)
	}
}

func TestInteractBroadcastsState(t *testing.T) {
	hub, srv := newTestServer(t)
	first := dial(t, srv)
	readState(t, first)
	second := dial(t, srv)
	readState(t, second)
	if hub.ClientCount() != 2 {
		t.Fatalf("expected 2 clients, got %d", hub.ClientCount())
	}

	send(t, first, `{"type":"interact","ax":0,"ay":0,"bx":1,"by":0}`)
	for _, conn := range []*websocket.Conn{first, second} {
		msg := readState(t, conn)
		if msg.Outcome == nil || !msg.Outcome.Applied || msg.Outcome.Cascade != "pair" {
			t.Fatalf("unexpected outcome %+v", msg.Outcome)
		}
		for _, c := range msg.Cells {
			if c.Level != 2 {
				t.Fatalf("expected merged cells, got %+v", msg.Cells)
			}
		}
	}
}

func TestSelectSharesAnchor(t *testing.T) {
	_, srv := newTestServer(t)
	first := dial(t, srv)
	readState(t, first)
	second := dial(t, srv)
	readState(t, second)

	send(t, first, `{"type":"select","x":2,"y":0}`)
	msg := readState(t, second)
	if msg.Selected == nil || msg.Selected.X != 2 || msg.Selected.Y != 0 {
		t.Fatalf("expected shared selection, got %+v", msg.Selected)
	}
	readState(t, first)

	send(t, first, `{"type":"select","x":0,"y":0}`)
	msg = readState(t, first)
	if msg.Type != "error" {
		t.Fatalf("expected rejected selection error, got %+v", msg)
	}
}

func TestMalformedAndUnknownMessages(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv)
	readState(t, conn)

	send(t, conn, `{not json`)
	send(t, conn, `{"type":"teleport"}`)
	msg := readState(t, conn)
	if msg.Type != "error" {
		t.Fatalf("expected error for unknown type, got %+v", msg)
	}

	send(t, conn, `{"type":"interact","ax":0,"ay":0,"bx":9,"by":0}`)
	if msg := readState(t, conn); msg.Type != "error" {
		t.Fatalf("expected out of bounds error, got %+v", msg)
	}
}

func TestUnchangedCommandAnswersSender(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv)
	readState(t, conn)

	// (2,0) is empty, so the pair is allowed but nothing matches.
	send(t, conn, `{"type":"interact","ax":1,"ay":0,"bx":2,"by":0}`)
	msg := readState(t, conn)
	if msg.Type != "state" || msg.Outcome == nil || !msg.Outcome.Allowed || msg.Outcome.Changed {
		t.Fatalf("expected unchanged state reply, got %+v", msg)
	}
}
