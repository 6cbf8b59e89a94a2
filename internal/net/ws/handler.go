package ws

import (
	nethttp "net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	Logger *zap.Logger
}

// Handler upgrades HTTP requests and runs the per-client read loop.
type Handler struct {
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs a websocket handler for hub.
func NewHandler(hub *Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}
	return &Handler{hub: hub, logger: logger, upgrader: upgrader}
}

// Handle serves one websocket client until it disconnects.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	c, err := h.hub.join(conn)
	if err != nil {
		h.logger.Warn("join failed", zap.Error(err))
		return
	}
	defer h.hub.leave(c.id)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Warn("discarding malformed message", zap.String("client", c.id), zap.Error(err))
			continue
		}
		h.hub.apply(c, msg)
	}
}
