package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/relato-crm/relato/internal/events"
	"github.com/relato-crm/relato/internal/middleware"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// EventsHandler upgrades GET /v1/events to a websocket and streams the
// authenticated owner's mutation events. The socket is write-only from the
// server's side; the read loop exists to notice the client going away.
type EventsHandler struct {
	hub      *events.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewEventsHandler(hub *events.Hub, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The token already authenticated the request; browser origin
			// checks add nothing for a bearer-token API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream handles GET /v1/events
func (h *EventsHandler) Stream(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ch, cancel := h.hub.Subscribe(ownerID)
	defer cancel()
	defer conn.Close()

	// Reader goroutine: we never expect client frames, but reading is how
	// gorilla surfaces close frames and dead peers.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
