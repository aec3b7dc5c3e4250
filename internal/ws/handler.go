package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/colombod/amplifier-bundle-tui-tester/internal/monitoring"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/session"
)

const (
	pumpWindow   = 250 * time.Millisecond
	pollInterval = 50 * time.Millisecond
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler streams live terminal output over WebSocket connections.
type Handler struct {
	manager *session.Manager
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(manager *session.Manager, metrics *monitoring.Metrics, log *zap.Logger) *Handler {
	return &Handler{
		manager: manager,
		metrics: metrics,
		log:     log,
	}
}

// HandleStream upgrades GET /sessions/:id/stream and forwards terminal
// output to the client until the session exits or the client leaves.
func (h *Handler) HandleStream(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()
	h.log.Info("stream opened", zap.String("session_id", s.ID))

	// Reader goroutine: detect client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.send(conn, map[string]interface{}{
		"type":       "connected",
		"session_id": s.ID,
	})

	for {
		select {
		case <-done:
			return
		default:
		}

		chunk := s.PumpOutput(pumpWindow, pollInterval)
		if len(chunk) > 0 {
			msg := map[string]interface{}{
				"type":      "output",
				"data":      strings.ToValidUTF8(string(chunk), "�"),
				"timestamp": time.Now().Unix(),
			}
			if err := h.send(conn, msg); err != nil {
				return
			}
			continue
		}

		if !s.IsAlive() {
			h.send(conn, map[string]interface{}{
				"type":       "exited",
				"session_id": s.ID,
				"timestamp":  time.Now().Unix(),
			})
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, data interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(data)
}
