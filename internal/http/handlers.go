package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/colombod/amplifier-bundle-tui-tester/internal/keys"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/monitoring"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/service"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/session"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	manager  *session.Manager
	metrics  *monitoring.Metrics
	log      *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, manager *session.Manager, metrics *monitoring.Metrics, log *zap.Logger) *Handlers {
	return &Handlers{
		registry: registry,
		manager:  manager,
		metrics:  metrics,
		log:      log,
	}
}

// SpawnRequest is the body of POST /sessions.
type SpawnRequest struct {
	Command string            `json:"command" binding:"required"`
	Rows    int               `json:"rows"`
	Cols    int               `json:"cols"`
	Env     map[string]string `json:"env"`
}

// SendKeysRequest is the body of POST /sessions/:id/keys.
type SendKeysRequest struct {
	Keys   string `json:"keys"`
	WaitMs int    `json:"wait_ms"`
}

// ExecuteRequest is the body of POST /services/execute.
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params"`
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "TUI Tester Service (Go)",
		"version": "0.1.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": len(h.manager.List()),
		"services": len(h.registry.List()),
	})
}

// ListServices lists all registered services
func (h *Handlers) ListServices(c *gin.Context) {
	services := h.registry.List()
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"count":    len(services),
	})
}

// ExecuteService executes a service tool by id
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, nil)
	c.JSON(http.StatusOK, result)
}

// SpawnSession creates a new terminal session
func (h *Handlers) SpawnSession(c *gin.Context) {
	var req SpawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defRows, defCols := h.manager.Defaults()
	if req.Rows == 0 {
		req.Rows = defRows
	}
	if req.Cols == 0 {
		req.Cols = defCols
	}

	s, err := h.manager.Spawn(req.Command, req.Rows, req.Cols, req.Env)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.IncSessionsSpawned()
	h.metrics.SetSessionsActive(len(h.manager.List()))

	c.JSON(http.StatusCreated, sessionInfo(s))
}

// ListSessions lists all tracked sessions
func (h *Handlers) ListSessions(c *gin.Context) {
	tracked := h.manager.List()
	sessions := make([]gin.H, 0, len(tracked))
	for _, s := range tracked {
		sessions = append(sessions, sessionInfo(s))
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession returns one session by id
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, sessionInfo(s))
}

// SendKeys sends keystrokes to a session
func (h *Handlers) SendKeys(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	var req SendKeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.WaitMs == 0 {
		req.WaitMs = 100
	}

	data := keys.Encode(req.Keys)
	if err := s.Send(data, time.Duration(req.WaitMs)*time.Millisecond); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.AddKeysSent(len(data))

	c.JSON(http.StatusOK, gin.H{
		"status":        "sent",
		"keys_sent":     len(data),
		"session_alive": s.IsAlive(),
	})
}

// CaptureSession captures the session screen as text and a screenshot
func (h *Handlers) CaptureSession(c *gin.Context) {
	s, ok := h.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	cap, err := s.Capture()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.metrics.IncCaptures()

	c.JSON(http.StatusOK, gin.H{
		"text":          cap.Text,
		"ansi":          cap.ANSI,
		"image_path":    cap.ImagePath,
		"rows":          s.Rows,
		"cols":          s.Cols,
		"session_alive": s.IsAlive(),
	})
}

// CloseSession closes a session and terminates its process
func (h *Handlers) CloseSession(c *gin.Context) {
	id := c.Param("id")
	if !h.manager.Destroy(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.metrics.SetSessionsActive(len(h.manager.List()))

	c.JSON(http.StatusOK, gin.H{
		"status":     "closed",
		"session_id": id,
	})
}

func sessionInfo(s *session.Session) gin.H {
	status := "exited"
	if s.IsAlive() {
		status = "running"
	}
	return gin.H{
		"session_id": s.ID,
		"command":    s.Command,
		"status":     status,
		"rows":       s.Rows,
		"cols":       s.Cols,
		"created_at": s.CreatedAt,
	}
}
