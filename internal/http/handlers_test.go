package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colombod/amplifier-bundle-tui-tester/internal/monitoring"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/providers/tui"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/service"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/session"
	"go.uber.org/zap"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := session.NewManager(session.Options{
		BaseDir:     t.TempDir(),
		SettleDelay: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	registry := service.NewRegistry()
	require.NoError(t, registry.Register(tui.NewProvider(manager)))

	h := NewHandlers(registry, manager, monitoring.NewMetrics(), zap.NewNop())

	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/services", h.ListServices)
	router.POST("/services/execute", h.ExecuteService)
	router.POST("/sessions", h.SpawnSession)
	router.GET("/sessions", h.ListSessions)
	router.GET("/sessions/:id", h.GetSession)
	router.POST("/sessions/:id/keys", h.SendKeys)
	router.POST("/sessions/:id/capture", h.CaptureSession)
	router.DELETE("/sessions/:id", h.CloseSession)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestRootAndHealth(t *testing.T) {
	router := setupTestServer(t)

	w, body := doJSON(t, router, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", body["status"])

	w, body = doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(1), body["services"])
}

func TestSessionLifecycle(t *testing.T) {
	router := setupTestServer(t)

	w, body := doJSON(t, router, "POST", "/sessions", gin.H{"command": "cat"})
	require.Equal(t, http.StatusCreated, w.Code)
	sid := body["session_id"].(string)
	require.NotEmpty(t, sid)
	assert.Equal(t, float64(24), body["rows"])
	assert.Equal(t, float64(80), body["cols"])
	assert.Equal(t, "running", body["status"])

	w, body = doJSON(t, router, "GET", "/sessions/"+sid, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cat", body["command"])

	w, body = doJSON(t, router, "POST", "/sessions/"+sid+"/keys", gin.H{
		"keys":    "hi{ENTER}",
		"wait_ms": 200,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["keys_sent"])

	w, body = doJSON(t, router, "POST", "/sessions/"+sid+"/capture", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body["text"].(string), "hi")
	assert.NotEmpty(t, body["image_path"])

	w, body = doJSON(t, router, "DELETE", "/sessions/"+sid, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "closed", body["status"])

	w, _ = doJSON(t, router, "GET", "/sessions/"+sid, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpawnValidation(t *testing.T) {
	router := setupTestServer(t)

	w, _ := doJSON(t, router, "POST", "/sessions", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, "POST", "/sessions", gin.H{"command": "cat", "rows": -1})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUnknownSessionRoutes(t *testing.T) {
	router := setupTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/sessions/sess_missing", nil},
		{"POST", "/sessions/sess_missing/keys", gin.H{"keys": "x"}},
		{"POST", "/sessions/sess_missing/capture", nil},
		{"DELETE", "/sessions/sess_missing", nil},
	} {
		w, _ := doJSON(t, router, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestExecuteServiceRoute(t *testing.T) {
	router := setupTestServer(t)

	w, body := doJSON(t, router, "POST", "/services/execute", gin.H{
		"tool_id": "tui.list",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	w, body = doJSON(t, router, "POST", "/services/execute", gin.H{
		"tool_id": "ghost.op",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["success"])

	w, _ = doJSON(t, router, "POST", "/services/execute", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListServices(t *testing.T) {
	router := setupTestServer(t)

	w, body := doJSON(t, router, "GET", "/services", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
}
