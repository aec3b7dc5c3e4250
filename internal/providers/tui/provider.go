package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/colombod/amplifier-bundle-tui-tester/internal/keys"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/session"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/shared/types"
)

const (
	// ServiceID prefixes every tool id exposed by this provider.
	ServiceID = "tui"

	defaultWaitMs = 100
)

// Provider implements the TUI terminal testing operations on top of the
// session registry.
type Provider struct {
	manager *session.Manager
}

// NewProvider creates a provider backed by the given session manager.
func NewProvider(manager *session.Manager) *Provider {
	return &Provider{manager: manager}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          ServiceID,
		Name:        "TUI Terminal Tester",
		Description: "Test TUI applications by spawning terminal sessions, sending keystrokes, and capturing screenshots",
		Category:    types.CategoryTerminal,
		Capabilities: []string{
			"pty",
			"keystrokes",
			"screenshots",
			"sessions",
		},
		Tools: p.tools(),
	}
}

// Execute routes to the appropriate operation. Caller input errors and
// unexpected failures alike come back as failed results; Execute never
// returns a non-nil error.
func (p *Provider) Execute(_ context.Context, toolID string, params map[string]interface{}, _ *types.Context) (*types.Result, error) {
	switch toolID {
	case "tui.spawn":
		return p.spawn(params), nil
	case "tui.send_keys":
		return p.sendKeys(params), nil
	case "tui.capture":
		return p.capture(params), nil
	case "tui.close":
		return p.close(params), nil
	case "tui.list":
		return p.list(), nil
	default:
		return types.Failure(fmt.Sprintf("Unknown operation: %s", toolID)), nil
	}
}

func (p *Provider) spawn(params map[string]interface{}) *types.Result {
	command := stringParam(params, "command")
	if command == "" {
		return types.Failure("Missing required parameter: command")
	}
	defRows, defCols := p.manager.Defaults()
	rows := intParam(params, "rows", defRows)
	cols := intParam(params, "cols", defCols)
	env := envParam(params)

	s, err := p.manager.Spawn(command, rows, cols, env)
	if err != nil {
		return types.Failure(fmt.Sprintf("Operation spawn failed: %v", err))
	}

	return types.OK(map[string]interface{}{
		"session_id": s.ID,
		"status":     status(s),
		"rows":       s.Rows,
		"cols":       s.Cols,
		"command":    s.Command,
	})
}

func (p *Provider) sendKeys(params map[string]interface{}) *types.Result {
	s, fail := p.lookup(params)
	if fail != nil {
		return fail
	}
	input := stringParam(params, "keys")
	wait := time.Duration(intParam(params, "wait_ms", defaultWaitMs)) * time.Millisecond

	data := keys.Encode(input)
	if err := s.Send(data, wait); err != nil {
		return types.Failure(fmt.Sprintf("Operation send_keys failed: %v", err))
	}

	return types.OK(map[string]interface{}{
		"status":        "sent",
		"keys_sent":     len(data),
		"session_alive": s.IsAlive(),
	})
}

func (p *Provider) capture(params map[string]interface{}) *types.Result {
	s, fail := p.lookup(params)
	if fail != nil {
		return fail
	}

	cap, err := s.Capture()
	if err != nil {
		return types.Failure(fmt.Sprintf("Operation capture failed: %v", err))
	}

	return types.OK(map[string]interface{}{
		"text":          cap.Text,
		"ansi":          cap.ANSI,
		"image_path":    cap.ImagePath,
		"rows":          s.Rows,
		"cols":          s.Cols,
		"session_alive": s.IsAlive(),
	})
}

func (p *Provider) close(params map[string]interface{}) *types.Result {
	sessionID := stringParam(params, "session_id")
	if sessionID == "" {
		return types.Failure("Missing required parameter: session_id")
	}
	if !p.manager.Destroy(sessionID) {
		return types.Failure(fmt.Sprintf("Session not found: %s", sessionID))
	}
	return types.OK(map[string]interface{}{
		"status":     "closed",
		"session_id": sessionID,
	})
}

func (p *Provider) list() *types.Result {
	tracked := p.manager.List()
	sessions := make([]map[string]interface{}, 0, len(tracked))
	for _, s := range tracked {
		sessions = append(sessions, map[string]interface{}{
			"session_id": s.ID,
			"command":    s.Command,
			"status":     status(s),
			"rows":       s.Rows,
			"cols":       s.Cols,
			"created_at": s.CreatedAt,
		})
	}
	return types.OK(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// lookup resolves the session_id parameter, returning a failed result for
// a missing parameter or unknown session.
func (p *Provider) lookup(params map[string]interface{}) (*session.Session, *types.Result) {
	sessionID := stringParam(params, "session_id")
	if sessionID == "" {
		return nil, types.Failure("Missing required parameter: session_id")
	}
	s, ok := p.manager.Get(sessionID)
	if !ok {
		return nil, types.Failure(fmt.Sprintf("Session not found: %s", sessionID))
	}
	return s, nil
}

func status(s *session.Session) string {
	if s.IsAlive() {
		return "running"
	}
	return "exited"
}

func stringParam(params map[string]interface{}, key string) string {
	v, _ := params[key].(string)
	return v
}

// intParam accepts JSON numbers (float64) and native ints.
func intParam(params map[string]interface{}, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func envParam(params map[string]interface{}) map[string]string {
	env := make(map[string]string)
	if m, ok := params["env"].(map[string]interface{}); ok {
		for k, v := range m {
			if s, ok := v.(string); ok {
				env[k] = s
			}
		}
	}
	return env
}

func (p *Provider) tools() []types.Tool {
	return []types.Tool{
		{
			ID:          "tui.spawn",
			Name:        "Spawn TUI Session",
			Description: "Start a TUI application in a new pseudo-terminal session",
			Parameters: []types.Parameter{
				{Name: "command", Type: "string", Description: "Shell command to run", Required: true},
				{Name: "rows", Type: "number", Description: "Terminal height in rows. Uses the configured default when omitted", Required: false},
				{Name: "cols", Type: "number", Description: "Terminal width in columns. Uses the configured default when omitted", Required: false},
				{Name: "env", Type: "object", Description: "Additional environment variables", Required: false},
			},
			Returns: "session_info",
		},
		{
			ID:          "tui.send_keys",
			Name:        "Send Keys",
			Description: "Send keystrokes. Supports special keys like {ENTER}, {TAB}, {UP}, {CTRL+C}",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Session ID", Required: true},
				{Name: "keys", Type: "string", Description: "Keys to send, with optional {TOKEN} notation", Required: false},
				{Name: "wait_ms", Type: "number", Description: "Milliseconds to wait after sending. Defaults to 100", Required: false},
			},
			Returns: "send_status",
		},
		{
			ID:          "tui.capture",
			Name:        "Capture Screen",
			Description: "Capture the terminal display as text and a PNG screenshot",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Session ID", Required: true},
			},
			Returns: "capture",
		},
		{
			ID:          "tui.close",
			Name:        "Close Session",
			Description: "Close a session, terminating its process",
			Parameters: []types.Parameter{
				{Name: "session_id", Type: "string", Description: "Session ID", Required: true},
			},
			Returns: "close_status",
		},
		{
			ID:          "tui.list",
			Name:        "List Sessions",
			Description: "List all active sessions",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
	}
}
