package session

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/colombod/amplifier-bundle-tui-tester/internal/emulator"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/logging"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/render"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/shared/id"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/shared/paths"
)

// Options configures a Manager.
type Options struct {
	// BaseDir roots per-session artifact directories. Empty selects the
	// per-user default.
	BaseDir string
	// SettleDelay is how long spawn waits before the first drain so the
	// initial capture reflects the application's first screen.
	SettleDelay time.Duration
	// Rows and Cols are the terminal dimensions used when a caller does
	// not pick its own. Zero selects 24x80.
	Rows   int
	Cols   int
	Logger *logging.Logger
}

// Manager is the registry of live sessions. It exclusively owns the
// lifetime of every Session in its map; once removed, a session's PTY is
// closed and its process signaled.
type Manager struct {
	baseDir  string
	settle   time.Duration
	defRows  int
	defCols  int
	renderer *render.Renderer
	log      *logging.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session registry, creating the artifact base
// directory if needed.
func NewManager(opts Options) (*Manager, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = paths.DefaultBaseDir()
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create session base dir: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	settle := opts.SettleDelay
	if settle < 0 {
		settle = 0
	}
	defRows, defCols := opts.Rows, opts.Cols
	if defRows <= 0 {
		defRows = 24
	}
	if defCols <= 0 {
		defCols = 80
	}
	return &Manager{
		baseDir:  baseDir,
		settle:   settle,
		defRows:  defRows,
		defCols:  defCols,
		renderer: render.New(),
		log:      log,
		sessions: make(map[string]*Session),
	}, nil
}

// Defaults returns the terminal dimensions used for spawns that do not
// specify their own.
func (m *Manager) Defaults() (rows, cols int) {
	return m.defRows, m.defCols
}

// Spawn starts `command` under /bin/sh on a freshly allocated PTY sized
// rows x cols, registers the session, waits the settle delay, and drains
// initial output. A command that fails to start is still returned and
// registered; the failure surfaces through IsAlive, not as a spawn error.
func (m *Manager) Spawn(command string, rows, cols int, env map[string]string) (*Session, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d: rows and cols must be positive", cols, rows)
	}

	sessionID := id.NewSessionID().String()
	artifactDir := paths.SessionDir(m.baseDir, sessionID)
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	// The shell indirection lets the command string carry pipes,
	// redirects, and other shell syntax.
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Env = append(os.Environ(),
		"TERM="+termType,
		fmt.Sprintf("COLUMNS=%d", cols),
		fmt.Sprintf("LINES=%d", rows),
	)
	for key, value := range env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}

	// Reap the child when it exits so liveness probes observe the death.
	go func() { _ = cmd.Wait() }()

	s := &Session{
		ID:          sessionID,
		Command:     command,
		Rows:        rows,
		Cols:        cols,
		CreatedAt:   time.Now(),
		cmd:         cmd,
		ptmx:        ptmx,
		fd:          int(ptmx.Fd()),
		term:        emulator.New(cols, rows),
		artifactDir: artifactDir,
		renderer:    m.renderer,
		log:         m.log,
	}

	m.mu.Lock()
	m.sessions[sessionID] = s
	m.mu.Unlock()

	m.log.Info("session spawned",
		zap.String("session", sessionID),
		zap.String("command", command),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Int("pid", s.Pid()),
	)

	// Let the application start and paint its first screen.
	time.Sleep(m.settle)
	s.drain(drainTimeout, drainMaxReads)

	return s, nil
}

// Get looks up a session by id. Absence is not an error at this layer.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Destroy removes the session from the registry and tears it down.
// Returns whether an entry was present, so destroying twice is a
// well-defined no-op.
func (m *Manager) Destroy(sessionID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	m.log.Info("session destroyed", zap.String("session", sessionID))
	return true
}

// List returns a snapshot of tracked sessions, ordered by creation time.
// The copy never observes concurrent registry changes.
func (m *Manager) List() []*Session {
	m.mu.Lock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// SweepDead destroys every tracked session whose process has exited and
// returns how many were removed. Invoked periodically by the server; the
// registry runs no timer of its own.
func (m *Manager) SweepDead() int {
	m.mu.Lock()
	var dead []string
	for sessionID, s := range m.sessions {
		if !s.IsAlive() {
			dead = append(dead, sessionID)
		}
	}
	m.mu.Unlock()

	count := 0
	for _, sessionID := range dead {
		if m.Destroy(sessionID) {
			count++
		}
	}
	if count > 0 {
		m.log.Info("swept dead sessions", zap.Int("count", count))
	}
	return count
}

// Shutdown closes every remaining session. Called once on service
// shutdown for resource hygiene.
func (m *Manager) Shutdown() {
	for _, s := range m.List() {
		m.Destroy(s.ID)
	}
}
