package session

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/colombod/amplifier-bundle-tui-tester/internal/emulator"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/logging"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/render"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/shared/paths"
)

const (
	termType      = "xterm-256color"
	readChunkSize = 8192

	// Bounds for the output drain loop. The iteration cap guarantees a
	// drain returns even against a process that produces output
	// continuously.
	drainTimeout  = 100 * time.Millisecond
	drainMaxReads = 100
	pumpMaxReads  = 10

	// Graceful-shutdown budget: SIGTERM, poll, then SIGKILL.
	termPollBudget   = 10
	termPollInterval = 100 * time.Millisecond
)

// Session is one remote-controlled terminal instance. The PTY master
// handle and the child process are exclusively owned by the Session and
// released exactly once, in Close.
type Session struct {
	ID        string
	Command   string
	Rows      int
	Cols      int
	CreatedAt time.Time

	cmd  *exec.Cmd
	ptmx *os.File
	fd   int
	term *emulator.Emulator

	artifactDir  string
	captureCount int

	renderer *render.Renderer
	log      *logging.Logger

	// mu serializes PTY reads and writes, emulator feeds, and close
	// state. The server drives one session from several goroutines (REST
	// handlers and the WebSocket pump), so serialization lives here
	// rather than with the callers.
	mu     sync.Mutex
	closed bool
}

// Capture is one snapshot of the terminal display.
type Capture struct {
	// Text is the screen as trimmed rows joined with line breaks.
	Text string `json:"text"`
	// ANSI currently duplicates Text; style preservation is an explicit
	// future extension point.
	ANSI      string `json:"ansi"`
	ImagePath string `json:"image_path"`
}

// Pid returns the child process id.
func (s *Session) Pid() int {
	if s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// ArtifactDir returns the directory holding this session's captures.
func (s *Session) ArtifactDir() string {
	return s.artifactDir
}

// IsAlive reports whether the child process is still running, probed with
// a zero-effect signal. Safe to call repeatedly and concurrently with
// other operations.
func (s *Session) IsAlive() bool {
	return processAlive(s.cmd.Process)
}

// Send writes data to the PTY, waits for the child to react, then drains
// any output produced. Typing, waiting, and observing are coupled because
// a TUI application's redraw is asynchronous relative to input delivery.
func (s *Session) Send(data []byte, wait time.Duration) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("write to session %s: session closed", s.ID)
	}
	_, err := s.ptmx.Write(data)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("write to session %s: %w", s.ID, err)
	}
	time.Sleep(wait)
	s.drain(drainTimeout, drainMaxReads)
	return nil
}

// drain reads available PTY output into the emulator. Each iteration polls
// for readability with the given timeout, then reads up to one 8 KiB
// chunk. It stops on a quiet poll, EOF, a read error, or after maxReads
// iterations, and returns the raw bytes collected.
func (s *Session) drain(timeout time.Duration, maxReads int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drainLocked(timeout, maxReads)
}

// drainLocked is drain with s.mu held. Holding the lock across the
// poll/read keeps the fd valid: Close cannot release the handle while a
// read is in flight, so a recycled fd number can never be drained into
// this session's emulator.
func (s *Session) drainLocked(timeout time.Duration, maxReads int) []byte {
	if s.closed {
		return nil
	}
	var out []byte
	buf := make([]byte, readChunkSize)

	for reads := 0; reads < maxReads; reads++ {
		if !s.waitReadable(timeout) {
			break
		}
		n, err := unix.Read(s.fd, buf)
		if n > 0 {
			chunk := buf[:n]
			out = append(out, chunk...)
			// Decode permissively; invalid sequences must not fail a
			// drain.
			s.term.Feed(strings.ToValidUTF8(string(chunk), "�"))
		}
		if err != nil || n <= 0 {
			break
		}
	}
	return out
}

// waitReadable polls the PTY fd for readability with a timeout.
func (s *Session) waitReadable(timeout time.Duration) bool {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil || n == 0 {
		return false
	}
	// POLLHUP still allows reading buffered output from an exited child.
	return fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0
}

// PumpOutput repeatedly performs light drains for the given wall-clock
// duration, for TUI applications whose redraw loop is not tightly coupled
// to the most recent input. Returns everything read.
func (s *Session) PumpOutput(duration, pollInterval time.Duration) []byte {
	var out []byte
	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		out = append(out, s.drain(pollInterval, pumpMaxReads)...)
		if s.isClosed() {
			break
		}
		time.Sleep(pollInterval)
	}
	return out
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Capture drains pending output, snapshots the emulator display, and
// renders it to the next numbered PNG in the session's artifact
// directory. It succeeds even when the process has already exited.
func (s *Session) Capture() (*Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drainLocked(drainTimeout, drainMaxReads)

	rows := s.term.Rows()
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.TrimRight(row, " \t")
	}
	text := strings.Join(lines, "\n")

	next := s.captureCount + 1
	imagePath := paths.CaptureFile(s.artifactDir, next)
	if err := s.renderer.Render(s.term, imagePath); err != nil {
		return nil, fmt.Errorf("capture session %s: %w", s.ID, err)
	}
	s.captureCount = next

	abs, err := filepath.Abs(imagePath)
	if err != nil {
		abs = imagePath
	}
	return &Capture{Text: text, ANSI: text, ImagePath: abs}, nil
}

// CaptureCount returns how many captures have been taken.
func (s *Session) CaptureCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captureCount
}

// Close releases the PTY handle and terminates the child: graceful signal
// first, forced kill after the poll budget. Acquiring mu first means any
// in-flight drain finishes before the handle goes away. Best-effort; Close
// never returns an error and is safe to call multiple times, because it
// runs in cleanup paths where a secondary error would mask the original
// reason for closing.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		if err := s.ptmx.Close(); err != nil {
			s.log.Debug("ptmx close", zap.String("session", s.ID), zap.Error(err))
		}
	}
	s.mu.Unlock()

	terminate(s.cmd.Process, s.IsAlive, time.Sleep)
}

// terminate drives the two-phase shutdown: send SIGTERM if the process is
// alive, poll liveness up to the budget, then SIGKILL. Taking the probe
// and clock as functions keeps the sequence testable without a real
// process.
func terminate(p *os.Process, alive func() bool, sleep func(time.Duration)) {
	if p == nil || !alive() {
		return
	}
	_ = p.Signal(syscall.SIGTERM)
	for i := 0; i < termPollBudget; i++ {
		if !alive() {
			return
		}
		sleep(termPollInterval)
	}
	if alive() {
		_ = p.Kill()
	}
}

// processAlive probes liveness with signal 0. Delivery failure means the
// process does not exist (or has been reaped); any other outcome counts
// as alive.
func processAlive(p *os.Process) bool {
	if p == nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
