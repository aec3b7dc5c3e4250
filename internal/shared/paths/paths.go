// Package paths centralizes the on-disk layout for session artifacts.
//
// Each session owns one directory under the base directory, holding its
// sequentially numbered capture images. Nothing else is persisted; the
// session registry itself is in-memory only.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName      = ".tui-tester"
	sessionsDirName = "sessions"

	// CapturePattern names capture artifacts inside a session directory.
	CapturePattern = "capture_%04d.png"
)

// DefaultBaseDir returns the per-user base directory for session artifacts
// (~/.tui-tester/sessions), falling back to the system temp directory when
// the home directory cannot be resolved.
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName, sessionsDirName)
	}
	return filepath.Join(home, appDirName, sessionsDirName)
}

// SessionDir returns the artifact directory for a session id.
func SessionDir(baseDir, sessionID string) string {
	return filepath.Join(baseDir, sessionID)
}

// CaptureFile returns the path of the n-th capture inside a session
// directory.
func CaptureFile(sessionDir string, n int) string {
	return filepath.Join(sessionDir, fmt.Sprintf(CapturePattern, n))
}
