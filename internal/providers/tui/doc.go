// Package tui provides the terminal-testing tool surface.
//
// The provider lets an automated caller drive a TUI application as if a
// human were typing at a real terminal: spawn an app in a pseudo-terminal,
// send keystrokes (with symbolic keys like {ENTER} or {CTRL+C}), capture
// the screen as text and a PNG screenshot, and manage session lifecycle.
//
// Tools:
//   - tui.spawn: start a new session (command, rows, cols, env)
//   - tui.send_keys: send keystrokes to a session
//   - tui.capture: capture terminal state as text and screenshot
//   - tui.close: close a session
//   - tui.list: list active sessions
//
// Typical flow: spawn → send_keys → capture → close.
//
// Every call either succeeds with structured data or fails with a
// human-readable error string; the provider never raises past this
// boundary.
package tui
