// Package session owns the lifecycle of remote-controlled terminal
// sessions.
//
// A Session binds one child process to a pseudo-terminal, pumps its output
// into an owned emulation engine, and exposes send/capture/close
// operations. The Manager is the registry of live sessions: it spawns,
// looks up, enumerates, destroys, and sweeps sessions whose process has
// died.
//
// Concurrency model: operations on different sessions proceed
// independently. Operations on one Session are serialized by a
// per-session mutex around PTY I/O, emulator feeds, and close state, so
// the REST handlers and the WebSocket output pump can share a session:
// drains never interleave mid-chunk, and Close waits for the in-flight
// read before releasing the PTY handle. Every blocking wait in this
// package is explicitly bounded (drain iteration caps, per-read poll
// timeouts, the graceful-shutdown poll budget); a misbehaving child can
// never hang a caller indefinitely.
package session
