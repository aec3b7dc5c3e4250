// Package ws streams live terminal output over WebSocket.
//
// A client opens GET /sessions/:id/stream and receives JSON messages:
// "connected" on open, "output" frames carrying raw terminal bytes as
// UTF-8 text, and "exited" when the session's process has terminated
// and no more output is pending. The stream is read-only; keystrokes
// go through the REST or tool surface.
package ws
