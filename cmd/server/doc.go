// Command server runs the TUI tester service: an HTTP and WebSocket
// surface over pseudo-terminal sessions that spawn programs, inject
// keystrokes, and capture screen snapshots as text and PNG.
package main
