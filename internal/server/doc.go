// Package server wires configuration, logging, metrics, the session
// manager, the service registry, and the HTTP/WebSocket surface into a
// runnable service with graceful shutdown and a background sweeper for
// dead sessions.
package server
