// Package monitoring provides Prometheus metrics for the service.
//
// Metrics cover the HTTP surface (request counts and latencies), the
// session registry (active, spawned, reaped), the terminal operations
// (key bytes sent, captures taken), and WebSocket stream connections.
//
// Each Metrics instance owns a private registry; expose it with
// Handler() on the /metrics route.
package monitoring
