// Package http provides the REST surface of the service.
//
// Endpoints cover session lifecycle (spawn, list, get, keys, capture,
// close), the generic tool execution route (/services/execute), and
// health checks. Input errors come back as 400, unknown sessions as
// 404, and operation failures as 500 with a JSON error message.
package http
