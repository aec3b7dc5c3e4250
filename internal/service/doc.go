// Package service manages provider registration and tool execution.
//
// Providers expose a Definition describing their tools and an Execute
// entry point keyed by tool id ("service.operation"). The registry routes
// tool calls to the owning provider and converts routing failures into
// failed results, so the outward boundary never raises.
package service
