// Package types defines the shared service contract: service and tool
// metadata, execution context, and the success/failure result envelope used
// by every tool operation.
package types
