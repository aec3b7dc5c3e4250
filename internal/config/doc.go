// Package config provides 12-factor configuration for the TUI tester
// service.
//
// Configuration is loaded from environment variables with sensible
// defaults; CLI flags may override individual values at startup.
//
// Configuration Sections:
//   - Server: HTTP server settings (host, port)
//   - Session: terminal session defaults (base dir, dimensions, settle
//     delay, dead-session sweep interval)
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting
//
// Environment Variables:
//   - PORT, HOST
//   - SESSION_DIR, SESSION_ROWS, SESSION_COLS, SESSION_SETTLE_DELAY,
//     SESSION_SWEEP_INTERVAL, SESSION_SWEEP_ENABLED
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
