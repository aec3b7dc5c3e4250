// Package middleware provides HTTP middleware for the service.
//
// Middleware stack includes:
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting
//   - GlobalRateLimit: Shared token bucket across all clients
//   - Metrics: Prometheus request counters and latency histograms
//   - Logger: Structured request logging via zap
//
// Rate limiting tracks clients per IP with automatic cleanup of stale
// entries; configure rate and burst through RateLimitConfig.
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
