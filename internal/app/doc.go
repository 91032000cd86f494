// Package app wires configuration, telemetry, the dataset cache, services
// and HTTP handlers into a runnable dashboard server.
//
// Middleware runs in the order RequestID, RealIP, OTel, StructuredLogger,
// Recoverer, Timeout, SecurityHeaders, CORS, RateLimiter. Unknown routes and
// methods are answered with RFC 7807 problems from the shared ErrorHandler.
//
// Run blocks until SIGINT or SIGTERM and then drains in-flight requests
// within Server.ShutdownTimeout before flushing telemetry.
package app
