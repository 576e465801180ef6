// Package observe provides the telemetry used around capability loads:
// OpenTelemetry tracing and metrics, a JSON structured logger, and a
// middleware that wraps a load chain with all three.
//
// It performs no loading itself. The loader calls into the middleware, and
// the composition root owns the Observer's lifecycle.
package observe
