// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependency checks pass
//
// Usage:
//
//	r.Handle("/health/live", health.Liveness())
//	r.Handle("/health/ready", health.Readiness(
//		logger,
//		health.DirReadable(certsDir),
//	))
//
// Dependency checks must follow func(context.Context) error signature.
package health
