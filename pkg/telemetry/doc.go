// Package telemetry carries the engine's Prometheus metrics and
// OpenTelemetry spans.
//
// Both types are safe to use as nil pointers, in which case every method is
// a no-op, so the engine can record unconditionally.
package telemetry
