// Package tracing starts and ends OpenTelemetry spans for lifecycle
// callbacks.  Until Init installs a provider spans are no-ops.
package tracing
