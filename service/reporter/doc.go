// Package reporter turns task events into log entries, Prometheus metrics
// and event bus messages.
package reporter
