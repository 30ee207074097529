// Package progress keeps the counters of a driving loop (cycles, failures,
// suspensions, reconfigurations) and lets observers follow them through a
// change callback.  The tracker travels in the context so that any component
// handed the context can update it.
package progress
