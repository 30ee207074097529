// Package driver plays the resource manager for a single managed task: it
// sets the task up, grants the initial working mode, cycles run and monitor,
// applies reconfigure, suspend, resume and stop commands between cycles and
// always releases the task at the end.
package driver
