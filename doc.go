// Package houghcircles runs a periodic circle detection task under the
// control of a resource manager.
//
// The task itself (package service/task) is a lifecycle state machine that
// acquires its source image on setup, receives resource allocations per
// working mode on configure, executes one detection per run cycle, reports
// throughput on monitor and writes its last result on release.  The root
// Service wires the task with an allocator, the Hough work unit, reporters
// (logs, Prometheus, event bus) and a driver that plays the resource manager:
//
//	cfg, _ := houghcircles.LoadConfig(ctx, "recipe.yaml")
//	srv, _ := houghcircles.New(houghcircles.WithConfig(cfg))
//	summary, err := srv.Run(ctx)
package houghcircles
