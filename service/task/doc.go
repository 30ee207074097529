// Package task implements a managed task: a unit of periodic work whose
// lifecycle is driven by an external resource manager.
//
// The resource manager invokes the callbacks Setup, Configure, Run, Monitor,
// Suspend and Release.  Callbacks for one Task are expected to be serialised
// by the caller; a Task performs no internal locking.  Every callback
// invoked in a state that does not permit it fails with ErrLifecycleViolation.
//
//	created --Setup--> initialized --Configure--> configured
//	configured --Run--> running --Monitor--> monitoring --Run--> running ...
//	configured|running|monitoring --Suspend--> suspended --Configure--> configured
//	any --Release--> released (terminal)
//
// A failed Setup moves the task to the terminal failed state; only Release is
// accepted afterwards.
package task
