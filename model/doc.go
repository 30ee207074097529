// Package model contains the value types exchanged between the resource
// manager and a managed task.
//
// Resource grants live in the `allocation` sub-package.  Values defined here
// are immutable once produced: a new value replaces the previous one on every
// reconfiguration.
package model
