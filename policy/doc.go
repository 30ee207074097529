// Package policy holds the completion and failure tolerance rules applied to
// a managed task and the loop that drives it.
package policy
