// Package allocator exposes the resource manager side of the task contract.
// A Handle is the only channel through which a managed task learns about the
// resources it has been granted; the task queries it with the working mode id
// received in the configure callback.
package allocator
