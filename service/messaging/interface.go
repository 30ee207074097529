package messaging

import (
	"context"
	"errors"
)

// ErrFull is returned by Offer when the queue has no free capacity.
var ErrFull = errors.New("queue full")

// Queue represents an abstract message queue for any payload type
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error
	// Consume retrieves a single message from the queue, blocking until one
	// is available or ctx is done
	Consume(ctx context.Context) (Message[T], error)
}

// Poller is implemented by queues that can hand out a message without blocking.
type Poller[T any] interface {
	// Poll returns the next message, or false when the queue is empty
	Poll() (Message[T], bool)
}

// Offerer is implemented by queues that can accept a message without blocking.
type Offerer[T any] interface {
	// Offer adds a message with payload or returns ErrFull
	Offer(t *T) error
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T
	// Ack acknowledges successful processing of this message
	Ack() error
	// Nack indicates failure in processing this message
	Nack(err error) error
}
