package event

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Listener hands every event of a publisher to handler on its own goroutine.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    logrus.FieldLogger
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logrus.StandardLogger(),
	}
}

// Start begins consuming; it is a no-op on a running listener.
func (l *Listener[T]) Start() {
	if l.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})
	go func() {
		defer close(l.done)
		for {
			event, err := l.publisher.Consume(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, errClosed) {
					return
				}
				l.logger.WithError(err).Warn("error consuming event")
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}

// drain waits until the listener consumed everything left on a closed queue.
func (l *Listener[T]) drain() {
	if l.done == nil {
		return
	}
	<-l.done
}

// Stop cancels consumption and waits for the in-flight handler to return.
func (l *Listener[T]) Stop() {
	if l.done == nil {
		return
	}
	l.cancel()
	<-l.done
}
