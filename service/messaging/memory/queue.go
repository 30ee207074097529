package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/houghcircles/service/messaging"
)

// ErrClosed is returned when publishing to a closed queue.
var ErrClosed = errors.New("queue closed")

// Config for memory queue implementation
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	DeadLetter  bool
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Message is a message held by Queue.
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	attempts  int
	mu        sync.Mutex
	settled   bool
	createdAt time.Time
	lastErr   error
}

// ID returns the message identifier; it is kept across redeliveries.
func (m *Message[T]) ID() string { return m.id }

// Attempts returns how many times the message was rejected.
func (m *Message[T]) Attempts() int { return m.attempts }

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack settles the message.
func (m *Message[T]) Ack() error {
	return m.settle(nil)
}

// Nack rejects the message; it is redelivered after RetryDelay until
// MaxRetries is reached and then moved to the dead letter list.
func (m *Message[T]) Nack(err error) error {
	if settleErr := m.settle(err); settleErr != nil {
		return settleErr
	}
	m.attempts++
	if m.attempts <= m.queue.config.MaxRetries {
		retry := &Message[T]{
			id:        m.id,
			payload:   m.payload,
			queue:     m.queue,
			attempts:  m.attempts,
			createdAt: time.Now(),
			lastErr:   err,
		}
		time.AfterFunc(m.queue.config.RetryDelay, func() {
			_ = m.queue.enqueue(context.Background(), retry)
		})
		return nil
	}
	if m.queue.config.DeadLetter {
		m.queue.dlqMu.Lock()
		m.queue.dlq = append(m.queue.dlq, m)
		m.queue.dlqMu.Unlock()
	}
	return nil
}

func (m *Message[T]) settle(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.settled = true
	m.lastErr = err
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	mu       sync.RWMutex
	closed   bool
	dlq      []*Message[T]
	dlqMu    sync.Mutex
}

// Publish adds a new item to the queue
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("payload was nil")
	}
	return q.enqueue(ctx, &Message[T]{
		id:        uuid.New().String(),
		payload:   *t,
		queue:     q,
		createdAt: time.Now(),
	})
}

// Offer adds a message without waiting; it returns messaging.ErrFull when the
// buffer is exhausted.
func (q *Queue[T]) Offer(t *T) error {
	if t == nil {
		return fmt.Errorf("payload was nil")
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case q.messages <- &Message[T]{id: uuid.New().String(), payload: *t, queue: q, createdAt: time.Now()}:
		return nil
	default:
		return messaging.ErrFull
	}
}

func (q *Queue[T]) enqueue(ctx context.Context, msg *Message[T]) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg, ok := <-q.messages:
		if !ok {
			return nil, ErrClosed
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Poll returns the next message without waiting.
func (q *Queue[T]) Poll() (messaging.Message[T], bool) {
	select {
	case msg, ok := <-q.messages:
		if !ok {
			return nil, false
		}
		return msg, true
	default:
		return nil, false
	}
}

// Close stops accepting messages; pending messages can still be consumed.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.messages)
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DLQSize returns the number of messages in the dead letter queue
func (q *Queue[T]) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

var (
	_ messaging.Queue[any]  = (*Queue[any])(nil)
	_ messaging.Poller[any] = (*Queue[any])(nil)
)
