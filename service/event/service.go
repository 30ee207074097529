package event

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/viant/houghcircles/service/messaging"
	"github.com/viant/houghcircles/service/messaging/memory"
)

var errClosed = memory.ErrClosed

// Service is an in-process event bus.  Each payload type gets its own queue
// that must have a listener.  Events are mirrored to an untyped stream once a
// listener for it is set.
type Service struct {
	mirror            atomic.Bool
	publisher         *Publisher[any]
	listener          *Listener[any]
	queues            []interface{ Close() }
	typedPublishers   map[reflect.Type]any
	typedListener     map[reflect.Type]any
	mux               *sync.RWMutex
	memNewQueueConfig func(name string) memory.Config
	logger            logrus.FieldLogger
}

// SetListener replaces the listener of the untyped stream.
func (s *Service) SetListener(handler func(*Event[any])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler)
	s.listener.logger = s.logger
	s.listener.Start()
	s.mirror.Store(true)
}

// Close closes the queues and waits for listeners to handle pending events.
func (s *Service) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, queue := range s.queues {
		queue.Close()
	}
	for _, listener := range s.typedListener {
		listener.(interface{ drain() }).drain()
	}
	if s.listener != nil {
		s.listener.drain()
	}
}

func New(opts ...Option) *Service {
	ret := &Service{
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]any),
		mux:             &sync.RWMutex{},
		logger:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.memNewQueueConfig == nil {
		ret.memNewQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
	}
	ret.publisher = NewPublisher[any](queueOf[Event[any]](ret, "any"))
	return ret
}

func queueOf[T any](s *Service, name string) messaging.Queue[T] {
	queue := memory.NewQueue[T](s.memNewQueueConfig(name))
	s.queues = append(s.queues, queue)
	return queue
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// SetListenerOf replaces the listener of the stream carrying T.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) {
	publisher := PublisherOf[T](s)
	key := keyOf[T]()
	s.mux.Lock()
	defer s.mux.Unlock()
	if prev, ok := s.typedListener[key]; ok {
		prev.(*Listener[T]).Stop()
	}
	listener := NewListener[T](publisher, handler)
	listener.logger = s.logger
	s.typedListener[key] = listener
	listener.Start()
}

// PublisherOf returns a publisher for the provided type
func PublisherOf[T any](s *Service) *Publisher[T] {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T])
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok = s.typedPublishers[key]; ok {
		return ret.(*Publisher[T])
	}
	publisher := NewPublisher[T](queueOf[Event[T]](s, key.String()))
	publisher.anyQueue = s.publisher.queue
	publisher.mirror = &s.mirror
	s.typedPublishers[key] = publisher
	return publisher
}
