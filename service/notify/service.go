package notify

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/x"

	"github.com/glyphmint/glyphmint/service/messaging"
	"github.com/glyphmint/glyphmint/service/messaging/fs"
	"github.com/glyphmint/glyphmint/service/messaging/memory"
)

// Service fans typed events out over per-type queues. A payload type registry
// maps topics back to payload types, so persisted notifications (fs vendor)
// can be rehydrated after the fact.
type Service struct {
	publisher         *Publisher[any]
	listener          *Listener[any]
	typedPublishers   map[reflect.Type]any
	typedListener     map[reflect.Type]any
	payloadTypes      *x.Registry
	mux               *sync.RWMutex
	queueVendor       messaging.Vendor
	fsNewQueueConfig  func(name string) fs.QueueConfig
	memNewQueueConfig func(name string) memory.Config
}

// SetListener installs the global listener observing every topic.
func (s *Service) SetListener(handler func(*Event[any])) {
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler)
	s.listener.Start()
}

// Shutdown stops the global listener.
func (s *Service) Shutdown() {
	if s.listener != nil {
		s.listener.Stop()
	}
}

// PayloadType returns the payload type registered for a topic.
func (s *Service) PayloadType(topic string) (reflect.Type, bool) {
	registered := s.payloadTypes.Lookup(topic)
	if registered == nil {
		return nil, false
	}
	return registered.Type, true
}

// Rehydrate decodes a raw payload into its registered topic type.
func (s *Service) Rehydrate(topic string, raw []byte) (interface{}, error) {
	payloadType, ok := s.PayloadType(topic)
	if !ok {
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
	value := reflect.New(payloadType)
	if err := json.Unmarshal(raw, value.Interface()); err != nil {
		return nil, fmt.Errorf("failed to rehydrate %s payload: %w", topic, err)
	}
	return value.Interface(), nil
}

// New creates a notification service over the given queue vendor.
func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		queueVendor:     queueVendor,
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]any),
		payloadTypes:    x.NewRegistry(),
		mux:             &sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(ret)
	}

	switch queueVendor {
	case messaging.VendorFs:
		if ret.fsNewQueueConfig == nil {
			return nil, fmt.Errorf("fs queue vendor requires a queue config factory")
		}
	case messaging.VendorMemory:
		if ret.memNewQueueConfig == nil {
			ret.memNewQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
		}
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", queueVendor)
	}

	ret.payloadTypes.Register(x.NewType(reflect.TypeOf(Requested{}), x.WithName(TopicRequested)))
	ret.payloadTypes.Register(x.NewType(reflect.TypeOf(Seeded{}), x.WithName(TopicSeeded)))
	ret.payloadTypes.Register(x.NewType(reflect.TypeOf(Finalized{}), x.WithName(TopicFinalized)))

	queue, err := QueueOf[Event[any]](ret, "any")
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher[any](queue)
	return ret, nil
}

// QueueOf builds a vendor queue for the given name.
func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.queueVendor {
	case messaging.VendorFs:
		return fs.NewQueue[T](afs.New(), s.fsNewQueueConfig(name))
	case messaging.VendorMemory:
		return memory.NewQueue[T](s.memNewQueueConfig(name)), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.queueVendor)
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// SetListenerOf installs the listener for one payload type, replacing any
// previous one.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) error {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedListener[key]
	s.mux.RUnlock()
	if ok {
		ret.(*Listener[T]).Stop()
	}
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	listener := NewListener[T](publisher, handler)
	s.mux.Lock()
	s.typedListener[key] = listener
	listener.Start()
	s.mux.Unlock()
	return nil
}

// PublisherOf returns (building on first use) the publisher for a payload type.
func PublisherOf[T any](s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if !ok {
		queue, err := QueueOf[Event[T]](s, key.String())
		if err != nil {
			return nil, err
		}
		publisher := NewPublisher[T](queue)
		publisher.anyQueue = s.publisher.queue
		s.mux.Lock()
		s.typedPublishers[key] = publisher
		s.mux.Unlock()
		return publisher, nil
	}
	return ret.(*Publisher[T]), nil
}
