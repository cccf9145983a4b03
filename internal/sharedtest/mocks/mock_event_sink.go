package mocks

import (
	"sync"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/pbevents"
)

// CapturingEventSink is a test implementation of EventSink that pushes every event it receives onto
// a channel.
type CapturingEventSink struct {
	Events chan pbevents.Event
	closed bool
	lock   sync.Mutex
}

var _ interfaces.EventSink = (*CapturingEventSink)(nil)

// NewCapturingEventSink creates a CapturingEventSink.
func NewCapturingEventSink() *CapturingEventSink {
	return &CapturingEventSink{Events: make(chan pbevents.Event, 100)}
}

func (s *CapturingEventSink) Send(event pbevents.Event) { //nolint:revive
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.closed {
		s.Events <- event
	}
}

func (s *CapturingEventSink) Close() error { //nolint:revive
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
	return nil
}

// IsClosed returns true if Close has been called.
func (s *CapturingEventSink) IsClosed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.closed
}

// SingleFallbackTransportFactory is a FallbackTransportFactory that always returns the same sink.
type SingleFallbackTransportFactory struct {
	Sink interfaces.EventSink
}

func (f SingleFallbackTransportFactory) CreateFallbackTransport( //nolint:revive
	interfaces.ClientContext,
) (interfaces.EventSink, error) {
	return f.Sink, nil
}

// CreateFallbackTransportFunc returns the factory as a plain function.
func (f SingleFallbackTransportFactory) CreateFallbackTransportFunc() func() (interfaces.EventSink, error) {
	return func() (interfaces.EventSink, error) { return f.Sink, nil }
}

// FallbackTransportFactoryThatReturnsError is a FallbackTransportFactory that always fails.
type FallbackTransportFactoryThatReturnsError struct {
	Err error
}

func (f FallbackTransportFactoryThatReturnsError) CreateFallbackTransport( //nolint:revive
	interfaces.ClientContext,
) (interfaces.EventSink, error) {
	return nil, f.Err
}

// CreateFallbackTransportFunc returns the factory as a plain function.
func (f FallbackTransportFactoryThatReturnsError) CreateFallbackTransportFunc() func() (interfaces.EventSink, error) {
	return func() (interfaces.EventSink, error) { return nil, f.Err }
}
