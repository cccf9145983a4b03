package mocks

import (
	"context"
	"sync"

	"github.com/pagebeacon/go-client/interfaces"
)

// MockStreamConnection is a test implementation of StreamConnection.
type MockStreamConnection struct {
	*CapturingEventSink
	done      chan struct{}
	err       error
	closeOnce sync.Once
	errLock   sync.Mutex
}

var _ interfaces.StreamConnection = (*MockStreamConnection)(nil)

// NewMockStreamConnection creates an open MockStreamConnection.
func NewMockStreamConnection() *MockStreamConnection {
	return &MockStreamConnection{CapturingEventSink: NewCapturingEventSink(), done: make(chan struct{})}
}

func (c *MockStreamConnection) Close() error { //nolint:revive
	c.end(nil)
	return nil
}

func (c *MockStreamConnection) Done() <-chan struct{} { return c.done } //nolint:revive

func (c *MockStreamConnection) Err() error { //nolint:revive
	c.errLock.Lock()
	defer c.errLock.Unlock()
	return c.err
}

// Drop simulates the remote end closing the connection.
func (c *MockStreamConnection) Drop(err error) {
	c.end(err)
}

func (c *MockStreamConnection) end(err error) {
	c.closeOnce.Do(func() {
		c.errLock.Lock()
		c.err = err
		c.errLock.Unlock()
		_ = c.CapturingEventSink.Close()
		close(c.done)
	})
}

// ConnectAttempt is a pending call to MockStreamConnector.Connect. The test decides its outcome.
type ConnectAttempt struct {
	Ctx    context.Context
	result chan connectResult
}

type connectResult struct {
	conn interfaces.StreamConnection
	err  error
}

// Succeed completes the attempt with the given connection.
func (a *ConnectAttempt) Succeed(conn interfaces.StreamConnection) {
	a.result <- connectResult{conn: conn}
}

// Fail completes the attempt with an error.
func (a *ConnectAttempt) Fail(err error) {
	a.result <- connectResult{err: err}
}

// MockStreamConnector is a test implementation of StreamConnector. Every call to Connect is published
// on Attempts and blocks until the test calls Succeed or Fail on it.
//
// If IgnoreCancellation is true, Connect keeps waiting after its context is cancelled; this simulates
// a handshake that completes concurrently with the client giving up on it.
type MockStreamConnector struct {
	Attempts           chan *ConnectAttempt
	IgnoreCancellation bool
}

var _ interfaces.StreamConnector = (*MockStreamConnector)(nil)

// NewMockStreamConnector creates a MockStreamConnector.
func NewMockStreamConnector() *MockStreamConnector {
	return &MockStreamConnector{Attempts: make(chan *ConnectAttempt, 10)}
}

func (m *MockStreamConnector) Connect(ctx context.Context) (interfaces.StreamConnection, error) { //nolint:revive
	attempt := &ConnectAttempt{Ctx: ctx, result: make(chan connectResult, 1)}
	m.Attempts <- attempt
	if m.IgnoreCancellation {
		r := <-attempt.result
		return r.conn, r.err
	}
	select {
	case r := <-attempt.result:
		return r.conn, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CreateStreamConnector allows MockStreamConnector to be used as its own factory.
func (m *MockStreamConnector) CreateStreamConnector(interfaces.ClientContext) (interfaces.StreamConnector, error) {
	return m, nil
}

// InstantStreamConnector is a StreamConnector whose attempts complete immediately with a fixed result.
type InstantStreamConnector struct {
	Conn interfaces.StreamConnection
	Err  error
}

func (c InstantStreamConnector) Connect(context.Context) (interfaces.StreamConnection, error) { //nolint:revive
	return c.Conn, c.Err
}

func (c InstantStreamConnector) CreateStreamConnector( //nolint:revive
	interfaces.ClientContext,
) (interfaces.StreamConnector, error) {
	return c, nil
}

// StreamingTransportFactoryThatReturnsError is a StreamingTransportFactory that always fails.
type StreamingTransportFactoryThatReturnsError struct {
	Err error
}

func (f StreamingTransportFactoryThatReturnsError) CreateStreamConnector( //nolint:revive
	interfaces.ClientContext,
) (interfaces.StreamConnector, error) {
	return nil, f.Err
}
