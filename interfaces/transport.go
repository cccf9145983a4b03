package interfaces

import (
	"context"
	"time"

	"github.com/pagebeacon/go-client/pbevents"
)

// EventSink is the send primitive of a transport.
//
// Send must not block on network I/O and must never panic: delivery is fire-and-forget, so a sink
// that cannot deliver an event simply drops it (and may log that it did).
type EventSink interface {
	// Send delivers an event or drops it.
	Send(event pbevents.Event)
	// Close releases any resources held by the sink. Events sent after Close are dropped.
	Close() error
}

// StreamConnection is an open streaming transport connection.
type StreamConnection interface {
	EventSink
	// Done returns a channel that is closed once the connection has ended, whether because the
	// remote end closed it, a write failed, or Close was called.
	Done() <-chan struct{}
	// Err returns the reason the connection ended, or nil if it is still open or was closed by Close.
	Err() error
}

// StreamConnector makes connection attempts on the streaming transport.
type StreamConnector interface {
	// Connect attempts to open a connection. It blocks until the connection is open or has failed,
	// or ctx is cancelled; the client cancels ctx when it stops waiting for the attempt.
	Connect(ctx context.Context) (StreamConnection, error)
}

// StreamingTransportFactory is a factory that creates some implementation of StreamConnector.
type StreamingTransportFactory interface {
	CreateStreamConnector(context ClientContext) (StreamConnector, error)
}

// FallbackTransportFactory is a factory that creates the request-per-event transport. The client
// calls it at most once, when it commits to fallback delivery.
type FallbackTransportFactory interface {
	CreateFallbackTransport(context ClientContext) (EventSink, error)
}

// PulseMode determines when the liveness pulse runs.
type PulseMode int

const (
	// PulseAlways runs the liveness pulse for the whole lifetime of the client, regardless of which
	// transport is in use.
	PulseAlways PulseMode = iota
	// PulseFallbackOnly starts the liveness pulse only once the client has committed to the
	// fallback transport, when there is no persistent connection for the collector to observe.
	PulseFallbackOnly
)

func (m PulseMode) String() string {
	switch m {
	case PulseAlways:
		return "always"
	case PulseFallbackOnly:
		return "fallback-only"
	default:
		return "???"
	}
}

// DeliveryConfiguration contains the parameters of transport negotiation and the liveness pulse.
//
// See pbcomponents.DeliveryConfigurationBuilder for more details on these properties.
type DeliveryConfiguration struct {
	// ConnectTimeout is how long the client waits for the streaming connection before it commits
	// to the fallback transport.
	ConnectTimeout time.Duration
	// PulseInterval is the time between "ping" events.
	PulseInterval time.Duration
	// PulseMode determines whether the pulse runs unconditionally or only under fallback.
	PulseMode PulseMode
	// Capacity is the number of reported events that can be waiting to be dispatched before new
	// events are dropped.
	Capacity int
}

// DeliveryConfigurationFactory is an interface for a factory that creates a DeliveryConfiguration.
type DeliveryConfigurationFactory interface {
	CreateDeliveryConfiguration() DeliveryConfiguration
}
