package pbcomponents

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/endpoints"
	"github.com/pagebeacon/go-client/internal/transport"
)

// DefaultStreamWriteTimeout is the default value for StreamingTransportBuilder.WriteTimeout.
const DefaultStreamWriteTimeout = transport.DefaultWriteTimeout

// DefaultStreamCapacity is the default value for StreamingTransportBuilder.Capacity.
const DefaultStreamCapacity = transport.DefaultStreamCapacity

// StreamingTransportBuilder provides methods for configuring the streaming transport.
//
// See StreamingTransport for usage.
type StreamingTransportBuilder struct {
	baseURI      string
	secure       ldvalue.OptionalBool
	writeTimeout time.Duration
	capacity     int
}

// StreamingTransport returns a configurable factory for the WebSocket transport.
//
// By default, the client tries to open a WebSocket to the host of the reporting page, using wss if
// the page was loaded over https and ws otherwise. To use the default behavior, you do not need to
// call this method. However, if you want to customize the behavior of the connection, call this
// method to obtain a builder, set its properties with the StreamingTransportBuilder methods, and then
// store it in the Streaming field of your client configuration:
//
//	config := pagebeacon.Config{
//	    Streaming: pbcomponents.StreamingTransport().Secure(true),
//	}
func StreamingTransport() *StreamingTransportBuilder {
	return &StreamingTransportBuilder{
		writeTimeout: DefaultStreamWriteTimeout,
		capacity:     DefaultStreamCapacity,
	}
}

// BaseURI sets a custom base URI for the stream, overriding ServiceEndpoints and the page origin.
// The schemes ws, wss, http, and https are accepted.
func (b *StreamingTransportBuilder) BaseURI(baseURI string) *StreamingTransportBuilder {
	b.baseURI = baseURI
	return b
}

// Secure forces the secure (wss) or plain (ws) variant of the WebSocket protocol, regardless of the
// scheme of the base URI. If it is never called, the scheme follows the base URI.
func (b *StreamingTransportBuilder) Secure(secure bool) *StreamingTransportBuilder {
	b.secure = ldvalue.NewOptionalBool(secure)
	return b
}

// WriteTimeout sets the maximum time allowed for writing a single event to the stream. If a write
// takes longer, the stream is considered lost and the client switches to the fallback transport.
//
// The default value is DefaultStreamWriteTimeout.
func (b *StreamingTransportBuilder) WriteTimeout(writeTimeout time.Duration) *StreamingTransportBuilder {
	if writeTimeout <= 0 {
		b.writeTimeout = DefaultStreamWriteTimeout
	} else {
		b.writeTimeout = writeTimeout
	}
	return b
}

// Capacity sets the number of events that can be queued for the stream writer before new events are
// dropped.
//
// The default value is DefaultStreamCapacity.
func (b *StreamingTransportBuilder) Capacity(capacity int) *StreamingTransportBuilder {
	if capacity <= 0 {
		b.capacity = DefaultStreamCapacity
	} else {
		b.capacity = capacity
	}
	return b
}

// CreateStreamConnector is called by the client to create the streaming transport.
func (b *StreamingTransportBuilder) CreateStreamConnector(
	context interfaces.ClientContext,
) (interfaces.StreamConnector, error) {
	configuredBaseURI, err := endpoints.SelectBaseURI(
		context.GetServiceEndpoints(),
		endpoints.StreamingService,
		b.baseURI,
		context.GetPage(),
		context.GetLogging().Loggers,
	)
	if err != nil {
		return nil, err
	}
	streamBaseURI, err := endpoints.StreamingBaseURI(configuredBaseURI, b.secure)
	if err != nil {
		return nil, err
	}
	return transport.NewStreamConnector(context, transport.StreamConfig{
		URI:          endpoints.AddQuery(endpoints.AddPath(streamBaseURI, endpoints.StreamingRequestPath), context.GetPage()),
		WriteTimeout: b.writeTimeout,
		Capacity:     b.capacity,
	}), nil
}

// NoStreaming returns a configuration object that turns off the streaming transport. The client
// then commits to the fallback transport as soon as it starts, without waiting for a timeout.
//
//	config := pagebeacon.Config{
//	    Streaming: pbcomponents.NoStreaming(),
//	}
func NoStreaming() interfaces.StreamingTransportFactory {
	return noStreamingFactory{}
}

type noStreamingFactory struct{}

func (f noStreamingFactory) CreateStreamConnector(interfaces.ClientContext) (interfaces.StreamConnector, error) {
	return transport.NewDisabledStreamConnector(), nil
}
