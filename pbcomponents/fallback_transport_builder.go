package pbcomponents

import (
	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/endpoints"
	"github.com/pagebeacon/go-client/internal/transport"
)

const (
	// DefaultSubmitWorkers is the default value for FallbackTransportBuilder.Workers.
	DefaultSubmitWorkers = transport.DefaultSubmitWorkers
	// DefaultSubmitCapacity is the default value for FallbackTransportBuilder.Capacity.
	DefaultSubmitCapacity = transport.DefaultSubmitCapacity
)

// FallbackTransportBuilder provides methods for configuring the fallback transport, which sends each
// event in its own POST request.
//
// See FallbackTransport for usage.
type FallbackTransportBuilder struct {
	baseURI  string
	workers  int
	capacity int
}

// FallbackTransport returns a configurable factory for the fallback transport.
//
// The fallback transport is only used if the stream cannot be opened in time, or is lost later.
// To customize it, call this method to obtain a builder, set its properties with the
// FallbackTransportBuilder methods, and then store it in the Fallback field of your client
// configuration:
//
//	config := pagebeacon.Config{
//	    Fallback: pbcomponents.FallbackTransport().Workers(2),
//	}
func FallbackTransport() *FallbackTransportBuilder {
	return &FallbackTransportBuilder{
		workers:  DefaultSubmitWorkers,
		capacity: DefaultSubmitCapacity,
	}
}

// BaseURI sets a custom base URI for submit requests, overriding ServiceEndpoints and the page origin.
func (b *FallbackTransportBuilder) BaseURI(baseURI string) *FallbackTransportBuilder {
	b.baseURI = baseURI
	return b
}

// Workers sets how many submit requests can be in flight at once. Requests made concurrently can
// reach the collector in any order.
//
// The default value is DefaultSubmitWorkers.
func (b *FallbackTransportBuilder) Workers(workers int) *FallbackTransportBuilder {
	if workers <= 0 {
		b.workers = DefaultSubmitWorkers
	} else {
		b.workers = workers
	}
	return b
}

// Capacity sets the number of events that can wait for a worker before new events are dropped.
//
// The default value is DefaultSubmitCapacity.
func (b *FallbackTransportBuilder) Capacity(capacity int) *FallbackTransportBuilder {
	if capacity <= 0 {
		b.capacity = DefaultSubmitCapacity
	} else {
		b.capacity = capacity
	}
	return b
}

// CreateFallbackTransport is called by the client when it commits to the fallback transport.
func (b *FallbackTransportBuilder) CreateFallbackTransport(
	context interfaces.ClientContext,
) (interfaces.EventSink, error) {
	configuredBaseURI, err := endpoints.SelectBaseURI(
		context.GetServiceEndpoints(),
		endpoints.SubmitService,
		b.baseURI,
		context.GetPage(),
		context.GetLogging().Loggers,
	)
	if err != nil {
		return nil, err
	}
	return transport.NewSubmitSink(context, transport.SubmitConfig{
		URI:      endpoints.AddQuery(endpoints.AddPath(configuredBaseURI, endpoints.SubmitRequestPath), context.GetPage()),
		Workers:  b.workers,
		Capacity: b.capacity,
	}), nil
}
