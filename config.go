package pagebeacon

import (
	"github.com/pagebeacon/go-client/interfaces"
)

// Config exposes advanced configuration options for Client.
//
// All of these settings are optional, so an empty Config struct is always valid. See the description of
// each field for the default behavior if it is not set.
//
// Some of the Config fields are simple types, but others contain configuration builders. For instance,
// to change any of the properties of the streaming transport, use the pbcomponents.StreamingTransport
// function:
//
//	config := pagebeacon.Config{
//	    Streaming: pbcomponents.StreamingTransport().Secure(true),
//	}
type Config struct {
	// Sets the client's delivery behavior: how long to wait for the stream and how often to ping.
	//
	// If nil, the default is pbcomponents.Delivery().
	Delivery interfaces.DeliveryConfigurationFactory

	// Sets the implementation of the fallback transport, which sends one HTTP request per event.
	//
	// If nil, the default is pbcomponents.FallbackTransport().
	Fallback interfaces.FallbackTransportFactory

	// Provides configuration of the client's network connection behavior.
	//
	// If nil, the default is pbcomponents.HTTPConfiguration(); see that function for more information
	// about the properties that can be configured.
	HTTP interfaces.HTTPConfigurationFactory

	// Provides configuration of the client's logging behavior.
	//
	// If nil, the default is pbcomponents.Logging(); see that function for more information.
	Logging interfaces.LoggingConfigurationFactory

	// Sets whether this client is offline. An offline client never opens a connection and drops every
	// event that is reported.
	Offline bool

	// Specifies custom base URIs for the collector. By default, events are sent to the host of the
	// reporting page. pbcomponents.CollectorEndpoints sets both URIs at once.
	ServiceEndpoints interfaces.ServiceEndpoints

	// Sets the implementation of the streaming transport.
	//
	// If nil, the default is pbcomponents.StreamingTransport(). To turn off streaming and always use the
	// fallback transport, use pbcomponents.NoStreaming().
	Streaming interfaces.StreamingTransportFactory
}
