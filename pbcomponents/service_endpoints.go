package pbcomponents

import "github.com/pagebeacon/go-client/interfaces"

// CollectorEndpoints specifies a single base URI for a collector that serves both the stream and the
// submit endpoint, instead of the host of the reporting page.
//
// Store this value in the ServiceEndpoints field of your client configuration. For example:
//
//	config := pagebeacon.Config{
//	    ServiceEndpoints: pbcomponents.CollectorEndpoints("https://collector.example.com"),
//	}
//
// An http or https base URI is used for the stream with the matching WebSocket scheme.
func CollectorEndpoints(collectorBaseURI string) interfaces.ServiceEndpoints {
	return interfaces.ServiceEndpoints{
		Streaming: collectorBaseURI,
		Submit:    collectorBaseURI,
	}
}
