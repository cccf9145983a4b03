package interfaces

// ServiceEndpoints allow configuration of custom collector URIs.
//
// By default, both transports connect to the host of the reporting page, as a script served from
// that host would. Set these fields to send events somewhere else. Streaming may use any of the
// schemes ws, wss, http, or https; http(s) is translated to the matching WebSocket scheme.
type ServiceEndpoints struct {
	Streaming string
	Submit    string
}
