package endpoints

const (
	// StreamingRequestPath is the path of the streaming (WebSocket) endpoint.
	StreamingRequestPath = "/events/stream"

	// SubmitRequestPath is the path of the request-per-event endpoint.
	SubmitRequestPath = "/events/submit"
)
