package interfaces

import (
	"strconv"
	"time"
)

// TransportState describes which transport, if any, the client has committed to.
type TransportState string

const (
	// TransportStateBuffering means that no transport has been committed yet; reported events are
	// held in order until one is.
	TransportStateBuffering TransportState = "BUFFERING"

	// TransportStateStreaming means that events are being sent over the persistent streaming
	// connection.
	TransportStateStreaming TransportState = "STREAMING"

	// TransportStateFallback means that events are being sent with one request each. This state is
	// reached either because the streaming connection could not be opened in time, or because an
	// established streaming connection was later lost.
	TransportStateFallback TransportState = "FALLBACK"

	// TransportStateClosed means that the client has been shut down and drops all events.
	TransportStateClosed TransportState = "CLOSED"
)

// IsCommitted returns true if the state is one in which events go to a transport.
func (s TransportState) IsCommitted() bool {
	return s == TransportStateStreaming || s == TransportStateFallback
}

// TransportErrorKind is an enumeration of the kinds of failures that can change transport state.
type TransportErrorKind string

const (
	// TransportErrorKindUnknown indicates an unexpected error, such as an invalid endpoint URI.
	TransportErrorKindUnknown TransportErrorKind = "UNKNOWN"

	// TransportErrorKindNetworkError represents an I/O error while connecting or writing.
	TransportErrorKindNetworkError TransportErrorKind = "NETWORK_ERROR"

	// TransportErrorKindErrorResponse means the collector rejected the WebSocket handshake with an
	// HTTP error status.
	TransportErrorKindErrorResponse TransportErrorKind = "ERROR_RESPONSE"

	// TransportErrorKindTimeout means the streaming connection did not open within the connect timeout.
	TransportErrorKindTimeout TransportErrorKind = "TIMEOUT"

	// TransportErrorKindStreamClosed means an established streaming connection was closed.
	TransportErrorKindStreamClosed TransportErrorKind = "STREAM_CLOSED"

	// TransportErrorKindDisabled means the streaming transport was turned off by configuration.
	TransportErrorKindDisabled TransportErrorKind = "DISABLED"
)

// TransportErrorInfo is a description of the error that caused the most recent state change.
type TransportErrorInfo struct {
	// Kind is the general category of the error.
	Kind TransportErrorKind
	// StatusCode is the HTTP status code of a rejected handshake, or zero.
	StatusCode int
	// Message is any additional human-readable information relevant to the error.
	Message string
	// Time is the date/time that the error occurred.
	Time time.Time
}

// String returns a simple string representation of the error.
func (e TransportErrorInfo) String() string {
	ret := string(e.Kind)
	if e.StatusCode > 0 || e.Message != "" {
		ret += "("
		if e.StatusCode > 0 {
			ret += strconv.Itoa(e.StatusCode)
		}
		if e.Message != "" {
			if e.StatusCode > 0 {
				ret += ","
			}
			ret += e.Message
		}
		ret += ")"
	}
	if !e.Time.IsZero() {
		ret += "@" + e.Time.Format(time.RFC3339)
	}
	return ret
}

// TransportStatus is information about the client's transport state.
type TransportStatus struct {
	// State is the current transport state.
	State TransportState
	// StateSince is the date/time that the state was entered.
	StateSince time.Time
	// LastError is information about the failure that caused the last fallback, if any.
	LastError TransportErrorInfo
}

// String returns a simple string representation of the status.
func (s TransportStatus) String() string {
	return "Status(" + string(s.State) + "," + s.StateSince.Format(time.RFC3339) + "," + s.LastError.String() + ")"
}

// TransportStatusProvider is an interface for querying the status of the client's transports.
//
// An implementation of this interface is returned by Client.GetTransportStatusProvider.
type TransportStatusProvider interface {
	// GetStatus returns the current status.
	GetStatus() TransportStatus

	// AddStatusListener subscribes for notifications of status changes. The returned channel will
	// receive a new TransportStatus value for every change.
	//
	// It is the caller's responsibility to consume values from the channel. Allowing values to
	// accumulate in the channel can cause the client to stop publishing status changes.
	AddStatusListener() <-chan TransportStatus

	// RemoveStatusListener unsubscribes from notifications of status changes. The specified
	// channel must be one that was previously returned by AddStatusListener(); otherwise, the
	// method has no effect.
	RemoveStatusListener(listener <-chan TransportStatus)

	// WaitFor is a synchronous method for waiting for a desired transport state.
	//
	// If the current state is already desiredState when this method is called, it immediately
	// returns true. Otherwise, it blocks until 1. the state has become desiredState, 2. the state has
	// become TransportStateClosed (since that is a permanent condition), or 3. the specified timeout
	// elapses. It returns true if the state is desiredState.
	//
	// If the timeout is zero or negative, it waits indefinitely.
	WaitFor(desiredState TransportState, timeout time.Duration) bool
}
