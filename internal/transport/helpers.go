package transport

import (
	"errors"
	"fmt"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

var (
	// ErrStreamingDisabled is returned by the connector of a client whose streaming transport was
	// turned off by configuration.
	ErrStreamingDisabled = errors.New("streaming transport is disabled")

	// ErrStreamClosed is the reason given by a StreamConnection that ended without Close being called.
	ErrStreamClosed = errors.New("stream connection closed")
)

// HTTPStatusError is returned by Connect when the collector answers the WebSocket handshake with an
// HTTP status other than 101.
type HTTPStatusError struct {
	Message string
	Code    int
}

func (e HTTPStatusError) Error() string {
	return e.Message
}

// Tests whether an HTTP error status represents a condition that might resolve on its own, as opposed to
// one that indicates a misconfiguration.
func isHTTPErrorRecoverable(statusCode int) bool {
	if statusCode >= 400 && statusCode < 500 {
		switch statusCode {
		case 400: // bad request
			return true
		case 408: // request timeout
			return true
		case 429: // too many requests
			return true
		default:
			return false // all other 4xx errors are unrecoverable
		}
	}
	return true
}

func httpErrorDescription(statusCode int) string {
	message := ""
	if statusCode == 404 {
		message = " (collector endpoint not found)"
	}
	return fmt.Sprintf("HTTP error %d%s", statusCode, message)
}

// Logs an HTTP error or network error at the appropriate level and determines whether it is recoverable
// (as defined by isHTTPErrorRecoverable). Nothing is retried either way, so this only decides how loudly
// the failure is reported.
func checkIfErrorIsRecoverableAndLog(
	loggers ldlog.Loggers,
	errorDesc, errorContext string,
	statusCode int,
	recoverableMessage string,
) bool {
	if statusCode > 0 && !isHTTPErrorRecoverable(statusCode) {
		loggers.Errorf("Error %s (collector rejected the request; check the endpoint configuration): %s",
			errorContext, errorDesc)
		return false
	}
	loggers.Warnf("Error %s (%s): %s", errorContext, recoverableMessage, errorDesc)
	return true
}
