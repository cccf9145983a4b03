package transport

import (
	"context"

	"github.com/pagebeacon/go-client/interfaces"
)

type disabledStreamConnector struct{}

// NewDisabledStreamConnector returns a StreamConnector whose attempts always fail at once with
// ErrStreamingDisabled, so that the client commits to the fallback transport without waiting.
func NewDisabledStreamConnector() interfaces.StreamConnector {
	return disabledStreamConnector{}
}

func (disabledStreamConnector) Connect(context.Context) (interfaces.StreamConnection, error) {
	return nil, ErrStreamingDisabled
}
