package pagebeacon

import (
	"errors"
	"fmt"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal"
	"github.com/pagebeacon/go-client/internal/delivery"
	"github.com/pagebeacon/go-client/internal/pagecontext"
	"github.com/pagebeacon/go-client/pbcomponents"
	"github.com/pagebeacon/go-client/pbevents"
)

// Client is the pagebeacon client for one reporting session.
//
// Create it with MakeClient or MakeCustomClient. All of its methods are safe to call from any goroutine,
// and none of them block on the network.
type Client struct {
	loggers    ldlog.Loggers
	negotiator *delivery.Negotiator
	status     *internal.TransportStatusTracker
	offline    bool
}

var (
	// ErrInitializationTimeout is returned by MakeClient or MakeCustomClient if the client did not choose
	// a transport within the time that was specified. The client is still usable; events reported in the
	// meantime are kept and delivered once a transport is chosen.
	ErrInitializationTimeout = errors.New("timeout encountered waiting for pagebeacon client to choose a transport")

	// ErrInitializationFailed is returned by MakeClient or MakeCustomClient if the client could not be
	// configured, or stopped before choosing a transport.
	ErrInitializationFailed = errors.New("pagebeacon client initialization failed")
)

// MakeClient creates a new client instance for the page at location, using the default configuration.
//
// location is the URL of the reporting page, and referrer is the URL of the page that linked to it (or
// an empty string). Both are sent with every connection attempt. Unless custom endpoints are configured,
// events are sent to the host that location refers to.
//
// The client reports a "view" event and then starts negotiating a transport. If waitFor is greater than
// zero, MakeClient blocks for up to that long until a transport has been chosen, returning
// ErrInitializationTimeout if none has. If waitFor is zero, it returns immediately.
func MakeClient(location, referrer string, waitFor time.Duration) (*Client, error) {
	return MakeCustomClient(location, referrer, Config{}, waitFor)
}

// MakeCustomClient creates a new client instance with a custom configuration.
//
// The optional duration parameter behaves the same as for MakeClient. If the configuration is invalid,
// it returns nil and an error wrapping ErrInitializationFailed.
func MakeCustomClient(location, referrer string, config Config, waitFor time.Duration) (*Client, error) {
	page := pagecontext.Build(location, referrer)

	clientContext, err := newClientContextFromConfig(page, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInitializationFailed, err)
	}
	loggers := clientContext.GetLogging().Loggers
	loggers.Infof("Starting pagebeacon client %s", Version)

	client := &Client{
		loggers: loggers,
		status:  internal.NewTransportStatusTracker(),
		offline: config.Offline,
	}

	if config.Offline {
		loggers.Info("Started pagebeacon client in offline mode; no events will be sent")
		client.status.UpdateStatus(interfaces.TransportStateClosed, interfaces.TransportErrorInfo{})
		return client, nil
	}

	streamingFactory := config.Streaming
	if streamingFactory == nil {
		streamingFactory = pbcomponents.StreamingTransport()
	}
	connector, err := streamingFactory.CreateStreamConnector(clientContext)
	if err != nil {
		loggers.Errorf("Unable to create streaming transport: %s", err)
		client.status.Close()
		return nil, fmt.Errorf("%w: %s", ErrInitializationFailed, err)
	}

	fallbackFactory := config.Fallback
	if fallbackFactory == nil {
		fallbackFactory = pbcomponents.FallbackTransport()
	}

	deliveryFactory := config.Delivery
	if deliveryFactory == nil {
		deliveryFactory = pbcomponents.Delivery()
	}

	client.negotiator = delivery.NewNegotiator(
		connector,
		func() (interfaces.EventSink, error) {
			return fallbackFactory.CreateFallbackTransport(clientContext)
		},
		client.status,
		loggers,
		deliveryFactory.CreateDeliveryConfiguration(),
	)

	client.negotiator.Report(pbevents.NewEvent(pbevents.ViewAction, ldvalue.ValueMap{}))
	client.negotiator.Start()

	if waitFor > 0 {
		loggers.Infof("Waiting up to %d milliseconds for pagebeacon client to choose a transport...",
			waitFor/time.Millisecond)
		if !client.status.WaitForCommit(waitFor) {
			if client.status.GetStatus().State == interfaces.TransportStateClosed {
				loggers.Warn("pagebeacon client stopped before choosing a transport")
				return client, ErrInitializationFailed
			}
			loggers.Warn("Timeout encountered waiting for pagebeacon client to choose a transport")
			return client, ErrInitializationTimeout
		}
	}
	return client, nil
}

// Report sends an event with the given action name and no variables.
//
// The event is delivered in the background. If the client has not yet chosen a transport, the event is
// kept until it has; if delivery fails, the event is dropped. Report never blocks and never fails.
func (client *Client) Report(action string) {
	client.ReportWithVars(action, ldvalue.ValueMap{})
}

// ReportWithVars sends an event with the given action name and variables.
//
// See Report for delivery behavior.
func (client *Client) ReportWithVars(action string, vars ldvalue.ValueMap) {
	if client == nil {
		internal.LogErrorNilPointerMethod("Client")
		return
	}
	if client.negotiator == nil {
		return
	}
	client.negotiator.Report(pbevents.NewEvent(action, vars))
}

// IsOffline returns true if the client was configured to be offline.
func (client *Client) IsOffline() bool {
	if client == nil {
		return false
	}
	return client.offline
}

// GetTransportStatusProvider returns an interface for tracking which transport the client has chosen.
func (client *Client) GetTransportStatusProvider() interfaces.TransportStatusProvider {
	if client == nil {
		internal.LogErrorNilPointerMethod("Client")
		return internal.NewTransportStatusTracker()
	}
	return client.status
}

// Close shuts down the client. It stops the pings, hands events that were already reported to the
// committed transport, and then closes the stream or waits for pending submit requests to finish.
// Events that are still waiting for a transport are dropped. After Close, Report does nothing.
func (client *Client) Close() error {
	if client == nil {
		return nil
	}
	client.loggers.Info("Closing pagebeacon client")
	if client.negotiator != nil {
		_ = client.negotiator.Close()
	}
	client.status.Close()
	return nil
}
