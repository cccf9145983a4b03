package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal"
	"github.com/pagebeacon/go-client/internal/transport"
	"github.com/pagebeacon/go-client/pbevents"
)

const (
	// DefaultConnectTimeout is the default time to wait for the stream before using the fallback transport.
	DefaultConnectTimeout = 5 * time.Second
	// DefaultPulseInterval is the default time between ping events.
	DefaultPulseInterval = 30 * time.Second
	// DefaultCapacity is the default number of reported events that can wait for the dispatcher.
	DefaultCapacity = 10000
)

// FallbackFactory creates the fallback transport. The Negotiator calls it at most once.
type FallbackFactory func() (interfaces.EventSink, error)

type connectResult struct {
	conn interfaces.StreamConnection
	err  error
}

// Negotiator owns the dispatcher and runs the single goroutine that changes it. Every input to the
// transport decision (reported events, the connect result, the connect timeout, loss of the stream,
// and shutdown) arrives on a channel that this goroutine selects on, so no transition ever runs
// concurrently with another or with a dispatch.
type Negotiator struct {
	connector       interfaces.StreamConnector
	fallbackFactory FallbackFactory
	status          *internal.TransportStatusTracker
	loggers         ldlog.Loggers
	config          interfaces.DeliveryConfiguration
	dispatcher      *dispatcher
	pulse           *pulse
	inbox           chan pbevents.Event
	connectResults  chan connectResult
	newTimer        func(time.Duration) (<-chan time.Time, func() bool)
	halt            chan struct{}
	done            chan struct{}
	startOnce       sync.Once
	closeOnce       sync.Once
	inboxFullOnce   sync.Once

	connectionAttemptStartTime ldtime.UnixMillisecondTime
}

// NewNegotiator creates a Negotiator. Nothing happens until Start is called, but events can be
// reported before that; they are kept in order.
func NewNegotiator(
	connector interfaces.StreamConnector,
	fallbackFactory FallbackFactory,
	status *internal.TransportStatusTracker,
	loggers ldlog.Loggers,
	config interfaces.DeliveryConfiguration,
) *Negotiator {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	if config.PulseInterval <= 0 {
		config.PulseInterval = DefaultPulseInterval
	}
	if config.Capacity <= 0 {
		config.Capacity = DefaultCapacity
	}
	n := &Negotiator{
		connector:       connector,
		fallbackFactory: fallbackFactory,
		status:          status,
		loggers:         loggers,
		config:          config,
		dispatcher:      newDispatcher(),
		inbox:           make(chan pbevents.Event, config.Capacity),
		connectResults:  make(chan connectResult, 1),
		newTimer:        newRealTimer,
		halt:            make(chan struct{}),
		done:            make(chan struct{}),
	}
	n.pulse = newPulse(config.PulseInterval, n.Report)
	return n
}

func newRealTimer(d time.Duration) (<-chan time.Time, func() bool) {
	timer := time.NewTimer(d)
	return timer.C, timer.Stop
}

// Report queues an event for dispatch. It never blocks: if the queue is full, or the Negotiator has
// been closed, the event is dropped.
func (n *Negotiator) Report(event pbevents.Event) {
	select {
	case <-n.halt:
		return
	default:
	}
	select {
	case n.inbox <- event:
		return
	default:
	}
	// If the inbox is full, the application is reporting events faster than they can be handed to a
	// transport. Waiting for space would block the caller, so the event is dropped; the warning is
	// only shown once.
	n.inboxFullOnce.Do(func() {
		n.loggers.Warn("Events are being produced faster than they can be processed; some events will be dropped")
	})
}

// Start begins the streaming connection attempt and the connect timeout, and starts the liveness
// pulse if it is configured to run unconditionally.
func (n *Negotiator) Start() {
	n.startOnce.Do(func() {
		if n.config.PulseMode == interfaces.PulseAlways {
			n.pulse.start()
		}
		go n.run()
	})
}

// Close stops the pulse and the loop, and closes whichever transport is committed. Events that were
// already reported are handed to the committed transport first; events that were still waiting for
// a transport are dropped.
func (n *Negotiator) Close() error {
	n.closeOnce.Do(func() {
		n.pulse.stop()
		close(n.halt)
	})
	n.startOnce.Do(func() {
		n.dispatcher.close()
		n.status.UpdateStatus(interfaces.TransportStateClosed, interfaces.TransportErrorInfo{})
		close(n.done)
	})
	<-n.done
	return nil
}

func (n *Negotiator) run() {
	defer close(n.done)

	ctx, cancelConnect := context.WithCancel(context.Background())
	defer cancelConnect()

	var connectCh <-chan connectResult = n.connectResults
	n.connectionAttemptStartTime = ldtime.UnixMillisNow()
	go func() {
		conn, err := n.connector.Connect(ctx)
		n.connectResults <- connectResult{conn: conn, err: err}
	}()
	defer func() {
		if connectCh == nil {
			return
		}
		// The loop is exiting before the attempt finished; nobody else will ever close its connection.
		go func() {
			if result := <-n.connectResults; result.conn != nil {
				_ = result.conn.Close()
			}
		}()
	}()

	timerCh, stopTimer := n.newTimer(n.config.ConnectTimeout)
	defer stopTimer()

	var streamDone <-chan struct{}
	var stream interfaces.StreamConnection

	onConnectResult := func(result connectResult) {
		connectCh = nil
		if !n.handleConnectResult(result) {
			return
		}
		stopTimer()
		if result.err == nil {
			stream = result.conn
			streamDone = stream.Done()
		}
	}

	defer func() {
		if r := recover(); r != nil {
			n.loggers.Errorf("Unexpected panic in event delivery, no more events will be sent: %v", r)
			n.shutDown()
		}
	}()

	for {
		select {
		case event := <-n.inbox:
			n.dispatcher.dispatch(event)

		case result := <-connectCh:
			onConnectResult(result)

		case <-timerCh:
			if n.dispatcher.state() != interfaces.TransportStateBuffering {
				continue
			}
			// If the connect result arrived at the same moment as the timeout, the connection wins.
			if connectCh != nil {
				select {
				case result := <-connectCh:
					onConnectResult(result)
					continue
				default:
				}
			}
			n.logConnectionResult(false)
			cancelConnect()
			n.commitFallback(interfaces.TransportErrorInfo{
				Kind:    interfaces.TransportErrorKindTimeout,
				Message: fmt.Sprintf("no stream connection after %s", n.config.ConnectTimeout),
				Time:    time.Now(),
			})

		case <-streamDone:
			streamDone = nil
			n.handleStreamLost(stream)

		case <-n.halt:
			n.drainInbox()
			n.shutDown()
			return
		}
	}
}

// drainInbox dispatches events that Report accepted before Close, so that they reach the committed
// transport before it is closed.
func (n *Negotiator) drainInbox() {
	for {
		select {
		case event := <-n.inbox:
			n.dispatcher.dispatch(event)
		default:
			return
		}
	}
}

// handleConnectResult returns true if the result decided the transport.
func (n *Negotiator) handleConnectResult(result connectResult) bool {
	if result.err != nil {
		if n.dispatcher.state() != interfaces.TransportStateBuffering {
			n.loggers.Debugf("Stream connection attempt ended after fallback was chosen: %s", result.err)
			return false
		}
		n.logConnectionResult(false)
		errorInfo := connectErrorInfo(result.err)
		if errorInfo.Kind == interfaces.TransportErrorKindDisabled {
			n.loggers.Info("Streaming transport is disabled; using fallback transport")
		} else {
			n.loggers.Warnf("Stream connection failed (%s); using fallback transport", result.err)
		}
		n.commitFallback(errorInfo)
		return true
	}

	if !n.dispatcher.commitStreaming(result.conn) {
		n.loggers.Debug("Stream connection opened after fallback was chosen; closing it")
		_ = result.conn.Close()
		return false
	}
	n.logConnectionResult(true)
	n.loggers.Info("Stream connection opened; events will be sent over the stream")
	n.status.UpdateStatus(interfaces.TransportStateStreaming, interfaces.TransportErrorInfo{})
	return true
}

func (n *Negotiator) commitFallback(errorInfo interfaces.TransportErrorInfo) {
	if n.dispatcher.state() != interfaces.TransportStateBuffering {
		return
	}
	n.dispatcher.commitFallback(n.createFallback())
	n.enteredFallback(errorInfo)
}

func (n *Negotiator) handleStreamLost(stream interfaces.StreamConnection) {
	err := stream.Err()
	if err == nil {
		err = transport.ErrStreamClosed
	}
	if n.dispatcher.state() != interfaces.TransportStateStreaming {
		return
	}
	n.dispatcher.failOver(stream, n.createFallback())
	n.loggers.Warnf("Stream connection lost (%s); switching to fallback transport", err)
	_ = stream.Close()
	n.enteredFallback(interfaces.TransportErrorInfo{
		Kind:    interfaces.TransportErrorKindStreamClosed,
		Message: err.Error(),
		Time:    time.Now(),
	})
}

func (n *Negotiator) enteredFallback(errorInfo interfaces.TransportErrorInfo) {
	n.status.UpdateStatus(interfaces.TransportStateFallback, errorInfo)
	if n.config.PulseMode == interfaces.PulseFallbackOnly {
		n.pulse.start()
	}
}

func (n *Negotiator) createFallback() interfaces.EventSink {
	if n.fallbackFactory == nil {
		return nil
	}
	sink, err := n.fallbackFactory()
	if err != nil {
		n.loggers.Errorf("Unable to create fallback transport, events will be dropped: %s", err)
		return nil
	}
	return sink
}

func (n *Negotiator) shutDown() {
	n.pulse.stop()
	switch b := n.dispatcher.close().(type) {
	case streamingBinding:
		_ = b.conn.Close()
	case fallbackBinding:
		if b.sink != nil {
			_ = b.sink.Close()
		}
	}
	n.status.UpdateStatus(interfaces.TransportStateClosed, interfaces.TransportErrorInfo{})
}

func (n *Negotiator) logConnectionResult(success bool) {
	if n.connectionAttemptStartTime == 0 {
		return
	}
	elapsed := ldtime.UnixMillisNow() - n.connectionAttemptStartTime
	n.connectionAttemptStartTime = 0
	if success {
		n.loggers.Debugf("Stream connection opened after %d ms", elapsed)
	} else {
		n.loggers.Debugf("Stream connection not available after %d ms", elapsed)
	}
}

func connectErrorInfo(err error) interfaces.TransportErrorInfo {
	errorInfo := interfaces.TransportErrorInfo{
		Kind:    interfaces.TransportErrorKindNetworkError,
		Message: err.Error(),
		Time:    time.Now(),
	}
	var statusErr transport.HTTPStatusError
	switch {
	case errors.Is(err, transport.ErrStreamingDisabled):
		errorInfo.Kind = interfaces.TransportErrorKindDisabled
		errorInfo.Message = ""
	case errors.As(err, &statusErr):
		errorInfo.Kind = interfaces.TransportErrorKindErrorResponse
		errorInfo.StatusCode = statusErr.Code
		errorInfo.Message = ""
	}
	return errorInfo
}
