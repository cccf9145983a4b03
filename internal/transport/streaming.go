package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"nhooyr.io/websocket"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/pbevents"

	"golang.org/x/exp/maps"
)

const (
	// DefaultWriteTimeout is the default time allowed for writing one event to the stream.
	DefaultWriteTimeout = 10 * time.Second
	// DefaultStreamCapacity is the default number of events that can be queued for the stream writer.
	DefaultStreamCapacity = 1000
)

// StreamConfig describes the configuration for the streaming transport. It is exported so that
// it can be used in the StreamingTransportBuilder.
type StreamConfig struct {
	// URI is the complete WebSocket URI, including the page context query string.
	URI          string
	WriteTimeout time.Duration
	Capacity     int
}

// StreamConnector is the internal implementation of the streaming transport.
//
// This type is exported from internal so that the StreamingTransportBuilder tests can verify its
// configuration. All other code outside of this package should interact with it only via the
// StreamConnector interface.
type StreamConnector struct {
	cfg         StreamConfig
	client      *http.Client
	headers     http.Header
	loggers     ldlog.Loggers
	logPayloads bool
}

var _ interfaces.StreamConnector = (*StreamConnector)(nil)

// NewStreamConnector creates the internal implementation of the streaming transport.
func NewStreamConnector(context interfaces.ClientContext, cfg StreamConfig) *StreamConnector {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultStreamCapacity
	}
	c := &StreamConnector{
		cfg:         cfg,
		headers:     context.GetHTTP().DefaultHeaders,
		loggers:     context.GetLogging().Loggers,
		logPayloads: context.GetLogging().LogEventPayloads,
	}
	client := *context.GetHTTP().CreateHTTPClient()
	// The websocket library refuses a client with an overall timeout, since it would break the
	// connection after that time. The connect timeout is still applied by the client's Dialer, and
	// the handshake is bounded by the context passed to Connect.
	client.Timeout = 0
	c.client = &client
	return c
}

// Connect performs the WebSocket handshake. A handshake rejected with an HTTP status is reported as
// an HTTPStatusError.
func (c *StreamConnector) Connect(ctx context.Context) (interfaces.StreamConnection, error) {
	c.loggers.Infof("Connecting to event stream at %s", c.cfg.URI)
	conn, resp, err := websocket.Dial(ctx, c.cfg.URI, &websocket.DialOptions{
		HTTPClient: c.client,
		HTTPHeader: maps.Clone(c.headers),
	})
	if err != nil {
		if resp != nil && resp.StatusCode >= 300 {
			return nil, HTTPStatusError{Message: httpErrorDescription(resp.StatusCode), Code: resp.StatusCode}
		}
		return nil, err
	}
	return newStreamConnection(conn, c.cfg, c.loggers, c.logPayloads), nil
}

// GetURI returns the configured stream URI.
func (c *StreamConnector) GetURI() string {
	return c.cfg.URI
}

// GetWriteTimeout returns the configured write timeout.
func (c *StreamConnector) GetWriteTimeout() time.Duration {
	return c.cfg.WriteTimeout
}

// GetCapacity returns the configured writer queue capacity.
func (c *StreamConnector) GetCapacity() int {
	return c.cfg.Capacity
}

// streamConnection owns one open WebSocket. Send queues events for a single writer goroutine, which
// is the only code that writes to the socket, so messages go out in the order they were sent.
type streamConnection struct {
	conn         *websocket.Conn
	outCh        chan pbevents.Event
	halt         chan struct{}
	done         chan struct{}
	err          error
	errLock      sync.Mutex
	writeTimeout time.Duration
	loggers      ldlog.Loggers
	logPayloads  bool
	haltOnce     sync.Once
	endOnce      sync.Once
	fullOnce     sync.Once
}

func newStreamConnection(
	conn *websocket.Conn,
	cfg StreamConfig,
	loggers ldlog.Loggers,
	logPayloads bool,
) *streamConnection {
	c := &streamConnection{
		conn:         conn,
		outCh:        make(chan pbevents.Event, cfg.Capacity),
		halt:         make(chan struct{}),
		done:         make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
		loggers:      loggers,
		logPayloads:  logPayloads,
	}
	// Nothing is ever read from the collector; CloseRead handles control frames and cancels the
	// context once the connection is closed from the other end.
	readCtx := conn.CloseRead(context.Background())
	go c.run(readCtx)
	return c
}

func (c *streamConnection) Send(event pbevents.Event) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.outCh <- event:
	default:
		c.fullOnce.Do(func() {
			c.loggers.Warn("Events are being produced faster than the stream can send them; some events will be dropped")
		})
	}
}

func (c *streamConnection) Done() <-chan struct{} {
	return c.done
}

func (c *streamConnection) Err() error {
	c.errLock.Lock()
	defer c.errLock.Unlock()
	return c.err
}

// Close sends any events that are already queued, then closes the socket with a normal closure.
func (c *streamConnection) Close() error {
	c.haltOnce.Do(func() {
		close(c.halt)
	})
	<-c.done
	return nil
}

func (c *streamConnection) run(readCtx context.Context) {
	for {
		select {
		case event := <-c.outCh:
			if err := c.write(event); err != nil {
				_ = c.conn.Close(websocket.StatusInternalError, "write failed")
				c.end(fmt.Errorf("%w: %s", ErrStreamClosed, err))
				return
			}
		case <-readCtx.Done():
			c.end(ErrStreamClosed)
			return
		case <-c.halt:
			c.flush()
			_ = c.conn.Close(websocket.StatusNormalClosure, "")
			c.end(nil)
			return
		}
	}
}

func (c *streamConnection) flush() {
	for {
		select {
		case event := <-c.outCh:
			if err := c.write(event); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *streamConnection) write(event pbevents.Event) error {
	data := pbevents.SerializeEvent(event)
	if c.logPayloads {
		c.loggers.Debugf("Sending event over stream: %s", data)
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (c *streamConnection) end(err error) {
	c.endOnce.Do(func() {
		c.errLock.Lock()
		c.err = err
		c.errLock.Unlock()
		close(c.done)
	})
}
