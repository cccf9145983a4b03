package pbservices

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/eventsource"
	"github.com/patrickmn/go-cache"
	"nhooyr.io/websocket"

	"github.com/pagebeacon/go-client/pbevents"
)

const (
	// StreamPath is the request path for the WebSocket transport.
	StreamPath = "/events/stream"
	// SubmitPath is the request path for the fallback transport.
	SubmitPath = "/events/submit"
	// FeedPath is the request path of the Server-Sent Events feed of everything the collector receives.
	FeedPath = "/events/feed"

	// DefaultLivenessTTL is how long a page is considered live after its last event.
	DefaultLivenessTTL = 90 * time.Second

	feedChannel         = "events"
	receivedEventBuffer = 1000
)

// Transport identifies which transport delivered an event.
type Transport string

const (
	// TransportStream means the event arrived as a WebSocket message.
	TransportStream Transport = "stream"
	// TransportSubmit means the event arrived in a submit request.
	TransportSubmit Transport = "submit"
)

// ReceivedEvent is an event as it was seen by the Collector.
type ReceivedEvent struct {
	Event     pbevents.Event
	Transport Transport
	PageURL   string
	Referrer  string
	UserAgent string
}

// CollectorOption is an option for NewCollector.
type CollectorOption func(*Collector)

// RejectStreaming makes the collector refuse every WebSocket handshake with the given HTTP status.
func RejectStreaming(status int) CollectorOption {
	return func(c *Collector) { c.rejectStatus = status }
}

// StallStreaming makes the collector accept WebSocket handshake requests but never answer them, so
// that the client's connection attempt stays pending until it gives up.
func StallStreaming() CollectorOption {
	return func(c *Collector) { c.stall = true }
}

// LivenessTTL sets how long a page is considered live after its last event.
func LivenessTTL(ttl time.Duration) CollectorOption {
	return func(c *Collector) { c.livenessTTL = ttl }
}

// Collector is an http.Handler that simulates the collection endpoint.
//
//	collector := pbservices.NewCollector()
//	defer collector.Close()
//	server := httptest.NewServer(collector)
//	client, _ := pagebeacon.MakeCustomClient(pageURL, "", pagebeacon.Config{
//	    ServiceEndpoints: pbcomponents.CollectorEndpoints(server.URL),
//	}, 5*time.Second)
//	e := <-collector.Events
type Collector struct {
	// Events receives every event the collector accepts, in the order it accepted them.
	Events chan ReceivedEvent

	router       *mux.Router
	feed         *eventsource.Server
	activePages  *cache.Cache
	livenessTTL  time.Duration
	rejectStatus int
	stall        bool
	streams      map[*websocket.Conn]struct{}
	feedID       uint64
	feedClosed   bool
	feedLock     sync.RWMutex
	closeCh      chan struct{}
	closeOnce    sync.Once
	lock         sync.Mutex
}

// NewCollector creates a Collector.
func NewCollector(options ...CollectorOption) *Collector {
	c := &Collector{
		Events:      make(chan ReceivedEvent, receivedEventBuffer),
		feed:        eventsource.NewServer(),
		livenessTTL: DefaultLivenessTTL,
		streams:     make(map[*websocket.Conn]struct{}),
		closeCh:     make(chan struct{}),
	}
	for _, o := range options {
		o(c)
	}
	c.activePages = cache.New(c.livenessTTL, c.livenessTTL)

	router := mux.NewRouter()
	router.HandleFunc(StreamPath, c.handleStream).Methods("GET")
	router.HandleFunc(SubmitPath, c.handleSubmit).Methods("POST")
	router.Handle(FeedPath, c.feed.Handler(feedChannel)).Methods("GET")
	c.router = router
	return c
}

func (c *Collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.router.ServeHTTP(w, r)
}

// ActivePages returns the page URLs that have sent any event within the liveness TTL, sorted.
func (c *Collector) ActivePages() []string {
	items := c.activePages.Items()
	ret := make([]string, 0, len(items))
	for page := range items {
		ret = append(ret, page)
	}
	sort.Strings(ret)
	return ret
}

// OpenStreams returns the number of WebSocket connections that are currently open.
func (c *Collector) OpenStreams() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.streams)
}

// DropStreams closes every open WebSocket connection from the server side.
func (c *Collector) DropStreams() {
	c.lock.Lock()
	conns := make([]*websocket.Conn, 0, len(c.streams))
	for conn := range c.streams {
		conns = append(conns, conn)
	}
	c.lock.Unlock()
	for _, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, "collector dropped the stream")
	}
}

// Close drops all streams, releases any stalled handshakes, and closes the feed.
func (c *Collector) Close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
		c.DropStreams()
		c.feedLock.Lock()
		c.feedClosed = true
		c.feed.Close()
		c.feedLock.Unlock()
	})
}

func (c *Collector) handleStream(w http.ResponseWriter, r *http.Request) {
	if c.stall {
		select {
		case <-r.Context().Done():
		case <-c.closeCh:
		}
		return
	}
	if c.rejectStatus != 0 {
		w.WriteHeader(c.rejectStatus)
		return
	}
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	c.lock.Lock()
	c.streams[conn] = struct{}{}
	c.lock.Unlock()
	defer func() {
		c.lock.Lock()
		delete(c.streams, conn)
		c.lock.Unlock()
	}()

	received := receivedFrom(r, TransportStream)
	for {
		messageType, data, err := conn.Read(r.Context())
		if err != nil {
			return
		}
		if messageType != websocket.MessageText {
			_ = conn.Close(websocket.StatusUnsupportedData, "events must be text messages")
			return
		}
		event, err := pbevents.ParseEvent(data)
		if err != nil {
			_ = conn.Close(websocket.StatusInvalidFramePayloadData, "malformed event")
			return
		}
		received.Event = event
		c.record(received)
	}
}

func (c *Collector) handleSubmit(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	event, err := pbevents.ParseEvent(data)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	received := receivedFrom(r, TransportSubmit)
	received.Event = event
	c.record(received)
	w.WriteHeader(http.StatusAccepted)
}

func (c *Collector) record(e ReceivedEvent) {
	c.activePages.Set(e.PageURL, time.Now(), cache.DefaultExpiration)
	c.feedLock.RLock()
	if !c.feedClosed {
		id := atomic.AddUint64(&c.feedID, 1)
		c.feed.Publish([]string{feedChannel}, feedEvent{id: strconv.FormatUint(id, 10), data: e.Event.String()})
	}
	c.feedLock.RUnlock()
	select {
	case c.Events <- e:
	case <-c.closeCh:
	}
}

func receivedFrom(r *http.Request, transport Transport) ReceivedEvent {
	q := r.URL.Query()
	return ReceivedEvent{
		Transport: transport,
		PageURL:   q.Get("url"),
		Referrer:  q.Get("referer"),
		UserAgent: r.Header.Get("User-Agent"),
	}
}

type feedEvent struct {
	id   string
	data string
}

func (e feedEvent) Id() string    { return e.id } //nolint:revive // required by eventsource.Event
func (e feedEvent) Event() string { return "event" }
func (e feedEvent) Data() string  { return e.data }
