package transport

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/pbevents"

	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSubmitWorkers is the default number of concurrent submit requests.
	DefaultSubmitWorkers = 5
	// DefaultSubmitCapacity is the default number of events that can wait for a submit worker.
	DefaultSubmitCapacity = 1000

	payloadIDHeader     = "X-Pagebeacon-Payload-ID"
	submitErrorContext  = "submitting event"
	submitDroppedReason = "event dropped"
)

// SubmitConfig describes the configuration for the fallback transport. It is exported so that
// it can be used in the FallbackTransportBuilder.
type SubmitConfig struct {
	// URI is the complete submit URI, including the page context query string.
	URI      string
	Workers  int
	Capacity int
}

// SubmitSink is the internal implementation of the fallback transport: every event becomes one
// POST request. Requests are made by a fixed pool of workers, so they may reach the collector in
// any order. Responses are read only to decide how to log a failure; nothing is retried.
type SubmitSink struct {
	cfg         SubmitConfig
	client      *http.Client
	headers     http.Header
	loggers     ldlog.Loggers
	logPayloads bool
	inbox       chan pbevents.Event
	workers     errgroup.Group
	closed      bool
	closeLock   sync.RWMutex
	closeOnce   sync.Once
	fullOnce    sync.Once
}

var _ interfaces.EventSink = (*SubmitSink)(nil)

// NewSubmitSink creates the fallback transport and starts its workers.
func NewSubmitSink(context interfaces.ClientContext, cfg SubmitConfig) *SubmitSink {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultSubmitWorkers
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultSubmitCapacity
	}
	s := &SubmitSink{
		cfg:         cfg,
		client:      context.GetHTTP().CreateHTTPClient(),
		headers:     context.GetHTTP().DefaultHeaders,
		loggers:     context.GetLogging().Loggers,
		logPayloads: context.GetLogging().LogEventPayloads,
		inbox:       make(chan pbevents.Event, cfg.Capacity),
	}
	for i := 0; i < cfg.Workers; i++ {
		s.workers.Go(func() error {
			for event := range s.inbox {
				s.post(event)
			}
			return nil
		})
	}
	return s
}

// Send queues the event for a worker. If the queue is full the event is dropped.
func (s *SubmitSink) Send(event pbevents.Event) {
	s.closeLock.RLock()
	defer s.closeLock.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.inbox <- event:
	default:
		s.fullOnce.Do(func() {
			s.loggers.Warn("Events are being produced faster than they can be submitted; some events will be dropped")
		})
	}
}

// Close waits for the workers to finish the requests that are already queued.
func (s *SubmitSink) Close() error {
	s.closeOnce.Do(func() {
		s.closeLock.Lock()
		s.closed = true
		close(s.inbox)
		s.closeLock.Unlock()
	})
	return s.workers.Wait()
}

// GetURI returns the configured submit URI.
func (s *SubmitSink) GetURI() string {
	return s.cfg.URI
}

// GetWorkers returns the configured number of workers.
func (s *SubmitSink) GetWorkers() int {
	return s.cfg.Workers
}

// GetCapacity returns the configured queue capacity.
func (s *SubmitSink) GetCapacity() int {
	return s.cfg.Capacity
}

func (s *SubmitSink) post(event pbevents.Event) {
	data := pbevents.SerializeEvent(event)
	if s.logPayloads {
		s.loggers.Debugf("Submitting event: %s", data)
	}

	req, err := http.NewRequest("POST", s.cfg.URI, bytes.NewReader(data))
	if err != nil {
		s.loggers.Errorf("Unexpected error while creating submit request: %+v", err)
		return
	}
	req.Header = make(http.Header)
	maps.Copy(req.Header, s.headers)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(payloadIDHeader, uuid.New().String())

	resp, err := s.client.Do(req)
	if err != nil {
		checkIfErrorIsRecoverableAndLog(s.loggers, err.Error(), submitErrorContext, 0, submitDroppedReason)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		checkIfErrorIsRecoverableAndLog(s.loggers, httpErrorDescription(resp.StatusCode), submitErrorContext,
			resp.StatusCode, submitDroppedReason)
	}
}
