package delivery

import (
	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/pbevents"
)

// binding is the current destination of reported events. Exactly one of the variants below is
// active at a time.
type binding interface {
	state() interfaces.TransportState
}

type bufferingBinding struct {
	buffer *pbevents.Buffer
}

type streamingBinding struct {
	conn interfaces.StreamConnection
}

// A nil sink means the fallback transport could not be created; events are dropped.
type fallbackBinding struct {
	sink interfaces.EventSink
}

type closedBinding struct{}

func (bufferingBinding) state() interfaces.TransportState { return interfaces.TransportStateBuffering }
func (streamingBinding) state() interfaces.TransportState { return interfaces.TransportStateStreaming }
func (fallbackBinding) state() interfaces.TransportState  { return interfaces.TransportStateFallback }
func (closedBinding) state() interfaces.TransportState    { return interfaces.TransportStateClosed }

// dispatcher routes events according to the current binding. It is not safe for concurrent use;
// the Negotiator's loop goroutine is its only user.
//
// The binding always changes before the buffer is drained, so an event dispatched during or after a
// commit can never overtake a buffered one.
type dispatcher struct {
	current binding
}

func newDispatcher() *dispatcher {
	return &dispatcher{current: bufferingBinding{buffer: pbevents.NewBuffer()}}
}

func (d *dispatcher) state() interfaces.TransportState {
	return d.current.state()
}

func (d *dispatcher) dispatch(event pbevents.Event) {
	switch b := d.current.(type) {
	case bufferingBinding:
		b.buffer.Append(event)
	case streamingBinding:
		b.conn.Send(event)
	case fallbackBinding:
		if b.sink != nil {
			b.sink.Send(event)
		}
	case closedBinding:
	}
}

// commitStreaming binds the dispatcher to an open stream. It returns false, and changes nothing, if
// a transport was already committed.
func (d *dispatcher) commitStreaming(conn interfaces.StreamConnection) bool {
	return d.commit(streamingBinding{conn: conn})
}

// commitFallback binds the dispatcher to the fallback transport. It returns false, and changes
// nothing, if a transport was already committed.
func (d *dispatcher) commitFallback(sink interfaces.EventSink) bool {
	return d.commit(fallbackBinding{sink: sink})
}

func (d *dispatcher) commit(target binding) bool {
	b, ok := d.current.(bufferingBinding)
	if !ok {
		return false
	}
	d.current = target
	for _, event := range b.buffer.Drain() {
		d.dispatch(event)
	}
	return true
}

// failOver moves from the given stream to the fallback transport. Events that were already handed
// to the stream are not resent. It returns false if conn is not the stream currently in use.
func (d *dispatcher) failOver(conn interfaces.StreamConnection, sink interfaces.EventSink) bool {
	b, ok := d.current.(streamingBinding)
	if !ok || b.conn != conn {
		return false
	}
	d.current = fallbackBinding{sink: sink}
	return true
}

// close makes the dispatcher drop all further events and returns the binding that was active, so
// that the caller can release its transport.
func (d *dispatcher) close() binding {
	previous := d.current
	d.current = closedBinding{}
	return previous
}
