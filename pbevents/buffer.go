package pbevents

// Buffer is an ordered queue of events that were produced before any transport was committed.
//
// It is append-only until it is drained; Drain can only succeed once, and a drained buffer rejects
// any further events. Buffer is not safe for concurrent use: it belongs to whichever goroutine owns
// the dispatch state.
type Buffer struct {
	events  []Event
	drained bool
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds an event at the end of the queue. It returns false, without storing the event, if
// the buffer has already been drained.
func (b *Buffer) Append(e Event) bool {
	if b.drained {
		return false
	}
	b.events = append(b.events, e)
	return true
}

// Drain returns every buffered event in insertion order and marks the buffer as used up. Calls
// after the first return nil.
func (b *Buffer) Drain() []Event {
	if b.drained {
		return nil
	}
	b.drained = true
	ret := b.events
	b.events = nil
	return ret
}

// Len returns the number of events currently held.
func (b *Buffer) Len() int {
	return len(b.events)
}

// IsDrained returns true if Drain has been called.
func (b *Buffer) IsDrained() bool {
	return b.drained
}
