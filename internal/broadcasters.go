package internal

import (
	"sync"

	"golang.org/x/exp/slices"
)

// This file defines the publish-subscribe model we use for status notifications.
//
// The standard pattern is that AddListener returns a new receive-only channel; RemoveListener unsubscribes
// that channel, and closes the sending end of it; Broadcast sends a value to all of the subscribed channels
// (if any); and Close unsubscribes and closes all existing channels.

// Arbitrary buffer size to make it less likely that we'll block when broadcasting to channels. It is still
// the consumer's responsibility to make sure they're reading the channel.
const subscriberChannelBufferLength = 10

// Broadcaster is our generalized implementation of broadcasters.
type Broadcaster[V any] struct {
	subscribers []*subscriber[V]
	closed      bool
	lock        sync.Mutex
}

// We need to keep track of both the channel we use for sending and the receive-only view of it
// that was handed out, since the two have different types and cannot be compared with each other.
//
// A subscriber may be removed while a Broadcast that copied the subscriber list is still sending to
// it. removed wakes up such a send, and sendLock keeps the channel from being closed until the send
// has given up.
type subscriber[V any] struct {
	sendCh    chan<- V
	receiveCh <-chan V
	removed   chan struct{}
	sendLock  sync.RWMutex
	isClosed  bool
}

// NewBroadcaster creates a Broadcaster that operates on the specified value type.
func NewBroadcaster[V any]() *Broadcaster[V] {
	return &Broadcaster[V]{}
}

// AddListener adds a subscriber and returns a channel for it to receive values. If the Broadcaster
// has already been closed, the returned channel is closed too.
func (b *Broadcaster[V]) AddListener() <-chan V {
	ch := make(chan V, subscriberChannelBufferLength)
	var receiveCh <-chan V = ch
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		close(ch)
		return receiveCh
	}
	b.subscribers = append(b.subscribers, &subscriber[V]{sendCh: ch, receiveCh: receiveCh, removed: make(chan struct{})})
	return receiveCh
}

// RemoveListener removes a subscriber. The parameter is the same channel that was returned by
// AddListener. It is safe to call while a Broadcast is in progress.
func (b *Broadcaster[V]) RemoveListener(ch <-chan V) {
	var found *subscriber[V]
	b.lock.Lock()
	ss := b.subscribers
	for i, s := range ss {
		if s.receiveCh == ch {
			copy(ss[i:], ss[i+1:])
			ss[len(ss)-1] = nil
			b.subscribers = ss[:len(ss)-1]
			found = s
			break
		}
	}
	b.lock.Unlock()
	if found != nil {
		found.close()
	}
}

// HasListeners returns true if there are any current subscribers.
func (b *Broadcaster[V]) HasListeners() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.subscribers) > 0
}

// Broadcast broadcasts a value to all current subscribers. It may block if a subscriber is not
// consuming its channel; the subscriber list is copied first so that this never prevents other
// goroutines from adding or removing listeners.
func (b *Broadcaster[V]) Broadcast(value V) {
	b.lock.Lock()
	ss := slices.Clone(b.subscribers)
	b.lock.Unlock()
	for _, s := range ss {
		s.send(value)
	}
}

// Close closes all current subscriber channels.
func (b *Broadcaster[V]) Close() {
	b.lock.Lock()
	ss := b.subscribers
	b.subscribers = nil
	b.closed = true
	b.lock.Unlock()
	for _, s := range ss {
		s.close()
	}
}

func (s *subscriber[V]) send(value V) {
	s.sendLock.RLock()
	defer s.sendLock.RUnlock()
	if s.isClosed {
		return
	}
	select {
	case s.sendCh <- value:
	case <-s.removed:
	}
}

func (s *subscriber[V]) close() {
	close(s.removed)
	s.sendLock.Lock()
	s.isClosed = true
	close(s.sendCh)
	s.sendLock.Unlock()
}
