package internal

import (
	"sync"
	"time"

	"github.com/pagebeacon/go-client/interfaces"
)

// TransportStatusTracker holds the current TransportStatus and notifies listeners of changes. It is the
// client's implementation of interfaces.TransportStatusProvider; the delivery loop is its only writer.
type TransportStatusTracker struct {
	broadcaster *Broadcaster[interfaces.TransportStatus]
	status      interfaces.TransportStatus
	lock        sync.Mutex
}

var _ interfaces.TransportStatusProvider = (*TransportStatusTracker)(nil)

// NewTransportStatusTracker creates a tracker whose initial state is TransportStateBuffering.
func NewTransportStatusTracker() *TransportStatusTracker {
	return &TransportStatusTracker{
		broadcaster: NewBroadcaster[interfaces.TransportStatus](),
		status: interfaces.TransportStatus{
			State:      interfaces.TransportStateBuffering,
			StateSince: time.Now(),
		},
	}
}

// UpdateStatus records a state transition, and the error that caused it if any. Updates after the
// state has become TransportStateClosed are ignored, as are updates that change nothing.
func (t *TransportStatusTracker) UpdateStatus(newState interfaces.TransportState, newError interfaces.TransportErrorInfo) {
	t.lock.Lock()
	if t.status.State == interfaces.TransportStateClosed ||
		(newState == t.status.State && newError.Kind == "") {
		t.lock.Unlock()
		return
	}
	if newState != t.status.State {
		t.status.State = newState
		t.status.StateSince = time.Now()
	}
	if newError.Kind != "" {
		t.status.LastError = newError
	}
	status := t.status
	t.lock.Unlock()

	t.broadcaster.Broadcast(status)
}

// GetStatus is a standard method of TransportStatusProvider.
func (t *TransportStatusTracker) GetStatus() interfaces.TransportStatus {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.status
}

// AddStatusListener is a standard method of TransportStatusProvider.
func (t *TransportStatusTracker) AddStatusListener() <-chan interfaces.TransportStatus {
	return t.broadcaster.AddListener()
}

// RemoveStatusListener is a standard method of TransportStatusProvider.
func (t *TransportStatusTracker) RemoveStatusListener(listener <-chan interfaces.TransportStatus) {
	t.broadcaster.RemoveListener(listener)
}

// WaitFor is a standard method of TransportStatusProvider.
func (t *TransportStatusTracker) WaitFor(desiredState interfaces.TransportState, timeout time.Duration) bool {
	return t.waitUntil(func(s interfaces.TransportState) bool { return s == desiredState }, timeout)
}

// WaitForCommit blocks until a transport has been committed, the tracker is closed, or the timeout
// elapses. It returns true if a transport was committed.
func (t *TransportStatusTracker) WaitForCommit(timeout time.Duration) bool {
	return t.waitUntil(interfaces.TransportState.IsCommitted, timeout)
}

func (t *TransportStatusTracker) waitUntil(condition func(interfaces.TransportState) bool, timeout time.Duration) bool {
	t.lock.Lock()
	if condition(t.status.State) {
		t.lock.Unlock()
		return true
	}
	if t.status.State == interfaces.TransportStateClosed {
		t.lock.Unlock()
		return false
	}

	statusCh := t.broadcaster.AddListener()
	defer t.broadcaster.RemoveListener(statusCh)
	t.lock.Unlock()

	var deadline <-chan time.Time
	if timeout > 0 {
		deadline = time.After(timeout)
	}

	for {
		select {
		case newStatus, ok := <-statusCh:
			if !ok {
				return false
			}
			if condition(newStatus.State) {
				return true
			}
			if newStatus.State == interfaces.TransportStateClosed {
				return false
			}
		case <-deadline:
			return false
		}
	}
}

// Close shuts down all status listeners.
func (t *TransportStatusTracker) Close() {
	t.broadcaster.Close()
}
