package delivery

import (
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	th "github.com/launchdarkly/go-test-helpers/v3"

	"github.com/pagebeacon/go-client/interfaces"
	"github.com/pagebeacon/go-client/internal/sharedtest"
	"github.com/pagebeacon/go-client/internal/sharedtest/mocks"
	"github.com/pagebeacon/go-client/pbevents"

	"github.com/stretchr/testify/assert"
)

func makeEvent(action string) pbevents.Event {
	return pbevents.NewEvent(action, ldvalue.ValueMap{})
}

func TestDispatcherBuffersUntilCommitted(t *testing.T) {
	d := newDispatcher()
	assert.Equal(t, interfaces.TransportStateBuffering, d.state())

	d.dispatch(makeEvent("a"))
	d.dispatch(makeEvent("b"))

	b := d.current.(bufferingBinding)
	assert.Equal(t, 2, b.buffer.Len())
}

func TestDispatcherDrainsBufferInOrderOnCommit(t *testing.T) {
	for _, params := range []struct {
		name   string
		commit func(*dispatcher, *mocks.MockStreamConnection, *mocks.CapturingEventSink) bool
		events func(*mocks.MockStreamConnection, *mocks.CapturingEventSink) chan pbevents.Event
		state  interfaces.TransportState
	}{
		{
			"streaming",
			func(d *dispatcher, c *mocks.MockStreamConnection, _ *mocks.CapturingEventSink) bool {
				return d.commitStreaming(c)
			},
			func(c *mocks.MockStreamConnection, _ *mocks.CapturingEventSink) chan pbevents.Event { return c.Events },
			interfaces.TransportStateStreaming,
		},
		{
			"fallback",
			func(d *dispatcher, _ *mocks.MockStreamConnection, s *mocks.CapturingEventSink) bool {
				return d.commitFallback(s)
			},
			func(_ *mocks.MockStreamConnection, s *mocks.CapturingEventSink) chan pbevents.Event { return s.Events },
			interfaces.TransportStateFallback,
		},
	} {
		t.Run(params.name, func(t *testing.T) {
			d := newDispatcher()
			conn, sink := mocks.NewMockStreamConnection(), mocks.NewCapturingEventSink()
			d.dispatch(makeEvent("a"))
			d.dispatch(makeEvent("b"))

			assert.True(t, params.commit(d, conn, sink))
			assert.Equal(t, params.state, d.state())

			d.dispatch(makeEvent("c"))
			sharedtest.RequireActions(t, params.events(conn, sink), time.Second, "a", "b", "c")
		})
	}
}

func TestDispatcherSecondCommitIsNoOp(t *testing.T) {
	t.Run("streaming then fallback", func(t *testing.T) {
		d := newDispatcher()
		conn, sink := mocks.NewMockStreamConnection(), mocks.NewCapturingEventSink()
		d.dispatch(makeEvent("a"))

		assert.True(t, d.commitStreaming(conn))
		assert.False(t, d.commitFallback(sink))
		assert.Equal(t, interfaces.TransportStateStreaming, d.state())

		d.dispatch(makeEvent("b"))
		sharedtest.RequireActions(t, conn.Events, time.Second, "a", "b")
		th.AssertNoMoreValues(t, sink.Events, 10*time.Millisecond)
	})

	t.Run("fallback then streaming", func(t *testing.T) {
		d := newDispatcher()
		conn, sink := mocks.NewMockStreamConnection(), mocks.NewCapturingEventSink()
		d.dispatch(makeEvent("a"))

		assert.True(t, d.commitFallback(sink))
		assert.False(t, d.commitStreaming(conn))
		assert.Equal(t, interfaces.TransportStateFallback, d.state())

		d.dispatch(makeEvent("b"))
		sharedtest.RequireActions(t, sink.Events, time.Second, "a", "b")
		th.AssertNoMoreValues(t, conn.Events, 10*time.Millisecond)
	})
}

func TestDispatcherFailOver(t *testing.T) {
	d := newDispatcher()
	conn, otherConn, sink := mocks.NewMockStreamConnection(), mocks.NewMockStreamConnection(), mocks.NewCapturingEventSink()

	assert.False(t, d.failOver(conn, sink), "cannot fail over while buffering")

	d.commitStreaming(conn)
	d.dispatch(makeEvent("a"))
	assert.False(t, d.failOver(otherConn, sink), "cannot fail over from a stream that is not in use")

	assert.True(t, d.failOver(conn, sink))
	assert.Equal(t, interfaces.TransportStateFallback, d.state())
	d.dispatch(makeEvent("b"))

	sharedtest.RequireActions(t, conn.Events, time.Second, "a")
	sharedtest.RequireActions(t, sink.Events, time.Second, "b")
	th.AssertNoMoreValues(t, conn.Events, 10*time.Millisecond)
}

func TestDispatcherFallbackWithoutSinkDropsEvents(t *testing.T) {
	d := newDispatcher()
	d.dispatch(makeEvent("a"))
	assert.True(t, d.commitFallback(nil))
	d.dispatch(makeEvent("b"))
	assert.Equal(t, interfaces.TransportStateFallback, d.state())
}

func TestDispatcherClose(t *testing.T) {
	d := newDispatcher()
	sink := mocks.NewCapturingEventSink()
	d.commitFallback(sink)

	previous := d.close()
	assert.Equal(t, fallbackBinding{sink: sink}, previous)
	assert.Equal(t, interfaces.TransportStateClosed, d.state())
	assert.False(t, d.commitStreaming(mocks.NewMockStreamConnection()))

	d.dispatch(makeEvent("a"))
	th.AssertNoMoreValues(t, sink.Events, 10*time.Millisecond)
}
