package sharedtest

import (
	"testing"
	"time"

	th "github.com/launchdarkly/go-test-helpers/v3"

	"github.com/pagebeacon/go-client/pbevents"

	"github.com/stretchr/testify/assert"
)

// RequireActions reads len(actions) events from the channel and asserts that their actions are
// the expected ones, in order.
func RequireActions(t *testing.T, ch <-chan pbevents.Event, timeout time.Duration, actions ...string) []pbevents.Event {
	t.Helper()
	ret := make([]pbevents.Event, 0, len(actions))
	for range actions {
		ret = append(ret, th.RequireValue(t, ch, timeout))
	}
	assert.Equal(t, actions, Actions(ret))
	return ret
}

// Actions returns the action of each event.
func Actions(events []pbevents.Event) []string {
	ret := make([]string, 0, len(events))
	for _, e := range events {
		ret = append(ret, e.Action)
	}
	return ret
}
