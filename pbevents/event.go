package pbevents

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const (
	// ViewAction is the action reported once when a client starts.
	ViewAction = "view"
	// PingAction is the action reported by the liveness pulse.
	PingAction = "ping"
)

// Event is a single reportable occurrence: a short action name plus a set of variables.
//
// An Event is immutable once created; Vars is an ldvalue.ValueMap, which cannot be modified after
// it is built.
type Event struct {
	// Action is a short identifier such as "view", "ping", or an application-defined name.
	Action string
	// Vars holds arbitrary variables for the action. An empty map is encoded as {}.
	Vars ldvalue.ValueMap
}

// NewEvent creates an Event.
func NewEvent(action string, vars ldvalue.ValueMap) Event {
	return Event{Action: action, Vars: vars}
}

// NewEventFromMap creates an Event from an arbitrary Go map, copying and converting its values
// with ldvalue.CopyArbitraryValue. A nil map produces an event with no variables.
func NewEventFromMap(action string, vars map[string]interface{}) Event {
	return Event{Action: action, Vars: ldvalue.CopyArbitraryValueMap(vars)}
}

// Equal returns true if both events have the same action and deeply equal variables.
func (e Event) Equal(other Event) bool {
	return e.Action == other.Action && e.Vars.Equal(other.Vars)
}

// String returns the JSON encoding of the event, for logging and test output.
func (e Event) String() string {
	return string(SerializeEvent(e))
}
