package pbevents

import (
	"errors"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

var errMissingAction = errors.New("event has no action")

// SerializeEvent returns the JSON payload for an event, as sent by both the streaming and the
// fallback transport: {"action":"...","vars":{...}}.
func SerializeEvent(e Event) []byte {
	w := jwriter.NewWriter()
	WriteEvent(&w, e)
	return w.Bytes()
}

// WriteEvent writes the JSON representation of an event to an existing writer.
func WriteEvent(w *jwriter.Writer, e Event) {
	obj := w.Object()
	obj.Name("action").String(e.Action)
	if e.Vars.Count() == 0 {
		// a ValueMap with no data would otherwise be written as null
		vars := obj.Name("vars").Object()
		vars.End()
	} else {
		e.Vars.WriteToJSONWriter(obj.Name("vars"))
	}
	obj.End()
}

// ParseEvent decodes an event payload produced by SerializeEvent. Unknown properties are ignored;
// a missing or null "vars" property produces an event with no variables.
func ParseEvent(data []byte) (Event, error) {
	r := jreader.NewReader(data)
	var e Event
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "action":
			e.Action = r.String()
		case "vars":
			e.Vars.ReadFromJSONReader(&r)
		}
	}
	if err := r.Error(); err != nil {
		return Event{}, err
	}
	if e.Action == "" {
		return Event{}, errMissingAction
	}
	return e, nil
}
