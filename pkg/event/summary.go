package event

import (
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Summary is a flat, serializable view of a message.
type Summary struct {
	EventID   string           `json:"eventId"`
	Timestamp time.Time        `json:"timestamp"`
	Device    string           `json:"device,omitempty"`
	Events    []EventSummary   `json:"events,omitempty"`
	Traits    []string         `json:"traits,omitempty"`
	Relation  *RelationSummary `json:"relation,omitempty"`
}

// EventSummary describes one event. Error is set if a field of the event
// could not be read; the rest of the message is still summarized.
type EventSummary struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Error     string `json:"error,omitempty"`
}

type RelationSummary struct {
	Type    RelationType `json:"type"`
	Subject string       `json:"subject"`
	Object  string       `json:"object"`
}

func summarizeEvent(typ string, e *Event) EventSummary {
	es := EventSummary{Type: typ}
	var err error
	if es.ID, err = e.ID(); err != nil {
		es.Error = err.Error()
		return es
	}
	if es.SessionID, err = e.SessionID(); err != nil {
		es.Error = err.Error()
	}
	return es
}

// Summarize reads every section of msg. It fails on the first missing or
// malformed field, except for fields of individual events, which are
// reported in EventSummary.Error.
func Summarize(msg *Message) (Summary, error) {
	var s Summary
	var err error

	if s.EventID, err = msg.EventID(); err != nil {
		return s, errors.Wrap(err, "event id")
	}
	if s.Timestamp, err = msg.Timestamp(); err != nil {
		return s, errors.Wrap(err, "timestamp")
	}

	name, ok, err := msg.ResourceUpdateName()
	if err != nil {
		return s, errors.Wrap(err, "resource update")
	}
	if ok {
		s.Device = name

		events, _, err := msg.ResourceUpdateEvents()
		if err != nil {
			return s, errors.Wrap(err, "resource update events")
		}
		for typ, e := range events {
			s.Events = append(s.Events, summarizeEvent(typ, e))
		}
		sort.Slice(s.Events, func(i, j int) bool { return s.Events[i].Type < s.Events[j].Type })

		traits, _, err := msg.ResourceUpdateTraits()
		if err != nil {
			return s, errors.Wrap(err, "resource update traits")
		}
		for name := range traits {
			s.Traits = append(s.Traits, name)
		}
		sort.Strings(s.Traits)
	}

	update, ok, err := msg.RelationUpdate()
	if err != nil {
		return s, errors.Wrap(err, "relation update")
	}
	if ok {
		var r RelationSummary
		if r.Type, err = update.Type(); err != nil {
			return s, errors.Wrap(err, "relation update")
		}
		if r.Subject, err = update.Subject(); err != nil {
			return s, errors.Wrap(err, "relation update")
		}
		if r.Object, err = update.Object(); err != nil {
			return s, errors.Wrap(err, "relation update")
		}
		s.Relation = &r
	}

	return s, nil
}
