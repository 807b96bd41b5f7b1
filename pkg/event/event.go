// Package event maps pub/sub notifications of the device management API to
// typed device events, resource updates and relation updates.
package event

import (
	"github.com/mwuertinger/nest-events/pkg/payload"
	"github.com/pkg/errors"
)

// Constructor builds an event from its raw data.
type Constructor func(data payload.Object) *Event

// Event is something a device detected, such as motion or a doorbell press.
// All event types share the same fields and differ only in Type.
type Event struct {
	typ  string
	data payload.Object
}

func NewEvent(typ string, data payload.Object) *Event {
	return &Event{typ: typ, data: data}
}

// For returns a Constructor producing events of type typ.
func For(typ string) Constructor {
	return func(data payload.Object) *Event {
		return NewEvent(typ, data)
	}
}

func (e *Event) Type() string {
	return e.typ
}

// ID is the unique event identifier.
func (e *Event) ID() (string, error) {
	return e.data.String("eventId")
}

// SessionID authenticates follow up requests related to this event, e.g.
// fetching an image of it.
func (e *Event) SessionID() (string, error) {
	return e.data.String("eventSessionId")
}

// BuildEvents constructs an event for every entry of events whose type is
// registered in r. Unknown types are skipped.
func BuildEvents(events payload.Object, r *Registry) (map[string]*Event, error) {
	result := make(map[string]*Event)
	for typ, v := range events {
		c, ok := r.Lookup(typ)
		if !ok {
			continue
		}
		data, err := payload.AsObject(v)
		if err != nil {
			return nil, errors.Wrapf(err, "event %s", typ)
		}
		result[typ] = c(data)
	}
	return result, nil
}

type RelationType string

const (
	Created RelationType = "CREATED"
	Updated RelationType = "UPDATED"
	Deleted RelationType = "DELETED"
)

func (t RelationType) Valid() bool {
	switch t {
	case Created, Updated, Deleted:
		return true
	}
	return false
}

// RelationUpdate reports a changed relationship between two resources, e.g. a
// device being assigned to a room.
type RelationUpdate struct {
	data payload.Object
}

func NewRelationUpdate(data payload.Object) *RelationUpdate {
	return &RelationUpdate{data: data}
}

// Type is passed through as received and may hold values other than the
// declared constants.
func (u *RelationUpdate) Type() (RelationType, error) {
	s, err := u.data.String("type")
	return RelationType(s), err
}

// Subject is the resource that the object is now in relation with.
func (u *RelationUpdate) Subject() (string, error) {
	return u.data.String("subject")
}

// Object is the resource that triggered the update.
func (u *RelationUpdate) Object() (string, error) {
	return u.data.String("object")
}
