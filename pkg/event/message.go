package event

import (
	"strings"
	"time"

	"github.com/mwuertinger/nest-events/pkg/payload"
	"github.com/mwuertinger/nest-events/pkg/trait"
	"github.com/pkg/errors"
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

var defaultRegistry = DefaultRegistry()

// timestamp layouts tried in order after a trailing Z has been replaced by
// an explicit offset. Timestamps without offset are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15",
	"2006-01-02",
}

// Decoder creates messages bound to a set of collaborators.
type Decoder struct {
	// Auth is handed to traits so they can issue device commands.
	Auth        trait.Auth
	Registry    *Registry
	BuildTraits trait.BuildFunc
}

// NewDecoder returns a decoder using the known event types and device traits.
func NewDecoder(auth trait.Auth) *Decoder {
	return &Decoder{
		Auth:        auth,
		Registry:    defaultRegistry,
		BuildTraits: trait.Build,
	}
}

// Decode parses a JSON notification.
func (d *Decoder) Decode(data []byte) (*Message, error) {
	raw, err := payload.Decode(data)
	if err != nil {
		return nil, err
	}
	return d.Message(raw), nil
}

func (d *Decoder) Message(raw payload.Object) *Message {
	return &Message{
		raw:         raw,
		auth:        d.Auth,
		registry:    d.Registry,
		buildTraits: d.BuildTraits,
	}
}

// Message is a notification received from the pub/sub channel. It carries
// either a resource update or a relation update. Fields are looked up when
// accessed, so a broken section does not affect the others.
type Message struct {
	raw         payload.Object
	auth        trait.Auth
	registry    *Registry
	buildTraits trait.BuildFunc
}

// NewMessage wraps raw using the known event types and device traits.
func NewMessage(raw payload.Object, auth trait.Auth) *Message {
	return NewDecoder(auth).Message(raw)
}

func (m *Message) Raw() payload.Object {
	return m.raw
}

// EventID is the unique identifier of the notification.
func (m *Message) EventID() (string, error) {
	return m.raw.String("eventId")
}

// Timestamp is the time the notification was published, in UTC.
func (m *Message) Timestamp() (time.Time, error) {
	s, err := m.raw.String("timestamp")
	if err != nil {
		return time.Time{}, err
	}
	return parseTimestamp(s)
}

func parseTimestamp(s string) (time.Time, error) {
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrMalformedTimestamp, "%q", s)
}

func (m *Message) resourceUpdate() (payload.Object, bool, error) {
	return m.raw.Object("resourceUpdate")
}

// ResourceUpdateName returns the name of the updated device. ok is false if
// the message carries no resource update.
func (m *Message) ResourceUpdateName() (name string, ok bool, err error) {
	update, ok, err := m.resourceUpdate()
	if !ok || err != nil {
		return "", ok, err
	}
	name, err = update.String("name")
	return name, true, err
}

// ResourceUpdateEvents returns the events of the resource update keyed by
// event type. Unknown event types are left out.
func (m *Message) ResourceUpdateEvents() (events map[string]*Event, ok bool, err error) {
	update, ok, err := m.resourceUpdate()
	if !ok || err != nil {
		return nil, ok, err
	}
	raw, err := update.ObjectOrEmpty("events")
	if err != nil {
		return nil, true, err
	}
	registry := m.registry
	if registry == nil {
		registry = defaultRegistry
	}
	events, err = BuildEvents(raw, registry)
	return events, true, err
}

// ResourceUpdateTraits returns the updated traits keyed by trait name. The
// traits can issue commands against the updated device.
func (m *Message) ResourceUpdateTraits() (traits map[string]trait.Trait, ok bool, err error) {
	update, ok, err := m.resourceUpdate()
	if !ok || err != nil {
		return nil, ok, err
	}
	name, err := update.String("name")
	if err != nil {
		return nil, true, err
	}
	raw, err := update.ObjectOrEmpty("traits")
	if err != nil {
		return nil, true, err
	}
	build := m.buildTraits
	if build == nil {
		build = trait.Build
	}
	traits, err = build(raw, trait.NewCommand(name, m.auth))
	return traits, true, err
}

// RelationUpdate returns the relation update of the message. ok is false if
// there is none.
func (m *Message) RelationUpdate() (update *RelationUpdate, ok bool, err error) {
	data, ok, err := m.raw.Object("relationUpdate")
	if !ok || err != nil {
		return nil, ok, err
	}
	return NewRelationUpdate(data), true, nil
}
