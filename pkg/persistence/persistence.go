// Package persistence keeps the most recent notifications in memory.
package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/mwuertinger/nest-events/pkg/event"
)

// Store remembers the latest summary per device and per event type. It is an
// event.Callback.
type Store struct {
	devices sync.Map // device name -> event.Summary
	events  sync.Map // event type -> event.Summary
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) HandleEvent(ctx context.Context, msg *event.Message) error {
	summary, err := event.Summarize(msg)
	if err != nil {
		return err
	}
	s.Put(summary)
	return nil
}

// Put records summary. Relation updates are filed under the resource that
// triggered them.
func (s *Store) Put(summary event.Summary) {
	device := summary.Device
	if device == "" && summary.Relation != nil {
		device = summary.Relation.Object
	}
	if device != "" {
		s.devices.Store(device, summary)
	}
	for _, e := range summary.Events {
		s.events.Store(e.Type, summary)
	}
}

func (s *Store) Device(name string) (event.Summary, bool) {
	return load(&s.devices, name)
}

// LastEvent returns the latest message that carried an event of type typ.
func (s *Store) LastEvent(typ string) (event.Summary, bool) {
	return load(&s.events, typ)
}

func (s *Store) Devices() []string {
	var names []string
	s.devices.Range(func(key, _ interface{}) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}

func load(m *sync.Map, key string) (event.Summary, bool) {
	value, ok := m.Load(key)
	if !ok {
		return event.Summary{}, false
	}
	return value.(event.Summary), true
}
