package event

import "sort"

const (
	CameraMotion  = "sdm.devices.events.CameraMotion.Motion"
	CameraPerson  = "sdm.devices.events.CameraPerson.Person"
	CameraSound   = "sdm.devices.events.CameraSound.Sound"
	DoorbellChime = "sdm.devices.events.DoorbellChime.Chime"
)

// knownTypes lists every event type the default registry understands.
var knownTypes = []string{
	CameraMotion,
	CameraPerson,
	CameraSound,
	DoorbellChime,
}

// Registry maps event type names to constructors. It is not safe for
// concurrent registration; populate it before sharing.
type Registry struct {
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// DefaultRegistry returns a new registry holding all known event types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, name := range knownTypes {
		r.Register(name, For(name))
	}
	return r
}

// Register associates name with c. An existing registration for name is
// replaced.
func (r *Registry) Register(name string, c Constructor) {
	r.constructors[name] = c
}

func (r *Registry) Lookup(name string) (Constructor, bool) {
	c, ok := r.constructors[name]
	return c, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
