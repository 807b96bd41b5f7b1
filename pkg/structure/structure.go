// Package structure models structures (homes) and rooms.
package structure

import (
	"github.com/mwuertinger/nest-events/pkg/payload"
	"github.com/mwuertinger/nest-events/pkg/trait"
	"github.com/pkg/errors"
)

const (
	InfoName     = "sdm.structures.traits.Info"
	RoomInfoName = "sdm.structures.traits.RoomInfo"
)

var structureTraits = map[string]func(payload.Object) trait.Trait{
	InfoName:     func(data payload.Object) trait.Trait { return &InfoTrait{data: data} },
	RoomInfoName: func(data payload.Object) trait.Trait { return &RoomInfoTrait{data: data} },
}

// InfoTrait holds structure related information.
type InfoTrait struct {
	data payload.Object
}

func (t *InfoTrait) Name() string { return InfoName }

func (t *InfoTrait) CustomName() (string, error) {
	return t.data.String("customName")
}

// RoomInfoTrait holds room related information.
type RoomInfoTrait struct {
	data payload.Object
}

func (t *RoomInfoTrait) Name() string { return RoomInfoName }

func (t *RoomInfoTrait) CustomName() (string, error) {
	return t.data.String("customName")
}

type Structure struct {
	raw    payload.Object
	traits map[string]trait.Trait
}

// MakeStructure creates a structure with all traits it knows about. Other
// traits are ignored.
func MakeStructure(raw payload.Object) (*Structure, error) {
	traits, err := raw.ObjectOrEmpty("traits")
	if err != nil {
		return nil, err
	}
	s := &Structure{raw: raw, traits: make(map[string]trait.Trait)}
	for name, v := range traits {
		c, ok := structureTraits[name]
		if !ok {
			continue
		}
		data, err := payload.AsObject(v)
		if err != nil {
			return nil, errors.Wrapf(err, "trait %s", name)
		}
		s.traits[name] = c(data)
	}
	return s, nil
}

// Name is the resource name such as "enterprises/XYZ/structures/123".
func (s *Structure) Name() (string, error) {
	return s.raw.String("name")
}

func (s *Structure) Traits() map[string]trait.Trait {
	return s.traits
}

// TraitData returns the raw data of the named trait, or an empty object.
func (s *Structure) TraitData(name string) payload.Object {
	traits, err := s.raw.ObjectOrEmpty("traits")
	if err != nil {
		return payload.Object{}
	}
	data, ok, err := traits.Object(name)
	if !ok || err != nil {
		return payload.Object{}
	}
	return data
}
