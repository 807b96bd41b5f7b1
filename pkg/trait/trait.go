// Package trait builds typed device traits out of resource payloads.
package trait

import (
	"context"

	"github.com/mwuertinger/nest-events/pkg/payload"
	"github.com/pkg/errors"
)

const (
	InfoName             = "sdm.devices.traits.Info"
	ConnectivityName     = "sdm.devices.traits.Connectivity"
	TemperatureName      = "sdm.devices.traits.Temperature"
	CameraEventImageName = "sdm.devices.traits.CameraEventImage"

	generateImageCommand = "sdm.devices.commands.CameraEventImage.GenerateImage"
)

type Trait interface {
	Name() string
}

// BuildFunc turns the traits section of a resource into trait objects bound
// to cmd.
type BuildFunc func(traits payload.Object, cmd *Command) (map[string]Trait, error)

type constructor func(data payload.Object, cmd *Command) Trait

var deviceTraits = map[string]constructor{
	InfoName: func(data payload.Object, _ *Command) Trait {
		return &Info{data: data}
	},
	ConnectivityName: func(data payload.Object, _ *Command) Trait {
		return &Connectivity{data: data}
	},
	TemperatureName: func(data payload.Object, _ *Command) Trait {
		return &Temperature{data: data}
	},
	CameraEventImageName: func(data payload.Object, cmd *Command) Trait {
		return &CameraEventImage{data: data, cmd: cmd}
	},
}

// Build is the default BuildFunc. Traits it does not know are skipped.
func Build(traits payload.Object, cmd *Command) (map[string]Trait, error) {
	result := make(map[string]Trait)
	for name, v := range traits {
		c, ok := deviceTraits[name]
		if !ok {
			continue
		}
		data, err := payload.AsObject(v)
		if err != nil {
			return nil, errors.Wrapf(err, "trait %s", name)
		}
		result[name] = c(data, cmd)
	}
	return result, nil
}

// Info holds the custom name of a device.
type Info struct {
	data payload.Object
}

func (t *Info) Name() string { return InfoName }

func (t *Info) CustomName() (string, error) {
	return t.data.String("customName")
}

// Connectivity reports whether a device is online.
type Connectivity struct {
	data payload.Object
}

func (t *Connectivity) Name() string { return ConnectivityName }

// Status is "ONLINE" or "OFFLINE".
func (t *Connectivity) Status() (string, error) {
	return t.data.String("status")
}

type Temperature struct {
	data payload.Object
}

func (t *Temperature) Name() string { return TemperatureName }

func (t *Temperature) AmbientCelsius() (float64, error) {
	return t.data.Float("ambientTemperatureCelsius")
}

// CameraEventImage fetches still images for camera events.
type CameraEventImage struct {
	data payload.Object
	cmd  *Command
}

func (t *CameraEventImage) Name() string { return CameraEventImageName }

// EventImage is a download location for an event image. Token goes into the
// Authorization header of the download request.
type EventImage struct {
	URL   string
	Token string
}

// GenerateImage requests an image for the event identified by eventID.
func (t *CameraEventImage) GenerateImage(ctx context.Context, eventID string) (*EventImage, error) {
	if t.cmd == nil {
		return nil, errors.New("camera event image: no command bound")
	}
	resp, err := t.cmd.Execute(ctx, generateImageCommand, map[string]interface{}{"eventId": eventID})
	if err != nil {
		return nil, err
	}
	results, err := resp.ObjectOrEmpty("results")
	if err != nil {
		return nil, err
	}
	url, err := results.String("url")
	if err != nil {
		return nil, errors.Wrap(err, "generate image results")
	}
	token, err := results.String("token")
	if err != nil {
		return nil, errors.Wrap(err, "generate image results")
	}
	return &EventImage{URL: url, Token: token}, nil
}
