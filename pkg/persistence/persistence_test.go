package persistence

import (
	"context"
	"reflect"
	"testing"

	"github.com/mwuertinger/nest-events/pkg/event"
	"github.com/mwuertinger/nest-events/pkg/payload"
)

func message(t *testing.T, data string) *event.Message {
	t.Helper()
	msg, err := event.NewDecoder(nil).Decode([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestStore(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.HandleEvent(ctx, message(t, `{
		"eventId": "1",
		"timestamp": "2021-07-01T12:00:00Z",
		"resourceUpdate": {
			"name": "devices/cam",
			"events": {"sdm.devices.events.CameraPerson.Person": {"eventId": "p1", "eventSessionId": "s1"}}
		}
	}`))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	err = s.HandleEvent(ctx, message(t, `{
		"eventId": "2",
		"timestamp": "2021-07-01T12:01:00Z",
		"relationUpdate": {"type": "CREATED", "subject": "structures/home", "object": "devices/bell"}
	}`))
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if devices := s.Devices(); !reflect.DeepEqual(devices, []string{"devices/bell", "devices/cam"}) {
		t.Errorf("Devices() = %v", devices)
	}

	cam, ok := s.Device("devices/cam")
	if !ok || cam.EventID != "1" {
		t.Errorf("Device(cam) = %+v, %v", cam, ok)
	}
	bell, ok := s.Device("devices/bell")
	if !ok || bell.Relation == nil || bell.Relation.Subject != "structures/home" {
		t.Errorf("Device(bell) = %+v, %v", bell, ok)
	}

	last, ok := s.LastEvent(event.CameraPerson)
	if !ok || last.EventID != "1" {
		t.Errorf("LastEvent(person) = %+v, %v", last, ok)
	}
	if _, ok := s.LastEvent(event.CameraMotion); ok {
		t.Error("LastEvent(motion): expected nothing")
	}
	if _, ok := s.Device("devices/unknown"); ok {
		t.Error("Device(unknown): expected nothing")
	}
}

func TestStoreRejectsIncompleteMessage(t *testing.T) {
	s := NewStore()
	msg := event.NewMessage(payload.Object{"eventId": "1"}, nil)
	if err := s.HandleEvent(context.Background(), msg); err == nil {
		t.Fatal("expected error")
	}
	if len(s.Devices()) != 0 {
		t.Errorf("unexpected devices: %v", s.Devices())
	}
}
