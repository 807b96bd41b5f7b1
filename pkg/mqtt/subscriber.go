package mqtt

import (
	"context"
	"log"
	"time"

	"github.com/mwuertinger/nest-events/pkg/event"
)

// Subscriber turns raw notifications into messages and hands them to a
// callback. Messages that cannot be decoded are logged and dropped.
type Subscriber struct {
	Decoder  *event.Decoder
	Callback event.Callback
	// Timeout bounds a single callback invocation. Zero means no limit.
	Timeout time.Duration
}

func (s *Subscriber) Handle(topic string, payload []byte) {
	msg, err := s.Decoder.Decode(payload)
	if err != nil {
		log.Printf("%s: dropping message: %v", topic, err)
		return
	}

	ctx := context.Background()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	if err := s.Callback.HandleEvent(ctx, msg); err != nil {
		id, _ := msg.EventID()
		log.Printf("%s: handling event %s: %v", topic, id, err)
	}
}
