package event

import "context"

// Callback is notified about every received message.
type Callback interface {
	HandleEvent(ctx context.Context, msg *Message) error
}

type CallbackFunc func(ctx context.Context, msg *Message) error

func (f CallbackFunc) HandleEvent(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// Fanout passes each message to all of its callbacks, even if some fail,
// and returns the first error.
type Fanout []Callback

func (f Fanout) HandleEvent(ctx context.Context, msg *Message) error {
	var first error
	for _, c := range f {
		if err := c.HandleEvent(ctx, msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}
