package consumer

import (
	"context"

	"github.com/Sokol111/warehouse-commons/pkg/messaging/envelope"
)

// Handler processes one decoded event envelope.
type Handler interface {
	Handle(ctx context.Context, env *envelope.Envelope) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, env *envelope.Envelope) error

func (f HandlerFunc) Handle(ctx context.Context, env *envelope.Envelope) error {
	return f(ctx, env)
}

// Gate decides from authoritative local state whether an event still needs
// processing. Returning false acknowledges the message as already applied.
// Classification fields carried inside the message are hints at best; the
// gate answers from its own store.
type Gate interface {
	ShouldProcess(ctx context.Context, env *envelope.Envelope) (bool, error)
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func(ctx context.Context, env *envelope.Envelope) (bool, error)

func (f GateFunc) ShouldProcess(ctx context.Context, env *envelope.Envelope) (bool, error) {
	return f(ctx, env)
}

// AlwaysProcess is the gate for naturally idempotent handlers.
var AlwaysProcess Gate = GateFunc(func(ctx context.Context, env *envelope.Envelope) (bool, error) {
	return true, nil
})
