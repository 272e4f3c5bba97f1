package tenant

import (
	"context"

	"github.com/google/uuid"
)

type correlationKey struct{}
type causationKey struct{}
type actorKey struct{}

// WithCorrelation returns a context carrying the correlation id of the
// message being processed and, optionally, the id of the event that caused
// it.
func WithCorrelation(ctx context.Context, correlationID, causationID string) context.Context {
	if correlationID != "" {
		ctx = context.WithValue(ctx, correlationKey{}, correlationID)
	}
	if causationID != "" {
		ctx = context.WithValue(ctx, causationKey{}, causationID)
	}
	return ctx
}

// CorrelationID extracts the correlation id from the context.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}

// CausationID extracts the causation id from the context.
func CausationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(causationKey{}).(string)
	return id, ok && id != ""
}

// EnsureCorrelation returns a context that is guaranteed to carry a
// correlation id, generating one when the inbound message had none, so
// every event published downstream correlates to something.
func EnsureCorrelation(ctx context.Context) context.Context {
	if _, ok := CorrelationID(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, uuid.NewString())
}

// WithActor returns a context carrying the id of the user or system that
// initiated the current operation.
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// Actor extracts the initiating actor from the context.
func Actor(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey{}).(string)
	return actor, ok && actor != ""
}
