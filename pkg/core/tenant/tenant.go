// Package tenant carries tenant identity and event correlation through
// context.Context. Everything downstream of message intake (repositories,
// partition resolution, staged events, outgoing calls) reads its tenant from
// the context instead of any goroutine-local state.
package tenant

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoTenant is returned when an operation requires a tenant and the
// context does not carry one.
var ErrNoTenant = errors.New("no tenant in context")

type tenantKey struct{}

// WithTenant returns a context carrying the tenant id.
func WithTenant(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, tenantKey{}, id)
}

// FromContext extracts the tenant id from the context.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tenantKey{}).(string)
	return id, ok && id != ""
}

// Require extracts the tenant id or fails with ErrNoTenant. Repositories
// and partition resolution use this; a missing tenant there means the
// message intake skipped context construction and must not be retried.
func Require(ctx context.Context) (string, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", ErrNoTenant
	}
	return id, nil
}

// MismatchError reports an entity owned by a different tenant than the one
// the request context carries. It is never retryable and is logged as a
// security event.
type MismatchError struct {
	ContextTenant string
	EntityTenant  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("tenant mismatch: context tenant %q, entity tenant %q", e.ContextTenant, e.EntityTenant)
}

// VerifyOwnership checks that the entity's tenant matches the context
// tenant. Entities persisted without a tenant are rejected the same way.
func VerifyOwnership(ctx context.Context, entityTenant string) error {
	ctxTenant, err := Require(ctx)
	if err != nil {
		return err
	}
	if entityTenant != ctxTenant {
		return &MismatchError{ContextTenant: ctxTenant, EntityTenant: entityTenant}
	}
	return nil
}
