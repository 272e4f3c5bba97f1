package persistence

import "context"

// TxManager runs a function inside a tenant-scoped transaction. Events staged
// through the messaging layer during fn are published only after the
// transaction commits.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error)
}
