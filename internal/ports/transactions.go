package ports

import "context"

// UnitOfWork scopes a sequence of repository writes. Repositories called
// with the ctx handed to work take part in the same transaction.
type UnitOfWork interface {
	RunInTransaction(ctx context.Context, work func(ctx context.Context) error) error
}

// NoopUnitOfWork simply invokes the work.
type NoopUnitOfWork struct{}

func (NoopUnitOfWork) RunInTransaction(ctx context.Context, work func(ctx context.Context) error) error {
	return work(ctx)
}
