package repository

import "context"

// UnitOfWork defines the contract for transactional work and repository access.
//
// Do runs fn in a transaction boundary; the UnitOfWork passed to fn hands out
// repositories bound to that transaction. Returning an error rolls back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	ConfigRepository() ConfigRepository
	RateRepository() RateRepository
}
