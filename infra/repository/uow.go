package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/amirasaad/ratesync/pkg/repository"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do share the transaction.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

var _ repository.UnitOfWork = (*UoW)(nil)

// Do runs the given function in a transaction boundary, providing a UoW with repository access.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UoW) ConfigRepository() repository.ConfigRepository {
	return NewConfigRepository(u.session())
}

func (u *UoW) RateRepository() repository.RateRepository {
	return NewRateRepository(u.session())
}
