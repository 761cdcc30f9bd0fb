package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/amirasaad/ratesync/pkg/domain"
)

// MapGormErrorToDomain converts GORM errors to domain errors so callers can
// match them without importing gorm.
func MapGormErrorToDomain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(domain.ErrAlreadyExists, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.Join(domain.ErrNotFound, err)
	default:
		return err
	}
}
