package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirasaad/ratesync/pkg/domain"
	"github.com/amirasaad/ratesync/pkg/repository"
)

type rateRepository struct {
	db *gorm.DB
}

// NewRateRepository returns a gorm-backed RateRepository.
func NewRateRepository(db *gorm.DB) repository.RateRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) Upsert(ctx context.Context, rates []domain.CurrencyExchange) (int, error) {
	if len(rates) == 0 {
		return 0, nil
	}
	rows := make([]CurrencyExchange, 0, len(rates))
	for _, x := range rates {
		rows = append(rows, CurrencyExchange{
			ID:           x.ID,
			Date:         domain.Day(x.Date),
			FromCurrency: x.FromCurrency,
			ToCurrency:   x.ToCurrency,
			Rate:         x.Rate,
		})
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "from_currency"}, {Name: "to_currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("failed to upsert exchange rates: %w", MapGormErrorToDomain(err))
	}
	return len(rows), nil
}

func (r *rateRepository) ListByDate(ctx context.Context, day time.Time) ([]domain.CurrencyExchange, error) {
	var rows []CurrencyExchange
	err := r.db.WithContext(ctx).
		Where("date = ?", domain.Day(day)).
		Order("from_currency, to_currency").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", MapGormErrorToDomain(err))
	}
	out := make([]domain.CurrencyExchange, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CurrencyExchange{
			ID:           row.ID,
			Date:         row.Date.UTC(),
			FromCurrency: row.FromCurrency,
			ToCurrency:   row.ToCurrency,
			Rate:         row.Rate,
		})
	}
	return out, nil
}

func (r *rateRepository) DeleteBefore(ctx context.Context, day time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("date < ?", domain.Day(day)).Delete(&CurrencyExchange{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete exchange rates: %w", MapGormErrorToDomain(result.Error))
	}
	return result.RowsAffected, nil
}
