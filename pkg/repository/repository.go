package repository

import (
	"context"
	"time"

	"github.com/amirasaad/ratesync/pkg/domain"
)

// ConfigRepository persists the singleton configuration record.
type ConfigRepository interface {
	// Get returns the stored record, creating it with defaults when absent.
	Get(ctx context.Context) (*domain.ExchangeRateConfig, error)
	// Save overwrites the stored record, including both currency lists.
	Save(ctx context.Context, cfg *domain.ExchangeRateConfig) error
}

// RateRepository persists daily currency exchange rows.
type RateRepository interface {
	// Upsert inserts or updates rows keyed by (date, from, to) and returns
	// the number of rows written.
	Upsert(ctx context.Context, rates []domain.CurrencyExchange) (int, error)
	// ListByDate returns the rows stored for the calendar day of day.
	ListByDate(ctx context.Context, day time.Time) ([]domain.CurrencyExchange, error)
	// DeleteBefore removes rows dated strictly before day.
	DeleteBefore(ctx context.Context, day time.Time) (int64, error)
}
