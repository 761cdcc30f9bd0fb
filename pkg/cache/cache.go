package cache

import (
	"context"
	"time"
)

// CurrencyCache caches the provider's supported-currency universe.
// A miss is reported as (nil, false, nil).
type CurrencyCache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, codes []string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
