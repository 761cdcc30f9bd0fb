package provider

import (
	"context"
	"errors"
)

// Common errors for provider operations
var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrMissingAPIKey       = errors.New("missing API key")
	ErrNoRates             = errors.New("no rates returned")
)

// AccountReader reads plan and usage details for an API key.
type AccountReader interface {
	// Usage returns the plan, status and request usage of apiKey.
	Usage(ctx context.Context, apiKey string) (*Account, error)
}

// RateFetcher fetches the latest rates for a base currency.
type RateFetcher interface {
	// Latest returns the rates of base against symbols. An empty symbols
	// list asks for every currency the provider knows.
	Latest(ctx context.Context, apiKey, base string, symbols []string) (*LatestRates, error)
}

// CurrencyLister lists the currencies the provider supports.
type CurrencyLister interface {
	Currencies(ctx context.Context) ([]string, error)
}

// ExchangeRates is the complete contract of a rate provider.
type ExchangeRates interface {
	AccountReader
	RateFetcher
	CurrencyLister

	// Name returns the provider's name for logging and identification.
	Name() string
}
