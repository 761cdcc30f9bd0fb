package domain

import (
	"slices"
	"strings"
)

const (
	// DefaultAPIProvider is the provider URL a new record starts with.
	DefaultAPIProvider = "https://openexchangerates.org/"
	// NotAvailable marks plan, quota and mode values that are unknown until a connection test.
	NotAvailable = "N/A"
	// DefaultAPIStatus is shown until the first connection test.
	DefaultAPIStatus = "Status not available. Please test connection first."
	// FreePlan is the normalised name of the provider's free tier.
	FreePlan = "free"
	// DefaultBaseCurrency seeds the base currency list of a new record.
	DefaultBaseCurrency = "USD"
)

// ConnectionState is the outcome of the last connection test.
type ConnectionState int

const (
	ConnectionUnknown ConnectionState = iota
	ConnectionSucceeded
	ConnectionFailed
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionSucceeded:
		return "success"
	case ConnectionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FromCurrencyMode says which base currencies the provider plan accepts.
type FromCurrencyMode string

const (
	FromCurrencyAll          FromCurrencyMode = "All Currencies"
	FromCurrencyUSDOnly      FromCurrencyMode = "USD Only"
	FromCurrencyNotAvailable FromCurrencyMode = NotAvailable
)

// ParseFromCurrencyMode accepts the display names and falls back to N/A.
func ParseFromCurrencyMode(s string) FromCurrencyMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case strings.ToLower(string(FromCurrencyAll)), "all":
		return FromCurrencyAll
	case strings.ToLower(string(FromCurrencyUSDOnly)), "usd":
		return FromCurrencyUSDOnly
	default:
		return FromCurrencyNotAvailable
	}
}

// ExchangeRateConfig is the singleton configuration record of the rate source.
type ExchangeRateConfig struct {
	Enabled             bool             `json:"enabled"`
	APIProvider         string           `json:"api_provider"`
	APIKey              string           `json:"api_key" validate:"required_if=Enabled true"`
	ConnectionSuccess   ConnectionState  `json:"connection_success"`
	APIStatus           string           `json:"api_status"`
	Plan                string           `json:"plan"`
	Quota               string           `json:"quota"`
	FromCurrencyMode    FromCurrencyMode `json:"from_currency_option"`
	CrossRateConversion bool             `json:"cross_rate_conversion"`
	BaseCurrencies      []string         `json:"from_currencies" validate:"dive,len=3,alpha"`
	TargetCurrencies    []string         `json:"to_currencies" validate:"dive,len=3,alpha"`
}

// NewExchangeRateConfig returns a record carrying the defaults of a fresh install.
func NewExchangeRateConfig() *ExchangeRateConfig {
	return &ExchangeRateConfig{
		APIProvider:      DefaultAPIProvider,
		APIStatus:        DefaultAPIStatus,
		Plan:             NotAvailable,
		Quota:            NotAvailable,
		FromCurrencyMode: FromCurrencyNotAvailable,
		BaseCurrencies:   []string{DefaultBaseCurrency},
	}
}

// Clone returns a deep copy so callers can mutate without sharing slices.
func (c *ExchangeRateConfig) Clone() *ExchangeRateConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.BaseCurrencies = slices.Clone(c.BaseCurrencies)
	out.TargetCurrencies = slices.Clone(c.TargetCurrencies)
	return &out
}

// NormalizedPlan is the plan name trimmed and lower-cased.
func (c *ExchangeRateConfig) NormalizedPlan() string {
	return strings.ToLower(strings.TrimSpace(c.Plan))
}

// HasBaseCurrency reports whether code is in the base currency list.
func (c *ExchangeRateConfig) HasBaseCurrency(code string) bool {
	return slices.Contains(c.BaseCurrencies, code)
}

// MarkConnectionFailed resets the provider-derived fields after a failed test.
func (c *ExchangeRateConfig) MarkConnectionFailed(status string) {
	c.ConnectionSuccess = ConnectionFailed
	c.Plan = NotAvailable
	c.Quota = NotAvailable
	c.APIStatus = status
	c.FromCurrencyMode = FromCurrencyNotAvailable
}
