package provider

import (
	"time"

	"github.com/shopspring/decimal"
)

// Features lists the plan capabilities the controller cares about.
type Features struct {
	// Base is true when the plan accepts a base currency other than USD.
	Base    bool `json:"base"`
	Symbols bool `json:"symbols"`
}

// Plan describes the subscription tier of an API key.
type Plan struct {
	Name            string   `json:"name"`
	Quota           string   `json:"quota"`
	UpdateFrequency string   `json:"update_frequency"`
	Features        Features `json:"features"`
}

// Usage holds the request counters of the current billing period.
type Usage struct {
	Requests          int     `json:"requests"`
	RequestsQuota     int     `json:"requests_quota"`
	RequestsRemaining int     `json:"requests_remaining"`
	DaysElapsed       int     `json:"days_elapsed"`
	DaysRemaining     int     `json:"days_remaining"`
	DailyAverage      float64 `json:"daily_average"`
}

// Account is the provider's view of an API key.
type Account struct {
	Status string `json:"status"`
	Plan   Plan   `json:"plan"`
	Usage  Usage  `json:"usage"`
}

// LatestRates are the rates of Base against every returned currency.
type LatestRates struct {
	Base      string
	Timestamp time.Time
	Rates     map[string]decimal.Decimal
}
