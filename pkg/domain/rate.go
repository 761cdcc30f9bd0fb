package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InverseRatePlaces is the precision kept when deriving the reverse direction of a rate.
const InverseRatePlaces = 10

// CurrencyExchange is one stored rate for a currency pair on a given day.
type CurrencyExchange struct {
	ID           uuid.UUID
	Date         time.Time
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
}

// NewCurrencyExchange builds a rate row for the calendar day of date.
func NewCurrencyExchange(date time.Time, from, to string, rate decimal.Decimal) CurrencyExchange {
	return CurrencyExchange{
		ID:           uuid.New(),
		Date:         Day(date),
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
	}
}

// Inverse returns the reverse pair, rounded to InverseRatePlaces.
// A zero rate has no inverse and reports false.
func (r CurrencyExchange) Inverse() (CurrencyExchange, bool) {
	if r.Rate.IsZero() {
		return CurrencyExchange{}, false
	}
	inv := decimal.NewFromInt(1).DivRound(r.Rate, InverseRatePlaces)
	return NewCurrencyExchange(r.Date, r.ToCurrency, r.FromCurrency, inv), true
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
