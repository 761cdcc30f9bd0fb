package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// configID is the primary key of the singleton configuration row.
const configID = 1

// Currency list kinds stored in ConfigCurrency.Kind.
const (
	kindFrom = "from"
	kindTo   = "to"
)

// ExchangeRateConfig represents the singleton configuration row.
type ExchangeRateConfig struct {
	gorm.Model
	Enabled             bool
	APIProvider         string `gorm:"size:255"`
	APIKey              string `gorm:"size:255"`
	ConnectionSuccess   int    `gorm:"not null;default:0"`
	APIStatus           string `gorm:"size:255"`
	Plan                string `gorm:"size:100;default:'N/A'"`
	Quota               string `gorm:"size:100;default:'N/A'"`
	FromCurrencyMode    string `gorm:"size:32;default:'N/A'"`
	CrossRateConversion bool
	Currencies          []ConfigCurrency `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE"`
}

// ConfigCurrency is one row of the base ("from") or target ("to") currency
// list of the configuration.
type ConfigCurrency struct {
	ID       uint   `gorm:"primaryKey"`
	ConfigID uint   `gorm:"index;not null"`
	Kind     string `gorm:"type:varchar(4);not null"`
	Position int    `gorm:"not null"`
	Code     string `gorm:"type:varchar(3);not null"`
}

// CurrencyExchange represents one stored daily rate.
type CurrencyExchange struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	Date         time.Time       `gorm:"uniqueIndex:idx_currency_exchange_pair;not null"`
	FromCurrency string          `gorm:"type:varchar(3);uniqueIndex:idx_currency_exchange_pair;not null"`
	ToCurrency   string          `gorm:"type:varchar(3);uniqueIndex:idx_currency_exchange_pair;not null"`
	Rate         decimal.Decimal `gorm:"type:decimal(30,10);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Migrate creates or updates the tables of this package.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ExchangeRateConfig{}, &ConfigCurrency{}, &CurrencyExchange{})
}
