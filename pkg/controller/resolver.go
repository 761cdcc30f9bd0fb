package controller

import "github.com/amirasaad/ratesync/pkg/domain"

// Field names a record field or action button exposed to hosts.
type Field string

const (
	FieldEnabled             Field = "enabled"
	FieldAPIProvider         Field = "api_provider"
	FieldAPIKey              Field = "api_key"
	FieldAPIStatus           Field = "api_status"
	FieldPlan                Field = "plan"
	FieldQuota               Field = "quota"
	FieldFromCurrencyMode    Field = "from_currency_option"
	FieldFromCurrencies      Field = "from_currencies"
	FieldToCurrencies        Field = "to_currencies"
	FieldCrossRateConversion Field = "cross_rate_conversion"

	ActionTestConnection      Field = "test_connection"
	ActionAPIUsageInfo        Field = "api_usage_info"
	ActionUpdateExchangeRates Field = "update_exchange_rates"
)

// Fields lists every field and action in display order.
var Fields = []Field{
	FieldEnabled,
	FieldAPIProvider,
	FieldAPIKey,
	ActionTestConnection,
	FieldAPIStatus,
	FieldPlan,
	FieldQuota,
	ActionAPIUsageInfo,
	FieldFromCurrencyMode,
	FieldFromCurrencies,
	FieldToCurrencies,
	FieldCrossRateConversion,
	ActionUpdateExchangeRates,
}

// FieldConstraint is the presentation state of one field.
type FieldConstraint struct {
	Hidden   bool `json:"hidden"`
	ReadOnly bool `json:"read_only"`
	Required bool `json:"required"`
}

// FieldConstraints maps every field to its constraint.
type FieldConstraints map[Field]FieldConstraint

// Editable reports whether a host may change f.
func (fc FieldConstraints) Editable(f Field) bool {
	c, ok := fc[f]
	return ok && !c.Hidden && !c.ReadOnly
}

// Verified reports whether the stored connection result can be trusted:
// the source is enabled, the last test succeeded and nothing has been
// edited since.
func Verified(rec *domain.ExchangeRateConfig, dirty bool) bool {
	return rec != nil && rec.Enabled && rec.ConnectionSuccess == domain.ConnectionSucceeded && !dirty
}

// Resolve derives field visibility and editability from the record. It
// has no side effects.
func Resolve(rec *domain.ExchangeRateConfig, dirty bool) FieldConstraints {
	if rec == nil {
		rec = domain.NewExchangeRateConfig()
	}
	enabled := rec.Enabled
	verified := Verified(rec, dirty)

	fc := FieldConstraints{
		FieldEnabled:          {},
		FieldAPIProvider:      {ReadOnly: true},
		FieldAPIKey:           {Required: enabled},
		ActionTestConnection:  {},
		FieldAPIStatus:        {Hidden: !enabled, ReadOnly: true},
		FieldPlan:             {Hidden: !enabled, ReadOnly: true},
		FieldQuota:            {Hidden: !enabled, ReadOnly: true},
		FieldFromCurrencyMode: {Hidden: !enabled, ReadOnly: true},
		FieldFromCurrencies: {
			Hidden:   !enabled,
			ReadOnly: !(verified && rec.FromCurrencyMode == domain.FromCurrencyAll),
		},
		FieldToCurrencies: {Hidden: !enabled, ReadOnly: !verified},
		FieldCrossRateConversion: {
			Hidden:   !enabled,
			ReadOnly: !enabled || !IsFreePlan(rec),
		},
		ActionAPIUsageInfo:        {Hidden: !verified},
		ActionUpdateExchangeRates: {Hidden: !verified},
	}
	return fc
}
