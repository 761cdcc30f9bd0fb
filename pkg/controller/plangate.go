package controller

import (
	"github.com/amirasaad/ratesync/pkg/domain"
	"github.com/amirasaad/ratesync/pkg/notice"
)

const crossRateGateMessage = "Cross-rate conversion is only available on the Free plan. " +
	"Please test the connection again to refresh your plan information."

// IsFreePlan reports whether the record's plan is the free tier.
func IsFreePlan(rec *domain.ExchangeRateConfig) bool {
	return rec != nil && rec.NormalizedPlan() == domain.FreePlan
}

// EnforcePlanGate switches cross-rate conversion off when the plan does not
// allow it. It returns the explanation when it changed the record, nil
// otherwise. Calling it again is a no-op.
func EnforcePlanGate(rec *domain.ExchangeRateConfig) *notice.Notice {
	if rec == nil || !rec.CrossRateConversion || IsFreePlan(rec) {
		return nil
	}
	rec.CrossRateConversion = false
	n := notice.Info(crossRateGateMessage)
	n.Title = "Plan restriction"
	return &n
}
