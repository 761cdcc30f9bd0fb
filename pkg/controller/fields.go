package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirasaad/ratesync/pkg/currency"
	"github.com/amirasaad/ratesync/pkg/domain"
)

// SetField applies a host edit to the in-memory record and marks it dirty.
// Changing the key or the enabled switch forgets the last connection result.
func (c *Controller) SetField(ctx context.Context, field Field, value any) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	if field == FieldFromCurrencies {
		if err := c.checkNewBaseCurrencies(ctx, value); err != nil {
			return err
		}
	}

	c.mu.Lock()
	rec := c.state.Record.Clone()
	fc, ok := Resolve(rec, c.state.Dirty)[field]
	if !ok || isAction(field) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrUnknownField, field)
	}
	// The cross-rate toggle accepts attempts while displayed and is then
	// corrected by the plan gate.
	if fc.Hidden || (fc.ReadOnly && field != FieldCrossRateConversion) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrFieldReadOnly, field)
	}
	if err := applyField(rec, field, value); err != nil {
		c.mu.Unlock()
		return err
	}
	gate := EnforcePlanGate(rec)
	if rec.APIKey != c.state.Record.APIKey || rec.Enabled != c.state.Record.Enabled {
		rec.ConnectionSuccess = domain.ConnectionUnknown
	}
	c.state.Record = rec
	c.state.Dirty = true
	c.state.version++
	c.mu.Unlock()

	if gate != nil {
		c.notify(ctx, *gate)
	}
	c.logger.Debug("Field changed", "field", string(field))
	return nil
}

// checkNewBaseCurrencies rejects base currency codes the provider does not
// support. Codes already in the list are not re-checked.
func (c *Controller) checkNewBaseCurrencies(ctx context.Context, value any) error {
	s := c.snapshot()
	if !Resolve(s.Record, s.Dirty).Editable(FieldFromCurrencies) {
		return nil
	}
	codes, err := asStrings(FieldFromCurrencies, value)
	if err != nil {
		return err
	}
	added := currency.Complement(currency.NormalizeList(codes), s.Record.BaseCurrencies)
	if len(added) == 0 {
		return nil
	}
	universe, err := c.backend.ListAllCurrencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list currencies: %w", err)
	}
	if unknown := currency.Complement(added, universe); len(unknown) > 0 {
		return fmt.Errorf("%w: %s not supported by the provider: %s",
			domain.ErrValidation, FieldFromCurrencies, strings.Join(unknown, ", "))
	}
	return nil
}

func isAction(f Field) bool {
	switch f {
	case ActionTestConnection, ActionAPIUsageInfo, ActionUpdateExchangeRates:
		return true
	}
	return false
}

func applyField(rec *domain.ExchangeRateConfig, field Field, value any) error {
	switch field {
	case FieldEnabled:
		v, err := asBool(field, value)
		if err != nil {
			return err
		}
		rec.Enabled = v
	case FieldAPIKey:
		v, err := asString(field, value)
		if err != nil {
			return err
		}
		rec.APIKey = strings.TrimSpace(v)
	case FieldCrossRateConversion:
		v, err := asBool(field, value)
		if err != nil {
			return err
		}
		rec.CrossRateConversion = v
	case FieldFromCurrencies:
		v, err := asStrings(field, value)
		if err != nil {
			return err
		}
		rec.BaseCurrencies = v
	case FieldToCurrencies:
		v, err := asStrings(field, value)
		if err != nil {
			return err
		}
		rec.TargetCurrencies = v
	default:
		return fmt.Errorf("%w: %s", domain.ErrFieldReadOnly, field)
	}
	return nil
}

func asBool(field Field, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off", "":
			return false, nil
		}
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	}
	return false, fmt.Errorf("%w: %s expects a boolean", domain.ErrInvalidFieldValue, field)
}

func asString(field Field, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("%w: %s expects a string", domain.ErrInvalidFieldValue, field)
}

func asStrings(field Field, value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects a list of codes", domain.ErrInvalidFieldValue, field)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s expects a list of codes", domain.ErrInvalidFieldValue, field)
}
