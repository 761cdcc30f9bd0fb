package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirasaad/ratesync/pkg/domain"
	"github.com/amirasaad/ratesync/pkg/repository"
)

type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository returns a gorm-backed ConfigRepository.
func NewConfigRepository(db *gorm.DB) repository.ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Get(ctx context.Context) (*domain.ExchangeRateConfig, error) {
	var m ExchangeRateConfig
	err := r.db.WithContext(ctx).
		Preload("Currencies", func(db *gorm.DB) *gorm.DB {
			return db.Order("kind, position")
		}).
		First(&m, configID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg := domain.NewExchangeRateConfig()
		if err := r.Save(ctx, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate config: %w", MapGormErrorToDomain(err))
	}
	return toDomainConfig(&m), nil
}

func (r *configRepository) Save(ctx context.Context, cfg *domain.ExchangeRateConfig) error {
	m := toModelConfig(cfg)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Currencies").Save(m).Error; err != nil {
			return err
		}
		if err := tx.Where("config_id = ?", configID).Delete(&ConfigCurrency{}).Error; err != nil {
			return err
		}
		if len(m.Currencies) == 0 {
			return nil
		}
		return tx.Create(&m.Currencies).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save exchange rate config: %w", MapGormErrorToDomain(err))
	}
	return nil
}

func toModelConfig(cfg *domain.ExchangeRateConfig) *ExchangeRateConfig {
	m := &ExchangeRateConfig{
		Model:               gorm.Model{ID: configID},
		Enabled:             cfg.Enabled,
		APIProvider:         cfg.APIProvider,
		APIKey:              cfg.APIKey,
		ConnectionSuccess:   int(cfg.ConnectionSuccess),
		APIStatus:           cfg.APIStatus,
		Plan:                cfg.Plan,
		Quota:               cfg.Quota,
		FromCurrencyMode:    string(cfg.FromCurrencyMode),
		CrossRateConversion: cfg.CrossRateConversion,
	}
	for i, code := range cfg.BaseCurrencies {
		m.Currencies = append(m.Currencies, ConfigCurrency{ConfigID: configID, Kind: kindFrom, Position: i, Code: code})
	}
	for i, code := range cfg.TargetCurrencies {
		m.Currencies = append(m.Currencies, ConfigCurrency{ConfigID: configID, Kind: kindTo, Position: i, Code: code})
	}
	return m
}

func toDomainConfig(m *ExchangeRateConfig) *domain.ExchangeRateConfig {
	cfg := &domain.ExchangeRateConfig{
		Enabled:             m.Enabled,
		APIProvider:         m.APIProvider,
		APIKey:              m.APIKey,
		ConnectionSuccess:   domain.ConnectionState(m.ConnectionSuccess),
		APIStatus:           m.APIStatus,
		Plan:                m.Plan,
		Quota:               m.Quota,
		FromCurrencyMode:    domain.ParseFromCurrencyMode(m.FromCurrencyMode),
		CrossRateConversion: m.CrossRateConversion,
	}
	for _, c := range m.Currencies {
		switch c.Kind {
		case kindFrom:
			cfg.BaseCurrencies = append(cfg.BaseCurrencies, c.Code)
		case kindTo:
			cfg.TargetCurrencies = append(cfg.TargetCurrencies, c.Code)
		}
	}
	return cfg
}
