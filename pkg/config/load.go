package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first of envFiles that exists, searching parent directories,
// and then populates App from the environment. Variables already set in the
// process environment win over file values.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default()
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	loaded := false
	for _, name := range envFiles {
		path, err := findUp(name)
		if err != nil {
			logger.Debug("Environment file not found", "name", name)
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Error("Failed to read environment file", "path", path, "error", err)
			continue
		}
		logger.Info("Loaded environment file", "path", path)
		loaded = true
		break
	}
	if !loaded {
		logger.Warn("No environment file loaded, using process environment", "candidates", envFiles)
	}

	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	slog.Default().Info("Configuration loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"server_port", cfg.Server.Port,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"oxr_api_url", cfg.Providers.OpenExchangeRates.ApiUrl,
		"oxr_requests_per_minute", cfg.Providers.OpenExchangeRates.RequestsPerMinute,
		"currency_cache_ttl", cfg.CurrencyCache.TTL,
		"currency_cache_url", maskValue(cfg.CurrencyCache.Url),
		"sync_retention_days", cfg.Sync.RetentionDays,
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
