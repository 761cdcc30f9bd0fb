package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	infra_cache "github.com/amirasaad/ratesync/infra/cache"
	infra_eventbus "github.com/amirasaad/ratesync/infra/eventbus"
	"github.com/amirasaad/ratesync/infra/provider/openexchangerates"
	infra_repository "github.com/amirasaad/ratesync/infra/repository"
	"github.com/amirasaad/ratesync/pkg/app"
	"github.com/amirasaad/ratesync/pkg/config"
	"github.com/amirasaad/ratesync/pkg/notice"
)

func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/usage.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("app_id") != "app-id" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":true,"status":401,"message":"invalid_app_id"}`)
			return
		}
		_, _ = io.WriteString(w, `{"status":200,"data":{"status":"active",
			"plan":{"name":"Free","quota":"1000 requests / month","features":{"base":false}},
			"usage":{"requests":5,"requests_quota":1000,"requests_remaining":995,
				"days_elapsed":1,"days_remaining":29,"daily_average":5}}}`)
	})
	mux.HandleFunc("/currencies.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"EUR":"Euro","GBP":"British Pound Sterling","USD":"United States Dollar"}`)
	})
	mux.HandleFunc("/latest.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		_, _ = io.WriteString(w, `{"timestamp":1741964966,"base":"USD","rates":{"EUR":0.92,"GBP":0.77}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupTestApp(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, infra_repository.Migrate(db))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := fakeProvider(t)
	cfg := &config.App{Sync: &config.Sync{RetentionDays: 1}}
	deps := &config.Deps{
		Uow: infra_repository.NewUoW(db),
		RateProvider: openexchangerates.New(config.OpenExchangeRates{
			ApiUrl:      srv.URL,
			HTTPTimeout: 2 * time.Second,
			RetryDelay:  time.Millisecond,
		}, log),
		CurrencyCache: infra_cache.NewMemoryCache(),
		EventBus:      infra_eventbus.NewWithMemory(log),
		Logger:        log,
		Config:        cfg,
	}
	a := app.New(deps, cfg)
	require.NoError(t, a.Start(notice.WithCollector(t.Context(), notice.NewCollector())))
	current = a
	t.Cleanup(func() { current = nil })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_ConfigureVerifyAndSync(t *testing.T) {
	setupTestApp(t)

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "enabled: false")
	assert.NotContains(t, out, "plan:")

	_, err = execute(t, "set", "enabled", "true", "api_key", "app-id")
	require.NoError(t, err)

	out, err = execute(t, "test-connection")
	require.NoError(t, err)
	assert.Contains(t, out, "Connection Successful")

	out, err = execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "plan: Free")
	assert.Contains(t, out, "verified: true")
	assert.Contains(t, out, "api_key*: **p-id")

	out, err = execute(t, "currencies", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "base: USD")
	assert.Contains(t, out, "available: EUR, GBP")

	// Saving a verified record triggers exactly one sync.
	out, err = execute(t, "set", "to_currencies", "EUR,GBP")
	require.NoError(t, err)
	assert.Contains(t, out, "Exchange Rates Updated")

	out, err = execute(t, "sync", "USD")
	require.NoError(t, err)
	assert.Contains(t, out, "Exchange rate sync completed successfully.")

	out, err = execute(t, "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 0 exchange rate rows.")
}

func TestCLI_Preconditions(t *testing.T) {
	setupTestApp(t)

	out, err := execute(t, "update-rates")
	require.NoError(t, err)
	assert.Contains(t, out, "Please enable first.")

	out, err = execute(t, "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")

	_, err = execute(t, "sync")
	assert.ErrorIs(t, err, errSyncFailed)

	_, err = execute(t, "set", "enabled")
	assert.Error(t, err)

	_, err = execute(t, "set", "plan", "Free")
	assert.Error(t, err)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", maskKey(""))
	assert.Equal(t, "***", maskKey("abc"))
	assert.Equal(t, "**p-id", maskKey("app-id"))
}

func TestPrintNotices(t *testing.T) {
	var out bytes.Buffer
	printNotices(&out, []notice.Notice{
		notice.Success("Currency Added", "Base currency EUR added."),
		notice.Info("Please test the connection first."),
	})
	assert.Contains(t, out.String(), "Currency Added")
	assert.Contains(t, out.String(), "  Base currency EUR added.")
	assert.Contains(t, out.String(), "  Please test the connection first.")
}
