package openexchangerates

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/ratesync/pkg/config"
	"github.com/amirasaad/ratesync/pkg/provider"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.OpenExchangeRates{
		ApiUrl:      srv.URL + "/",
		HTTPTimeout: 2 * time.Second,
		MaxRetries:  2,
		RetryDelay:  time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Usage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/usage.json", r.URL.Path)
		assert.Equal(t, "app-id", r.URL.Query().Get("app_id"))
		_, _ = io.WriteString(w, `{
			"status": 200,
			"data": {
				"app_id": "app-id",
				"status": "active",
				"plan": {
					"name": "Free",
					"quota": "1000 requests / month",
					"update_frequency": "3600s",
					"features": {"base": false, "symbols": false}
				},
				"usage": {
					"requests": 120,
					"requests_quota": 1000,
					"requests_remaining": 880,
					"days_elapsed": 12,
					"days_remaining": 18,
					"daily_average": 10
				}
			}
		}`)
	})

	acct, err := c.Usage(context.Background(), "app-id")

	require.NoError(t, err)
	assert.Equal(t, "active", acct.Status)
	assert.Equal(t, "Free", acct.Plan.Name)
	assert.False(t, acct.Plan.Features.Base)
	assert.Equal(t, 880, acct.Usage.RequestsRemaining)
	assert.InDelta(t, 10.0, acct.Usage.DailyAverage, 0.0001)
}

func TestClient_UsageRejectedKeyIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error": true, "status": 401, "message": "invalid_app_id",
			"description": "Invalid App ID provided."}`)
	})

	_, err := c.Usage(context.Background(), "bad")

	apiErr, ok := provider.AsAPIError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "invalid_app_id", apiErr.Code)
	assert.True(t, apiErr.IsPermission())
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MissingKey(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.Usage(context.Background(), " ")
	require.ErrorIs(t, err, provider.ErrMissingAPIKey)

	_, err = c.Latest(context.Background(), "", "USD", nil)
	require.ErrorIs(t, err, provider.ErrMissingAPIKey)
}

func TestClient_Latest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest.json", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("base"))
		assert.Equal(t, "USD,GBP", r.URL.Query().Get("symbols"))
		_, _ = io.WriteString(w, `{"timestamp": 1700000000, "base": "EUR",
			"rates": {"USD": 1.0871, "GBP": 0.86512}}`)
	})

	got, err := c.Latest(context.Background(), "app-id", "EUR", []string{"USD", "GBP"})

	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Base)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), got.Timestamp)
	assert.True(t, decimal.RequireFromString("0.86512").Equal(got.Rates["GBP"]))
}

func TestClient_LatestEmptyRates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"timestamp": 1700000000, "base": "USD", "rates": {}}`)
	})

	_, err := c.Latest(context.Background(), "app-id", "USD", []string{"EUR"})

	require.ErrorIs(t, err, provider.ErrNoRates)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"USD": "United States Dollar", "EUR": "Euro", "AED": "UAE Dirham"}`)
	})

	codes, err := c.Currencies(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"AED", "EUR", "USD"}, codes)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Currencies(context.Background())

	apiErr, ok := provider.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Name(t *testing.T) {
	c := New(config.OpenExchangeRates{}, nil)
	assert.Equal(t, ProviderName, c.Name())
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
