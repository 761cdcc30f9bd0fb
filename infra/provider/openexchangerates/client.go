// Package openexchangerates is the Open Exchange Rates implementation of
// provider.ExchangeRates.
package openexchangerates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/amirasaad/ratesync/pkg/config"
	"github.com/amirasaad/ratesync/pkg/provider"
)

const (
	ProviderName   = "openexchangerates"
	DefaultBaseURL = "https://openexchangerates.org/api"
)

// usageResponse is the body of /usage.json.
// See: https://docs.openexchangerates.org/reference/usage-json
type usageResponse struct {
	Status int `json:"status"`
	Data   struct {
		AppID  string        `json:"app_id"`
		Status string        `json:"status"`
		Plan   provider.Plan  `json:"plan"`
		Usage  provider.Usage `json:"usage"`
	} `json:"data"`
}

// latestResponse is the body of /latest.json.
type latestResponse struct {
	Timestamp int64                      `json:"timestamp"`
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// errorResponse is returned by every endpoint on failure, e.g.
// { "error": true, "status": 401, "message": "invalid_app_id", "description": "..." }
type errorResponse struct {
	Error       bool   `json:"error"`
	Status      int    `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Client talks to the Open Exchange Rates HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// New creates a client from the provider config.
func New(cfg config.OpenExchangeRates, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(cfg.ApiUrl, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60)
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: max(cfg.MaxRetries, 0),
		retryDelay: cfg.RetryDelay,
		logger:     logger.With("provider", ProviderName),
	}
}

var _ provider.ExchangeRates = (*Client)(nil)

func (c *Client) Name() string { return ProviderName }

// Usage returns plan and usage details of apiKey.
func (c *Client) Usage(ctx context.Context, apiKey string) (*provider.Account, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, provider.ErrMissingAPIKey
	}
	var body usageResponse
	if err := c.get(ctx, "/usage.json", url.Values{"app_id": {apiKey}}, &body); err != nil {
		return nil, err
	}
	return &provider.Account{
		Status: body.Data.Status,
		Plan:   body.Data.Plan,
		Usage:  body.Data.Usage,
	}, nil
}

// Latest returns the latest rates of base against symbols.
func (c *Client) Latest(
	ctx context.Context,
	apiKey, base string,
	symbols []string,
) (*provider.LatestRates, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, provider.ErrMissingAPIKey
	}
	params := url.Values{"app_id": {apiKey}, "base": {base}}
	if len(symbols) > 0 {
		params.Set("symbols", strings.Join(symbols, ","))
	}
	var body latestResponse
	if err := c.get(ctx, "/latest.json", params, &body); err != nil {
		return nil, err
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w for base %s", provider.ErrNoRates, base)
	}
	c.logger.Debug("Fetched latest rates", "base", body.Base, "count", len(body.Rates))
	return &provider.LatestRates{
		Base:      body.Base,
		Timestamp: time.Unix(body.Timestamp, 0).UTC(),
		Rates:     body.Rates,
	}, nil
}

// Currencies returns every currency code the provider supports, sorted.
func (c *Client) Currencies(ctx context.Context) ([]string, error) {
	var body map[string]string
	if err := c.get(ctx, "/currencies.json", nil, &body); err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(body))
	for code := range body {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// get issues a rate-limited GET and decodes a 200 body into out. Transport
// errors, 429 and 5xx responses are retried; other provider errors are not.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %w", provider.ErrProviderUnavailable, err)
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != http.StatusOK {
			apiErr := decodeError(resp)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), uint64(c.maxRetries)),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Provider request failed, retrying", "path", path, "wait", wait, "error", err)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		var apiErr *provider.APIError
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return err
	}
	return nil
}

func decodeError(resp *http.Response) *provider.APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		return &provider.APIError{
			StatusCode:  resp.StatusCode,
			Code:        http.StatusText(resp.StatusCode),
			Description: strings.TrimSpace(string(raw)),
		}
	}
	status := body.Status
	if status == 0 {
		status = resp.StatusCode
	}
	return &provider.APIError{StatusCode: status, Code: body.Message, Description: body.Description}
}
