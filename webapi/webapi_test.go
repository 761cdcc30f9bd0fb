package webapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	infra_eventbus "github.com/amirasaad/ratesync/infra/eventbus"
	"github.com/amirasaad/ratesync/pkg/config"
	"github.com/amirasaad/ratesync/pkg/controller"
)

type RateLimitTestSuite struct {
	suite.Suite
}

func TestRateLimitTestSuite(t *testing.T) {
	suite.Run(t, new(RateLimitTestSuite))
}

func (s *RateLimitTestSuite) TestRateLimit() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Only the health route is exercised, so the controller needs no collaborators.
	ctl := controller.New(nil, nil, infra_eventbus.NewWithMemory(log), log)
	app := SetupApp(ctl, &config.App{
		RateLimit: &config.RateLimit{MaxRequests: 5, Window: time.Second},
	}, log)

	for i := range [6]int{} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		s.Require().NoError(err)
		resp.Body.Close() //nolint:errcheck
		if i < 5 {
			s.Equal(http.StatusOK, resp.StatusCode, "request %d", i+1)
		} else {
			s.Equal(http.StatusTooManyRequests, resp.StatusCode, "request %d", i+1)
		}
	}

	// Wait for the rate limit window to reset
	time.Sleep(time.Second + 100*time.Millisecond)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	s.Require().NoError(err)
	resp.Body.Close() //nolint:errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RateLimitTestSuite) TestNoLimiterWithoutConfig() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctl := controller.New(nil, nil, infra_eventbus.NewWithMemory(log), log)
	app := SetupApp(ctl, &config.App{}, log)

	for range 10 {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		s.Require().NoError(err)
		resp.Body.Close() //nolint:errcheck
		s.Equal(http.StatusOK, resp.StatusCode)
	}
}
