package controller

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	memorybus "github.com/amirasaad/ratesync/infra/eventbus"
	"github.com/amirasaad/ratesync/pkg/domain"
	"github.com/amirasaad/ratesync/pkg/notice"
	"github.com/amirasaad/ratesync/pkg/provider"
)

// memoryConfigRepo is an in-memory ConfigRepository counting its calls.
type memoryConfigRepo struct {
	mu      sync.Mutex
	rec     *domain.ExchangeRateConfig
	gets    int
	saves   int
	saveErr error
}

func (r *memoryConfigRepo) Get(_ context.Context) (*domain.ExchangeRateConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.rec == nil {
		r.rec = domain.NewExchangeRateConfig()
	}
	return r.rec.Clone(), nil
}

func (r *memoryConfigRepo) Save(_ context.Context, cfg *domain.ExchangeRateConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.rec = cfg.Clone()
	return nil
}

func (r *memoryConfigRepo) stored() *domain.ExchangeRateConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Clone()
}

func (r *memoryConfigRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *memoryConfigRepo) getCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) TestConnection(ctx context.Context) (*ConnectionResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*ConnectionResult)
	return res, args.Error(1)
}

func (m *MockBackend) GetAPIUsage(ctx context.Context, apiKey string) (*provider.Usage, error) {
	args := m.Called(ctx, apiKey)
	res, _ := args.Get(0).(*provider.Usage)
	return res, args.Error(1)
}

func (m *MockBackend) SyncRates(ctx context.Context, scope string) (*SyncResult, error) {
	args := m.Called(ctx, scope)
	res, _ := args.Get(0).(*SyncResult)
	return res, args.Error(1)
}

func (m *MockBackend) AddBaseCurrency(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) RemoveBaseCurrency(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockBackend) ListBaseCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]string)
	return res, args.Error(1)
}

func (m *MockBackend) ListAllCurrencies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]string)
	return res, args.Error(1)
}

type fixture struct {
	ctl     *Controller
	repo    *memoryConfigRepo
	backend *MockBackend
	bus     *memorybus.MemoryEventBus
	notices *notice.Collector
	ctx     context.Context
}

// newFixture builds a loaded controller over rec. A nil rec starts from the
// defaults of a fresh install.
func newFixture(t *testing.T, rec *domain.ExchangeRateConfig) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		repo:    &memoryConfigRepo{rec: rec.Clone()},
		backend: &MockBackend{},
		bus:     memorybus.NewWithMemory(logger),
		notices: notice.NewCollector(),
	}
	f.ctx = notice.WithCollector(context.Background(), f.notices)
	f.ctl = New(f.repo, f.backend, f.bus, logger)
	require.NoError(t, f.ctl.Load(f.ctx))
	return f
}

func (f *fixture) view(t *testing.T) View {
	t.Helper()
	v, err := f.ctl.View(context.Background())
	require.NoError(t, err)
	return v
}

func verifiedRecord() *domain.ExchangeRateConfig {
	rec := domain.NewExchangeRateConfig()
	rec.Enabled = true
	rec.APIKey = "app-id"
	rec.ConnectionSuccess = domain.ConnectionSucceeded
	rec.APIStatus = "active"
	rec.Plan = "Free"
	rec.Quota = "1000 requests/month"
	rec.FromCurrencyMode = domain.FromCurrencyAll
	rec.BaseCurrencies = []string{"USD"}
	rec.TargetCurrencies = []string{"EUR", "GBP"}
	return rec
}

func messages(ns []notice.Notice) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Message)
	}
	return out
}
