package controller

import (
	"context"
	"strings"

	"github.com/amirasaad/ratesync/pkg/provider"
)

// Connection test outcomes reported by the backend.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Backend is the remote side the controller drives. Transport failures are
// returned as errors; remote-reported failures come back as payloads.
type Backend interface {
	TestConnection(ctx context.Context) (*ConnectionResult, error)
	GetAPIUsage(ctx context.Context, apiKey string) (*provider.Usage, error)
	SyncRates(ctx context.Context, scope string) (*SyncResult, error)
	AddBaseCurrency(ctx context.Context, code string) (bool, error)
	RemoveBaseCurrency(ctx context.Context, code string) error
	ListBaseCurrencies(ctx context.Context) ([]string, error)
	ListAllCurrencies(ctx context.Context) ([]string, error)
}

// ConnectionResult is the payload of a connection test.
type ConnectionResult struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	ErrorCode   string `json:"error_code,omitempty"`
	Plan        string `json:"plan_info,omitempty"`
	Quota       string `json:"quota_info,omitempty"`
	APIStatus   string `json:"api_status,omitempty"`
	BaseEnabled bool   `json:"base_enabled"`
}

func (r *ConnectionResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// SyncResult is the payload of a rate sync. A result that is not OK, or
// that carries no message, is falsy.
type SyncResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (r *SyncResult) Truthy() bool {
	return r != nil && r.OK && strings.TrimSpace(r.Message) != ""
}
