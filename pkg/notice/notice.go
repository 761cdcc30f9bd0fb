// Package notice carries user-facing operation outcomes from the controller
// to whichever host is driving it.
package notice

import (
	"context"
	"sync"
)

// Severity classifies a notice for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notice is one message shown to the user.
type Notice struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title,omitempty"`
	Message  string   `json:"message"`
}

func Info(message string) Notice {
	return Notice{Severity: SeverityInfo, Message: message}
}

func Success(title, message string) Notice {
	return Notice{Severity: SeveritySuccess, Title: title, Message: message}
}

func Error(title, message string) Notice {
	return Notice{Severity: SeverityError, Title: title, Message: message}
}

// Collector gathers the notices produced while serving one host request.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Add(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns a copy of everything collected so far.
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

type collectorKey struct{}

// WithCollector returns a context whose notices are delivered to c.
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// FromContext returns the collector bound to ctx, or nil.
func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}
