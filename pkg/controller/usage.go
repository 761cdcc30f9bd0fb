package controller

import (
	"context"
	"fmt"

	"github.com/amirasaad/ratesync/pkg/notice"
	"github.com/amirasaad/ratesync/pkg/provider"
)

const msgUsageFailed = "Invalid API Key or failed to fetch usage info."

// ShowAPIUsage reports the provider's request counters for the stored key.
func (c *Controller) ShowAPIUsage(ctx context.Context) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	s := c.snapshot()
	if !Verified(s.Record, s.Dirty) {
		c.notify(ctx, notice.Info(msgTestConnectionNext))
		return nil
	}

	usage, err := c.backend.GetAPIUsage(ctx, s.Record.APIKey)
	if err != nil || usage == nil {
		c.logger.Error("Failed to fetch API usage", "error", err)
		c.notify(ctx, notice.Error("Error", msgUsageFailed))
		return c.reload(ctx, s.version)
	}
	n := notice.Info(formatUsage(usage))
	n.Title = "API Usage Information"
	c.notify(ctx, n)
	return nil
}

func formatUsage(u *provider.Usage) string {
	return fmt.Sprintf(
		"Requests: %d\nRequests Quota: %d\nRequests Remaining: %d\n"+
			"Days Elapsed: %d\nDays Remaining: %d\nDaily Average: %g",
		u.Requests, u.RequestsQuota, u.RequestsRemaining,
		u.DaysElapsed, u.DaysRemaining, u.DailyAverage,
	)
}
