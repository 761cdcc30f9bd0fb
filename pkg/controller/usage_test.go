package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/ratesync/pkg/notice"
	"github.com/amirasaad/ratesync/pkg/provider"
)

func TestShowAPIUsage(t *testing.T) {
	f := newFixture(t, verifiedRecord())
	f.backend.On("GetAPIUsage", mock.Anything, "app-id").Return(&provider.Usage{
		Requests:          120,
		RequestsQuota:     1000,
		RequestsRemaining: 880,
		DaysElapsed:       12,
		DaysRemaining:     18,
		DailyAverage:      10,
	}, nil).Once()

	require.NoError(t, f.ctl.ShowAPIUsage(f.ctx))

	ns := f.notices.Notices()
	require.Len(t, ns, 1)
	assert.Equal(t, "API Usage Information", ns[0].Title)
	assert.Equal(t, notice.SeverityInfo, ns[0].Severity)
	assert.Contains(t, ns[0].Message, "Requests Remaining: 880")
	assert.Contains(t, ns[0].Message, "Daily Average: 10")
}

func TestShowAPIUsage_Failure(t *testing.T) {
	f := newFixture(t, verifiedRecord())
	f.backend.On("GetAPIUsage", mock.Anything, "app-id").Return(nil, errors.New("401")).Once()

	require.NoError(t, f.ctl.ShowAPIUsage(f.ctx))

	assert.Equal(t, []string{"Invalid API Key or failed to fetch usage info."}, messages(f.notices.Notices()))
}

func TestShowAPIUsage_RequiresVerifiedRecord(t *testing.T) {
	f := newFixture(t, unverifiedRecord())

	require.NoError(t, f.ctl.ShowAPIUsage(f.ctx))

	assert.Equal(t, []string{"Please test the connection first."}, messages(f.notices.Notices()))
	f.backend.AssertNotCalled(t, "GetAPIUsage", mock.Anything, mock.Anything)
}
