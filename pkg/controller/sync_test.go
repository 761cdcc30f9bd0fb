package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/ratesync/pkg/currency"
	"github.com/amirasaad/ratesync/pkg/notice"
)

var okSync = &SyncResult{OK: true, Message: "Exchange rate sync completed successfully."}

// A button press on a dirty record saves once and syncs once; the after-save
// hook sees the button cycle and stays quiet.
func TestUpdateExchangeRates_ButtonOnDirtyRecordSyncsOnce(t *testing.T) {
	f := newFixture(t, verifiedRecord())
	require.NoError(t, f.ctl.SetField(f.ctx, FieldToCurrencies, []string{"EUR", "JPY"}))
	f.backend.On("SyncRates", mock.Anything, currency.All).Return(okSync, nil).Once()

	require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerButton))

	assert.Equal(t, 1, f.repo.saveCount())
	assert.Len(t, f.bus.Published(), 1, "the save still publishes its event")
	f.backend.AssertNumberOfCalls(t, "SyncRates", 1)
	assert.Equal(t, []string{okSync.Message}, messages(f.notices.Notices()))

	v := f.view(t)
	assert.Equal(t, SyncIdle, v.SyncState)
	assert.False(t, v.Dirty)
	assert.Equal(t, []string{"EUR", "JPY"}, v.Record.TargetCurrencies)
}

func TestUpdateExchangeRates_ButtonOnCleanRecord(t *testing.T) {
	f := newFixture(t, verifiedRecord())
	f.backend.On("SyncRates", mock.Anything, currency.All).Return(okSync, nil).Once()

	require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerButton))

	assert.Equal(t, 0, f.repo.saveCount())
	assert.Empty(t, f.bus.Published())
	f.backend.AssertNumberOfCalls(t, "SyncRates", 1)
	ns := f.notices.Notices()
	require.Len(t, ns, 1)
	assert.Equal(t, notice.SeveritySuccess, ns[0].Severity)
}

func TestUpdateExchangeRates_Disabled(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerButton))

	assert.Equal(t, []string{"Please enable first."}, messages(f.notices.Notices()))
	f.backend.AssertNotCalled(t, "SyncRates", mock.Anything, mock.Anything)
}

func TestUpdateExchangeRates_SecondPressWhileRunning(t *testing.T) {
	f := newFixture(t, verifiedRecord())
	f.backend.On("SyncRates", mock.Anything, currency.All).
		Run(func(mock.Arguments) {
			assert.Equal(t, SyncSyncing, f.view(t).SyncState)
			require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerButton))
		}).
		Return(okSync, nil).Once()

	require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerButton))

	f.backend.AssertNumberOfCalls(t, "SyncRates", 1)
	assert.Equal(t, []string{"An exchange rate update is already running.", okSync.Message},
		messages(f.notices.Notices()))
	assert.Equal(t, SyncIdle, f.view(t).SyncState)
}

func TestUpdateExchangeRates_FalsyResult(t *testing.T) {
	for name, res := range map[string]*SyncResult{
		"not ok":        {OK: false, Message: "Exchange rate sync failed for all bases"},
		"empty message": {OK: true},
		"nil payload":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, verifiedRecord())
			f.backend.On("SyncRates", mock.Anything, currency.All).Return(res, nil).Once()

			require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerButton))

			ns := f.notices.Notices()
			require.Len(t, ns, 1)
			assert.Equal(t, notice.SeverityError, ns[0].Severity)
			assert.Contains(t, ns[0].Message, "plan permissions")
		})
	}
}

func TestUpdateExchangeRates_TransportErrorClearsGuard(t *testing.T) {
	f := newFixture(t, verifiedRecord())
	f.backend.On("SyncRates", mock.Anything, currency.All).Return(nil, errors.New("timeout")).Once()

	require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerButton))

	assert.Equal(t, []string{"Server error while updating exchange rates."}, messages(f.notices.Notices()))
	assert.Equal(t, SyncIdle, f.view(t).SyncState)

	f.backend.On("SyncRates", mock.Anything, currency.All).Return(okSync, nil).Once()
	require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerButton))
	f.backend.AssertNumberOfCalls(t, "SyncRates", 2)
}

func TestUpdateExchangeRates_SaveFailureClearsGuard(t *testing.T) {
	f := newFixture(t, verifiedRecord())
	require.NoError(t, f.ctl.SetField(f.ctx, FieldToCurrencies, []string{"EUR"}))
	f.repo.saveErr = errors.New("locked")

	err := f.ctl.UpdateExchangeRates(f.ctx, TriggerButton)

	require.Error(t, err)
	assert.Equal(t, SyncIdle, f.view(t).SyncState)
	f.backend.AssertNotCalled(t, "SyncRates", mock.Anything, mock.Anything)
}

func TestUpdateExchangeRates_AfterSaveTrigger(t *testing.T) {
	t.Run("verified record syncs", func(t *testing.T) {
		f := newFixture(t, verifiedRecord())
		f.backend.On("SyncRates", mock.Anything, currency.All).Return(okSync, nil).Once()

		require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerAfterSave))

		f.backend.AssertNumberOfCalls(t, "SyncRates", 1)
	})

	t.Run("unverified record is skipped", func(t *testing.T) {
		f := newFixture(t, unverifiedRecord())

		require.NoError(t, f.ctl.UpdateExchangeRates(f.ctx, TriggerAfterSave))

		f.backend.AssertNotCalled(t, "SyncRates", mock.Anything, mock.Anything)
		assert.Empty(t, f.notices.Notices())
	})
}
