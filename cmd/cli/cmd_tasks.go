package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirasaad/ratesync/pkg/currency"
	"github.com/amirasaad/ratesync/pkg/service/ratesync"
)

// errSyncFailed is returned when a scheduled sync reports no usable result.
var errSyncFailed = errors.New("exchange rate sync failed")

var syncCmd = &cobra.Command{
	Use:   "sync [scope]",
	Short: "Run the scheduled rate sync for a base currency or All",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := currency.All
		if len(args) == 1 {
			scope = args[0]
		}
		res, err := current.RateSync.SyncRates(cmd.Context(), scope)
		if err != nil {
			return err
		}
		if !res.Truthy() {
			if res.Message != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			}
			return errSyncFailed
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stored rates older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := current.RateSync.PruneRates(cmd.Context())
		if errors.Is(err, ratesync.ErrSyncDisabled) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Exchange rate source is disabled; nothing pruned.")
			return nil
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d exchange rate rows.\n", n)
		return nil
	},
}
