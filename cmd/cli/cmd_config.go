package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirasaad/ratesync/pkg/controller"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the exchange rate source configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := current.Controller.View(cmd.Context())
		if err != nil {
			return err
		}
		printView(cmd.OutOrStdout(), view)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <field> <value> [<field> <value>...]",
	Short: "Edit fields in order and save",
	Long: "set applies each field edit in the order given and then saves the record. " +
		"Lists take comma-separated codes, e.g. to_currencies EUR,GBP.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%2 != 0 {
			return fmt.Errorf("expected field/value pairs, got %d arguments", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, func(ctx context.Context) error {
			for i := 0; i < len(args); i += 2 {
				if err := current.Controller.SetField(ctx, controller.Field(args[i]), args[i+1]); err != nil {
					return err
				}
			}
			return current.Controller.Save(ctx)
		})
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the record, running the after-save sync when verified",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, current.Controller.Save)
	},
}

var testConnectionCmd = &cobra.Command{
	Use:   "test-connection",
	Short: "Verify the API key and refresh plan information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, current.Controller.TestConnection)
	},
}

var updateRatesCmd = &cobra.Command{
	Use:   "update-rates",
	Short: "Update exchange rates for every base currency",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, func(ctx context.Context) error {
			return current.Controller.UpdateExchangeRates(ctx, controller.TriggerButton)
		})
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show API usage for the configured key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, current.Controller.ShowAPIUsage)
	},
}
