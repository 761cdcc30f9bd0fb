package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "Manage base currencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return currenciesListCmd.RunE(cmd, args)
	},
}

var currenciesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List base currencies and the currencies that can be added",
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := current.Controller.Candidates(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "%s %s\n", labelStyle.Render("base:"), strings.Join(candidates.Remove, ", "))
		_, _ = fmt.Fprintf(out, "%s %s\n", labelStyle.Render("available:"), strings.Join(candidates.Add, ", "))
		return nil
	},
}

var currenciesAddCmd = &cobra.Command{
	Use:   "add <code>",
	Short: "Add a base currency and fetch its rates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, func(ctx context.Context) error {
			return current.Controller.AddCurrency(ctx, args[0])
		})
	},
}

var currenciesRemoveCmd = &cobra.Command{
	Use:   "remove <code>",
	Short: "Remove a base currency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, func(ctx context.Context) error {
			return current.Controller.RemoveCurrency(ctx, args[0])
		})
	},
}

var currenciesUpdateCmd = &cobra.Command{
	Use:   "update <code|All>",
	Short: "Update rates for one base currency or all of them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOp(cmd, func(ctx context.Context) error {
			return current.Controller.UpdateRatesFor(ctx, args[0])
		})
	},
}

func init() {
	currenciesCmd.AddCommand(currenciesListCmd)
	currenciesCmd.AddCommand(currenciesAddCmd)
	currenciesCmd.AddCommand(currenciesRemoveCmd)
	currenciesCmd.AddCommand(currenciesUpdateCmd)
}
