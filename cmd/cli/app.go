package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirasaad/ratesync/infra/initializer"
	"github.com/amirasaad/ratesync/pkg/app"
	"github.com/amirasaad/ratesync/pkg/config"
	"github.com/amirasaad/ratesync/pkg/notice"
)

var current *app.App

func setupApp(cmd *cobra.Command) error {
	if current != nil {
		return nil
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	a := app.New(deps, cfg)
	current = a
	return runOp(cmd, a.Start)
}

// runOp runs op with a notice collector and prints what it collected.
func runOp(cmd *cobra.Command, op func(ctx context.Context) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	collector := notice.NewCollector()
	err := op(notice.WithCollector(ctx, collector))
	printNotices(cmd.OutOrStdout(), collector.Notices())
	return err
}
