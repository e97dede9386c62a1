package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"HNDigest/internal/app"
	"HNDigest/internal/config"
	"HNDigest/internal/logging"
)

func main() {
	// Credentials commonly live in a local .env during development; a
	// missing file is not an error.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hndigest",
		Short:         "Harvest Hacker News top stories into a document store and compose weekly digests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCollectCmd())
	root.AddCommand(newDigestCmd())
	return root
}

func buildApp() (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}

func newCollectCmd() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Fetch, summarize, and persist the current top stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Close()

			if schedule == "" {
				schedule = application.CronExpression()
			}

			ctx := context.Background()
			if schedule != "" {
				return application.RunScheduled(ctx, schedule)
			}
			return application.RunCollect(ctx)
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron expression; when set, keeps running and collects on schedule")
	return cmd
}

func newDigestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Compose the weekly digest from recently persisted records",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApp()
			if err != nil {
				return err
			}
			defer application.Close()

			return application.RunDigest(context.Background())
		},
	}
}
