// Package cli implements the newschecker command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NewsChecker/internal/app"
	"NewsChecker/internal/config"
	"NewsChecker/internal/logging"
)

type options struct {
	configPath string
	logLevel   string
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "newschecker",
		Short:         "Crawl the news listing and report broken links",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (default $NEWSCHECKER_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP endpoints and the cron schedule",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), opts, func(ctx context.Context, a *app.Application) error {
					return a.Serve(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "run",
			Short: "Run one listing crawl followed by one detail check",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), opts, func(ctx context.Context, a *app.Application) error {
					return a.Parse(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "listing",
			Short: "Record the articles of the latest listing date",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), opts, func(ctx context.Context, a *app.Application) error {
					report, err := a.Listing(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "topics=%d articles=%d created=%d\n",
						report.Topics, report.Articles, report.Created)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Validate links of every unchecked article",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), opts, func(ctx context.Context, a *app.Application) error {
					report, err := a.Check(ctx)
					fmt.Fprintf(cmd.OutOrStdout(), "total=%d checked=%d failed=%d broken=%d\n",
						report.Total, report.Checked, report.Failed, len(report.Broken))
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), opts, func(context.Context, *app.Application) error {
					return nil
				})
			},
		},
	)

	return root
}

// withApp loads config, builds the application, ensures the schema and runs fn.
func withApp(ctx context.Context, opts *options, fn func(context.Context, *app.Application) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	defer application.Close()

	if err := application.Migrate(ctx); err != nil {
		return err
	}
	return fn(ctx, application)
}
