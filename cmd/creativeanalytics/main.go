package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"CreativeAnalytics/internal/app"
	"CreativeAnalytics/internal/config"
	"CreativeAnalytics/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "creativeanalytics",
		Short:         "Creative performance analytics batch",
		Long:          "Joins ad spend, ad revenue, campaign mapping and the creative backlog into a per-creative fact table and an author ranking.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the YAML config (default $CREATIVE_ANALYTICS_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading environment overrides")

	cmd.AddCommand(newRunCmd(opts), newMigrateCmd(opts), newScheduleCmd(opts))
	return cmd
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once and replace all outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var appOpts []app.Option
			if !quiet {
				appOpts = append(appOpts, app.WithOutput(cmd.OutOrStdout()))
			}

			application, logger, err := opts.bootstrap(cmd, appOpts...)
			if err != nil {
				return err
			}
			defer closeApp(application, logger)

			res, err := application.Run(cmd.Context())
			if err != nil {
				logger.Error("run failed", "error", err)
				return err
			}
			logger.Info("run finished", "run_id", res.RunID, "fact_rows", res.Diagnostics.FactRows, "authors", res.Diagnostics.Authors)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the author ranking")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the output tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, logger, err := opts.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closeApp(application, logger)

			if err := application.Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Re-run the pipeline on the configured cron expression",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, logger, err := opts.bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closeApp(application, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return application.Schedule(ctx, runNow)
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "run once immediately before waiting for the schedule")
	return cmd
}

func (o *rootOptions) bootstrap(cmd *cobra.Command, appOpts ...app.Option) (*app.Application, *slog.Logger, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("load %s: %w", o.envFile, err)
		}
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.NewWithFormat(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cmd.Context(), cfg, logger, appOpts...)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		return nil, nil, err
	}
	return application, logger, nil
}

func closeApp(application *app.Application, logger *slog.Logger) {
	if err := application.Close(); err != nil {
		logger.Warn("close application", "error", err)
	}
}
