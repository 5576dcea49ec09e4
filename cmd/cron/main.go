package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matchtips/core/internal/app"
	"github.com/matchtips/core/internal/config"
	"github.com/matchtips/core/pkg/apifootball"
	"github.com/matchtips/core/pkg/jobs"
	"github.com/matchtips/core/pkg/logger"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "cron",
		Short: "Publish the daily fixtures and predictions digest on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler(configPath)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	rootCmd.AddCommand(runCmd(&configPath))
	rootCmd.AddCommand(checkCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(configPath string) (*app.App, *logger.Logger, error) {
	logger.SetupLogger()
	log := logger.New("cron-service")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error().Err(err).Str("action", "config_invalid").Msg("Failed to load configuration")
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	a, err := app.Build(cfg, log)
	if err != nil {
		log.Error().Err(err).Str("action", "startup_failed").Msg("Failed to initialize")
		return nil, nil, err
	}
	return a, log, nil
}

func runScheduler(configPath string) error {
	a, log, err := setup(configPath)
	if err != nil {
		return err
	}

	manager := jobs.NewJobManager(a.Location, log)
	digestJob := jobs.NewDigestJob(a.Digest, a.Config.Schedule.Cron, a.Location, log)
	if err := manager.RegisterJob(digestJob); err != nil {
		return fmt.Errorf("failed to register digest job: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager.Start()
	log.Info().
		Str("action", "scheduler_ready").
		Str("schedule", a.Config.Schedule.Cron).
		Str("timezone", a.Location.String()).
		Strs("leagues", a.Config.Football.Leagues).
		Msg("Digest scheduler is running")

	<-ctx.Done()

	log.Info().Str("action", "shutdown_signal").Msg("Shutdown requested, disarming scheduler")
	manager.Stop()
	return nil
}

func runCmd(configPath *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := setup(*configPath)
			if err != nil {
				return err
			}

			runDate := time.Now().In(a.Location)
			if date != "" {
				if runDate, err = apifootball.ParseDate(date, a.Location); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), jobs.DefaultJobTimeout)
			defer cancel()

			result, err := a.Digest.Run(ctx, runDate)
			if err != nil {
				log.Error().Err(err).Str("action", "run_failed").Msg("Pipeline run failed")
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d fixtures across %d competitions, published=%t, chunks=%d\n",
				result.RunID, result.Fixtures, len(result.Competitions), result.Published, result.Chunks)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "run date as YYYY-MM-DD (defaults to today)")

	return cmd
}

func checkCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the configuration, the Telegram token and API-Football access",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := setup(*configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), a.Config.Football.Timeout)
			defer cancel()

			if err := a.Football.Health(ctx); err != nil {
				log.Error().Err(err).Str("action", "check_failed").Msg("API-Football is not reachable")
				return fmt.Errorf("api-football check failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "telegram: authorized as @%s\napi-football: ok\n", a.Bot.Self.UserName)
			return nil
		},
	}
}
