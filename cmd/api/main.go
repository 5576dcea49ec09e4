package main

import (
	"fmt"
	neturl "net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/matchtips/core/internal/app"
	"github.com/matchtips/core/internal/config"
	"github.com/matchtips/core/pkg/handlers/webhook"
	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/server"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "api",
		Short:        "Serve the Telegram webhook that triggers the fixtures digest",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(configPath string) error {
	logger.SetupLogger()
	log := logger.New("api-service")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error().Err(err).Str("action", "config_invalid").Msg("Failed to load configuration")
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := app.Build(cfg, log)
	if err != nil {
		log.Error().Err(err).Str("action", "startup_failed").Msg("Failed to initialize")
		return err
	}

	if cfg.Telegram.WebhookURL != "" {
		if err := registerWebhook(a.Bot, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			return err
		}
		log.Info().
			Str("action", "webhook_registered").
			Str("url", cfg.Telegram.WebhookURL).
			Msg("Telegram webhook registered")
	}

	updates := webhook.NewHandler(a.Digest, a.Bot, a.Location, log).WithSecretToken(cfg.Telegram.WebhookSecret)
	srv := server.New(cfg.Server, updates, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	log.Info().
		Str("action", "api_ready").
		Str("addr", cfg.Addr()).
		Msg("Webhook server is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	// in-flight webhook runs are allowed to finish
	if err := srv.Shutdown(cfg.Server.WriteTimeout + 10*time.Second); err != nil {
		log.Error().Err(err).Str("action", "server_shutdown_failed").Msg("Server shutdown error")
		return err
	}

	log.Info().Str("action", "api_stopped").Msg("Webhook server stopped")
	return nil
}

func registerWebhook(bot *tgbotapi.BotAPI, url, secret string) error {
	if _, err := neturl.ParseRequestURI(url); err != nil {
		return fmt.Errorf("invalid webhook url %q: %w", url, err)
	}

	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	if _, err := bot.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	return nil
}
