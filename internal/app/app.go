// Package app wires configuration into the services shared by the cron and
// webhook entry points.
package app

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/matchtips/core/internal/config"
	"github.com/matchtips/core/pkg/apifootball"
	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/message"
	"github.com/matchtips/core/pkg/services"
	"github.com/matchtips/core/pkg/telegram"
)

// App holds the long-lived handles of one process
type App struct {
	Config   *config.Config
	Bot      *tgbotapi.BotAPI
	Football *apifootball.Client
	Digest   *services.DigestService
	Location *time.Location
	Logger   *logger.Logger
}

// Build connects the bot and assembles the pipeline. The bot handle is
// reused across runs; it holds no per-run state.
func Build(cfg *config.Config, log *logger.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.Timeout)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("action", "bot_authorized").
		Str("bot_username", bot.Self.UserName).
		Msg("Authorized on Telegram")

	football := NewFootballClient(cfg, log)

	return &App{
		Config:   cfg,
		Bot:      bot,
		Football: football,
		Digest:   NewDigest(cfg, football, bot, log),
		Location: loc,
		Logger:   log,
	}, nil
}

// NewFootballClient creates the API-Football client from configuration
func NewFootballClient(cfg *config.Config, log *logger.Logger) *apifootball.Client {
	clientCfg := apifootball.DefaultConfig(cfg.Football.APIKey)
	clientCfg.BaseURL = cfg.Football.BaseURL
	clientCfg.Timeout = cfg.Football.Timeout
	clientCfg.RequestsPerMin = cfg.Football.RequestsPerMin
	clientCfg.BreakerThreshold = cfg.Football.BreakerThreshold
	clientCfg.Logger = log
	return apifootball.NewClient(clientCfg)
}

// NewDigest assembles fetch, compose and publish into one digest service
func NewDigest(cfg *config.Config, football *apifootball.Client, sender telegram.MessageSender, log *logger.Logger) *services.DigestService {
	predictions := services.NewPredictionService(football, log)
	fixtures := services.NewFixtureService(football, predictions, cfg.Football.Season, cfg.Pipeline.PredictionWorkers, log)

	return services.NewDigestService(
		fixtures,
		message.NewComposer(cfg.Pipeline.Footer),
		telegram.NewPublisher(sender, log),
		cfg.Telegram.ChannelID,
		cfg.Football.Leagues,
		log,
	)
}
