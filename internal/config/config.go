package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Football FootballConfig `mapstructure:"football"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Server   ServerConfig   `mapstructure:"server"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

type TelegramConfig struct {
	Token         string        `mapstructure:"token"`
	ChannelID     string        `mapstructure:"channel_id"`
	WebhookURL    string        `mapstructure:"webhook_url"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type FootballConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Season           int           `mapstructure:"season"`
	Leagues          []string      `mapstructure:"leagues"`
	Timeout          time.Duration `mapstructure:"timeout"`
	RequestsPerMin   int           `mapstructure:"requests_per_min"`
	BreakerThreshold uint32        `mapstructure:"breaker_threshold"`
}

type ScheduleConfig struct {
	Cron     string `mapstructure:"cron"`
	Timezone string `mapstructure:"timezone"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type PipelineConfig struct {
	PredictionWorkers int    `mapstructure:"prediction_workers"`
	Footer            string `mapstructure:"footer"`
}

// env bindings; keys are the viper paths
var envBindings = map[string]string{
	"telegram.token":              "TELEGRAM_BOT_TOKEN",
	"telegram.channel_id":         "CHANNEL_ID",
	"telegram.webhook_url":        "TELEGRAM_WEBHOOK_URL",
	"telegram.webhook_secret":     "TELEGRAM_WEBHOOK_SECRET",
	"telegram.timeout":            "TELEGRAM_TIMEOUT",
	"football.api_key":            "API_FOOTBALL_KEY",
	"football.base_url":           "API_FOOTBALL_URL",
	"football.season":             "FOOTBALL_SEASON",
	"football.leagues":            "FOOTBALL_LEAGUES",
	"football.timeout":            "API_FOOTBALL_TIMEOUT",
	"football.requests_per_min":   "API_FOOTBALL_REQUESTS_PER_MIN",
	"football.breaker_threshold":  "API_FOOTBALL_BREAKER_THRESHOLD",
	"schedule.cron":               "DIGEST_SCHEDULE",
	"schedule.timezone":           "TIMEZONE",
	"server.host":                 "HOST",
	"server.port":                 "PORT",
	"server.read_timeout":         "SERVER_READ_TIMEOUT",
	"server.write_timeout":        "SERVER_WRITE_TIMEOUT",
	"pipeline.prediction_workers": "PREDICTION_WORKERS",
	"pipeline.footer":             "PROMO_FOOTER",
}

// Load reads configuration from an optional YAML file, a .env file (if
// present) and the process environment. Environment wins over the file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// FOOTBALL_LEAGUES arrives as "333,71"; YAML lists pass through untouched
	cfg.Football.Leagues = splitList(v.GetStringSlice("football.leagues"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.timeout", 30*time.Second)

	v.SetDefault("football.base_url", "https://v3.football.api-sports.io")
	v.SetDefault("football.season", 2024)
	v.SetDefault("football.leagues", []string{"333", "71"})
	v.SetDefault("football.timeout", 30*time.Second)
	v.SetDefault("football.requests_per_min", 10) // free plan
	v.SetDefault("football.breaker_threshold", 5)

	v.SetDefault("schedule.cron", "0 7 * * *")
	v.SetDefault("schedule.timezone", "Local")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute) // webhook runs the whole pipeline

	v.SetDefault("pipeline.prediction_workers", 1)
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.Telegram.ChannelID == "" {
		errs = append(errs, errors.New("CHANNEL_ID is required"))
	}
	if c.Football.APIKey == "" {
		errs = append(errs, errors.New("API_FOOTBALL_KEY is required"))
	}
	if len(c.Football.Leagues) == 0 {
		errs = append(errs, errors.New("at least one league is required"))
	}
	if c.Pipeline.PredictionWorkers < 1 {
		errs = append(errs, errors.New("PREDICTION_WORKERS must be at least 1"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves the configured timezone used for "today" and the cron schedule.
func (c *Config) Location() (*time.Location, error) {
	if c.Schedule.Timezone == "" || c.Schedule.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Schedule.Timezone, err)
	}
	return loc, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
