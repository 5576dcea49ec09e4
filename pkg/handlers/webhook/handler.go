package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/matchtips/core/pkg/apifootball"
	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/models/api"
	"github.com/matchtips/core/pkg/services"
	"github.com/matchtips/core/pkg/telegram"
)

const (
	// AckBody is returned for every inbound update
	AckBody = "Scheduled task completed"

	// StartReply answers the /start command
	StartReply = "Bot is running!"

	// SecretTokenHeader carries the secret_token given to setWebhook
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

	maxUpdateSize = 1 << 20
)

// DigestRunner runs one pipeline run for a date
type DigestRunner interface {
	Run(ctx context.Context, date time.Time) (*services.RunResult, error)
}

// Handler turns an inbound Telegram update into one pipeline run
type Handler struct {
	digest   DigestRunner
	bot      telegram.MessageSender
	location *time.Location
	secret   string
	now      func() time.Time
	logger   *logger.Logger
}

// NewHandler creates a webhook handler. bot may be nil, in which case
// /start is not answered.
func NewHandler(digest DigestRunner, bot telegram.MessageSender, loc *time.Location, log *logger.Logger) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		digest:   digest,
		bot:      bot,
		location: loc,
		now:      time.Now,
		logger:   log,
	}
}

// WithSecretToken rejects updates whose secret token header differs from
// secret. An empty secret accepts every request.
func (h *Handler) WithSecretToken(secret string) *Handler {
	h.secret = secret
	return h
}

// HandleUpdate runs the pipeline to completion before acknowledging. The
// update payload only matters for /start; any request triggers the run. The
// optional ?date=YYYY-MM-DD query parameter overrides the run date.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	if !h.authorized(r) {
		log.Warn().
			Str("action", "webhook_unauthorized").
			Str("remote_addr", r.RemoteAddr).
			Msg("Rejected update with missing or wrong secret token")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(api.WebhookResponse{StatusCode: http.StatusUnauthorized, Body: "Unauthorized"})
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateSize)).Decode(&update); err != nil && err != io.EOF {
		log.Warn().
			Err(err).
			Str("action", "update_decode_failed").
			Msg("Could not decode inbound update")
	} else {
		h.replyToStart(log, update)
	}

	date := h.runDate(log, r.URL.Query().Get("date"))

	// the run finishes even if the caller hangs up
	ctx := context.WithoutCancel(r.Context())
	result, err := h.digest.Run(ctx, date)
	if err != nil {
		log.Error().
			Err(err).
			Str("action", "webhook_run_failed").
			Msg("Pipeline run triggered by webhook failed")
	} else {
		log.Info().
			Str("action", "webhook_run_complete").
			Str("run_id", result.RunID).
			Int("fixtures", result.Fixtures).
			Bool("published", result.Published).
			Msg("Pipeline run triggered by webhook completed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(api.WebhookResponse{StatusCode: http.StatusOK, Body: AckBody}); err != nil {
		log.Error().Err(err).Str("action", "webhook_response_failed").Msg("Failed to encode webhook response")
	}
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	got := r.Header.Get(SecretTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}

func (h *Handler) replyToStart(log *logger.Logger, update tgbotapi.Update) {
	if h.bot == nil || update.Message == nil || !update.Message.IsCommand() || update.Message.Command() != "start" {
		return
	}

	reply := tgbotapi.NewMessage(update.Message.Chat.ID, StartReply)
	if _, err := h.bot.Send(reply); err != nil {
		log.Warn().
			Err(err).
			Str("action", "start_reply_failed").
			Int64("chat_id", update.Message.Chat.ID).
			Msg("Failed to answer /start")
	}
}

func (h *Handler) runDate(log *logger.Logger, raw string) time.Time {
	if raw == "" {
		return h.now().In(h.location)
	}

	date, err := apifootball.ParseDate(raw, h.location)
	if err != nil {
		log.Warn().
			Err(err).
			Str("action", "invalid_date_override").
			Str("date", raw).
			Msg("Ignoring invalid date override, using today")
		return h.now().In(h.location)
	}
	return date
}
