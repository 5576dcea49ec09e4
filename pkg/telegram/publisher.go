package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/message"
)

// MessageSender is the part of *tgbotapi.BotAPI the publisher needs
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewBot creates a Telegram bot client whose calls are bounded by timeout
func NewBot(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false
	return bot, nil
}

// Publisher sends digests to a Telegram channel
type Publisher struct {
	bot       MessageSender
	maxLength int
	logger    *logger.Logger
}

func NewPublisher(bot MessageSender, log *logger.Logger) *Publisher {
	return &Publisher{
		bot:       bot,
		maxLength: message.MaxLength,
		logger:    log,
	}
}

// Publish sends text to the channel, split into chunks when it exceeds the
// Telegram limit. The first failed chunk aborts the rest and is returned.
func (p *Publisher) Publish(ctx context.Context, channelID string, text string) error {
	log := logger.FromContext(ctx, p.logger)
	chunks := message.Split(text, p.maxLength)

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("publish cancelled before chunk %d/%d: %w", i+1, len(chunks), err)
		}

		msg := NewChannelMessage(channelID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown

		if _, err := p.bot.Send(msg); err != nil {
			log.Error().
				Err(err).
				Str("action", "message_send_failed").
				Str("channel_id", channelID).
				Int("chunk", i+1).
				Int("chunks", len(chunks)).
				Msg("Error sending message")
			return fmt.Errorf("failed to send chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}

	log.Info().
		Str("action", "message_sent").
		Str("channel_id", channelID).
		Int("chunks", len(chunks)).
		Msg("Message(s) sent successfully")

	return nil
}

// NewChannelMessage addresses a numeric chat id ("-100…") or a public "@channel"
func NewChannelMessage(channelID string, text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	if !strings.HasPrefix(channelID, "@") {
		channelID = "@" + channelID
	}
	return tgbotapi.NewMessageToChannel(channelID, text)
}
