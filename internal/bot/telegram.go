// Package bot connects the order dialogue and the driver registry to Telegram.
// The passenger bot takes orders and admin commands; the driver bot only
// tells drivers their chat ID and delivers orders to them.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// API is the part of *tgbotapi.BotAPI the bots use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// pollTimeout is the long-poll window in seconds; httpTimeout must outlast it.
const (
	pollTimeout = 60
	httpTimeout = 90 * time.Second
)

// Connect authorizes a bot token against Telegram. No request to Telegram may
// outlive httpTimeout.
func Connect(token string, logger zerolog.Logger) (*tgbotapi.BotAPI, error) {
	client := &http.Client{Timeout: httpTimeout}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info().Str("account", api.Self.UserName).Msg("Authorized on account")
	return api, nil
}

// Sender sends plain text through one bot. Telegram calls cannot be
// cancelled, so ctx is only checked before sending; callers bound the wait
// with dispatch.SendWithin.
type Sender struct {
	api API
}

func NewSender(api API) *Sender {
	return &Sender{api: api}
}

func (s *Sender) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	_, err := s.api.Send(msg)
	return err
}

// runUpdates polls for updates and handles them one at a time until ctx is done.
func runUpdates(ctx context.Context, api API, handle func(context.Context, tgbotapi.Update)) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout

	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			handle(ctx, update)
		}
	}
}

func send(api API, logger zerolog.Logger, c tgbotapi.Chattable) {
	if _, err := api.Send(c); err != nil {
		logger.Error().Err(err).Msg("Error sending message")
	}
}
