package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// DriverLookup reports whether a chat is a registered driver.
type DriverLookup interface {
	Contains(chatID int64) bool
}

// DriverBot is the bot drivers talk to. Orders reach drivers through a Sender
// on the same API; this loop only answers drivers' own commands.
type DriverBot struct {
	api     API
	drivers DriverLookup
	logger  zerolog.Logger
}

func NewDriverBot(api API, drivers DriverLookup, logger zerolog.Logger) *DriverBot {
	return &DriverBot{
		api:     api,
		drivers: drivers,
		logger:  logger.With().Str("component", "driver_bot").Logger(),
	}
}

func (b *DriverBot) Run(ctx context.Context) error {
	b.logger.Info().Msg("Driver bot started")
	return runUpdates(ctx, b.api, b.HandleUpdate)
}

func (b *DriverBot) HandleUpdate(_ context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, "Use /help to see available commands.", "")
		return
	}

	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, b.welcome(msg.Chat.ID), tgbotapi.ModeMarkdown)
	case "help":
		b.sendMessage(msg.Chat.ID, driverHelp, tgbotapi.ModeMarkdown)
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Use /help to see available commands.", "")
	}
}

func (b *DriverBot) welcome(chatID int64) string {
	text := fmt.Sprintf("🚕 Welcome to Driver Bot!\n\nYour Chat ID: `%d`\n\n", chatID)
	if b.drivers.Contains(chatID) {
		return text + "✅ You are registered. New orders will arrive in this chat automatically."
	}
	return text + "Send this Chat ID to the administrator to start receiving orders.\n\n" +
		"You will receive new orders automatically in this chat."
}

func (b *DriverBot) sendMessage(chatID int64, text, parseMode string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	send(b.api, b.logger, msg)
}
