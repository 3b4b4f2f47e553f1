package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ridehub/taxi-bot/internal/models"
)

const (
	orderButton    = "🚖 Order Taxi"
	contactButton  = "📱 Share Contact"
	locationButton = "📍 Send Current Location"
)

// Inline button payloads.
const (
	cbConfirm     = "confirm"
	cbEdit        = "edit"
	cbCancel      = "cancel"
	cbAddComment  = "add_comment"
	cbSkipComment = "skip_comment"
)

const (
	welcomeText   = "Welcome to our Taxi Service! 🚕\n\nPress the button below to order a taxi."
	acceptedText  = "✅ Your order has been accepted, wait for a call from the driver."
	thanksText    = "Thank you for using our service!"
	cancelledText = "Order cancelled. Press the button to start a new order."
	deniedText    = "⛔ You are not authorized to use this command."
)

const passengerHelp = "🚕 Taxi Bot\n\n" +
	"Press \"" + orderButton + "\" or send /order to book a ride.\n" +
	"/confirm - Confirm the order shown in the summary\n" +
	"/cancel - Cancel the order in progress\n" +
	"/help - Show this help message"

const driverHelp = "🚕 *Driver Bot Help*\n\n" +
	"This bot receives taxi orders automatically.\n\n" +
	"When a passenger places an order, you will receive:\n" +
	"• Customer name and phone\n" +
	"• Pickup and drop-off locations\n" +
	"• Waze navigation link\n" +
	"• Customer's Telegram username for contact\n\n" +
	"Contact customers directly through Telegram to confirm the ride."

func orderKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(orderButton)))
	kb.OneTimeKeyboard = true
	return kb
}

func contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(contactButton)))
	kb.OneTimeKeyboard = true
	return kb
}

func locationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonLocation(locationButton)))
	kb.OneTimeKeyboard = true
	return kb
}

func commentDecisionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💬 Add Comment", cbAddComment)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➡️ No Comment", cbSkipComment)),
	)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Confirm Order", cbConfirm)),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", cbEdit),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", cbCancel),
		),
	)
}

func orderSummary(o models.Order) string {
	var sb strings.Builder

	sb.WriteString("📋 Order Summary:\n\n")
	sb.WriteString(fmt.Sprintf("👤 Name: %s\n", o.Name))
	sb.WriteString(fmt.Sprintf("📱 Phone: %s\n", o.Phone))
	sb.WriteString(fmt.Sprintf("📍 Pickup: %s\n", o.Pickup))
	sb.WriteString(fmt.Sprintf("🏁 Drop-off: %s\n", o.Dropoff))
	if o.Comment != "" {
		sb.WriteString(fmt.Sprintf("💬 Comment: %s\n", o.Comment))
	}

	return sb.String()
}

func driverList(drivers []int64, limit int) string {
	if len(drivers) == 0 {
		return "📋 No drivers registered yet."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Registered Drivers (%d/%d):\n\n", len(drivers), limit))
	for i, id := range drivers {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("• %d", id))
	}
	return sb.String()
}
