// Package notify tells the admin about orders that did not reach the drivers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ridehub/taxi-bot/internal/dispatch"
	"github.com/ridehub/taxi-bot/internal/metrics"
	"github.com/ridehub/taxi-bot/internal/models"
)

var ErrAdminChatUnknown = errors.New("admin chat is not known yet")

// AdminNotifier sends dispatch failure summaries to the admin chat. The chat is
// either configured up front or learned when the admin first talks to the bot.
type AdminNotifier struct {
	sender    dispatch.Sender
	timeout   time.Duration
	adminChat atomic.Int64
	logger    zerolog.Logger
}

// NewAdminNotifier bounds every admin send by timeout; zero means
// dispatch.DefaultTimeout.
func NewAdminNotifier(sender dispatch.Sender, adminChat int64, timeout time.Duration, logger zerolog.Logger) *AdminNotifier {
	if timeout <= 0 {
		timeout = dispatch.DefaultTimeout
	}
	n := &AdminNotifier{
		sender:  sender,
		timeout: timeout,
		logger:  logger.With().Str("component", "notify").Logger(),
	}
	n.adminChat.Store(adminChat)
	return n
}

// SetAdminChat records where notifications go. Zero is ignored.
func (n *AdminNotifier) SetAdminChat(chatID int64) {
	if chatID == 0 {
		return
	}
	if old := n.adminChat.Swap(chatID); old != chatID {
		n.logger.Info().Int64("chat", chatID).Msg("admin chat set")
	}
}

func (n *AdminNotifier) AdminChat() int64 {
	return n.adminChat.Load()
}

// NotifyDispatchFailure is best effort: a failure here is logged and dropped.
func (n *AdminNotifier) NotifyDispatchFailure(ctx context.Context, order models.Order, report dispatch.Report) {
	if err := n.send(ctx, FormatFailure(order, report)); err != nil {
		metrics.RecordAdminAlert(false)
		n.logger.Error().Err(err).Str("order", report.OrderID).Msg("Failed to notify admin")
		return
	}
	metrics.RecordAdminAlert(true)
}

func (n *AdminNotifier) send(ctx context.Context, text string) error {
	chatID := n.adminChat.Load()
	if chatID == 0 {
		return ErrAdminChatUnknown
	}
	if err := dispatch.SendWithin(ctx, n.sender, chatID, text, n.timeout); err != nil {
		return fmt.Errorf("send to admin chat %d: %w", chatID, err)
	}
	return nil
}

// FormatFailure renders the admin message for a dispatch that needs attention.
func FormatFailure(order models.Order, report dispatch.Report) string {
	customer := order.Name
	if order.PassengerUsername != "" {
		customer = "@" + order.PassengerUsername
	}

	var sb strings.Builder
	if report.Attempted == 0 {
		sb.WriteString(fmt.Sprintf("⚠️ New order #%s from %s but no drivers are registered.\n", report.OrderID, customer))
		sb.WriteString("Please add drivers using /add_driver CHAT_ID.\n\n")
	} else {
		sb.WriteString("⚠️ ORDER DELIVERY FAILED\n\n")
		sb.WriteString(fmt.Sprintf("Order: #%s\n", report.OrderID))
		sb.WriteString(fmt.Sprintf("Customer: %s\n", customer))
		sb.WriteString(fmt.Sprintf("Failed to deliver to %d of %d driver(s):\n", report.Failed(), report.Attempted))
		for _, id := range report.FailedDrivers {
			sb.WriteString(fmt.Sprintf("• %d\n", id))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Attempted: %d, failed: %d", report.Attempted, report.Failed()))
	return sb.String()
}
