package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/ridehub/taxi-bot/internal/auth"
	"github.com/ridehub/taxi-bot/internal/conversation"
	"github.com/ridehub/taxi-bot/internal/metrics"
	"github.com/ridehub/taxi-bot/internal/registry"
)

// AdminChatSetter learns where admin notifications should go.
type AdminChatSetter interface {
	SetAdminChat(chatID int64)
}

// PassengerBot takes taxi orders from passengers and registry commands from
// the admin.
type PassengerBot struct {
	api     API
	orders  *conversation.Machine
	drivers *registry.Registry
	gate    auth.AdminGate
	admin   AdminChatSetter
	logger  zerolog.Logger
}

func NewPassengerBot(
	api API,
	orders *conversation.Machine,
	drivers *registry.Registry,
	gate auth.AdminGate,
	admin AdminChatSetter,
	logger zerolog.Logger,
) *PassengerBot {
	return &PassengerBot{
		api:     api,
		orders:  orders,
		drivers: drivers,
		gate:    gate,
		admin:   admin,
		logger:  logger.With().Str("component", "passenger_bot").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (b *PassengerBot) Run(ctx context.Context) error {
	b.logger.Info().Msg("Passenger bot started")
	return runUpdates(ctx, b.api, b.HandleUpdate)
}

func (b *PassengerBot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil && update.Message.Chat != nil:
		if update.Message.IsCommand() {
			b.handleCommand(ctx, update.Message)
		} else {
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *PassengerBot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendWithKeyboard(msg.Chat.ID, welcomeText, orderKeyboard())

	case "help":
		b.sendMessage(msg.Chat.ID, passengerHelp)

	case "order":
		b.apply(ctx, msg.From, msg.Chat.ID, conversation.TriggerStart)

	case "confirm":
		b.apply(ctx, msg.From, msg.Chat.ID, conversation.TriggerConfirm)

	case "cancel":
		b.apply(ctx, msg.From, msg.Chat.ID, conversation.TriggerCancel)

	case "add_driver", "remove_driver", "list_drivers":
		b.handleAdminCommand(msg)

	default:
		b.sendMessage(msg.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *PassengerBot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	var in conversation.Input
	switch {
	case msg.Text == orderButton:
		in = conversation.TriggerStart
	case msg.Contact != nil:
		in = conversation.SharedContact{Phone: msg.Contact.PhoneNumber}
	case msg.Location != nil:
		in = conversation.SharedLocation{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}
	default:
		in = conversation.Text(msg.Text)
	}
	b.apply(ctx, msg.From, msg.Chat.ID, in)
}

func (b *PassengerBot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.logger.Warn().Err(err).Msg("Error answering callback")
	}
	if q.From == nil || q.Message == nil || q.Message.Chat == nil {
		return
	}

	var trigger conversation.Trigger
	switch q.Data {
	case cbConfirm:
		trigger = conversation.TriggerConfirm
	case cbEdit:
		trigger = conversation.TriggerEdit
	case cbCancel:
		trigger = conversation.TriggerCancel
	case cbAddComment:
		trigger = conversation.TriggerAddComment
	case cbSkipComment:
		trigger = conversation.TriggerSkipComment
	default:
		b.logger.Warn().Str("data", q.Data).Msg("unknown callback")
		return
	}
	b.apply(ctx, q.From, q.Message.Chat.ID, trigger)
}

// apply feeds one input to the passenger's conversation and answers with the
// prompt for wherever the conversation ends up.
func (b *PassengerBot) apply(ctx context.Context, from *tgbotapi.User, chatID int64, in conversation.Input) {
	p := conversation.Passenger{ID: from.ID, ChatID: chatID, Username: from.UserName}

	reply, err := b.orders.Handle(ctx, p, in)
	switch {
	case err == nil:
		b.prompt(chatID, reply)
	case errors.Is(err, conversation.ErrNoActiveOrder):
		b.sendWithKeyboard(chatID, welcomeText, orderKeyboard())
	case errors.Is(err, conversation.ErrNothingToConfirm):
		if reply.Step == conversation.StepIdle {
			b.sendWithKeyboard(chatID, "There is no order to confirm. Press the button to start a new order.", orderKeyboard())
			return
		}
		b.sendMessage(chatID, "Please finish your order first.")
		b.prompt(chatID, reply)
	case errors.Is(err, conversation.ErrValueRequired), errors.Is(err, conversation.ErrUnexpectedInput):
		b.sendMessage(chatID, "⚠️ I didn't get that.")
		b.prompt(chatID, reply)
	default:
		b.logger.Error().Err(err).Int64("passenger", p.ID).Msg("Error handling order input")
		b.sendMessage(chatID, "Something went wrong. Please try again.")
	}
}

func (b *PassengerBot) prompt(chatID int64, reply conversation.Reply) {
	switch reply.Step {
	case conversation.StepAwaitName:
		b.sendWithKeyboard(chatID, "Please enter your name:", tgbotapi.NewRemoveKeyboard(true))

	case conversation.StepAwaitPhone:
		b.sendWithKeyboard(chatID, "Please share your phone number:\n"+
			"(You can share your contact or type the number manually)", contactKeyboard())

	case conversation.StepAwaitPickup:
		b.sendWithKeyboard(chatID, "Please send your pickup location:\n"+
			"(You can send your current location or type the address)", locationKeyboard())

	case conversation.StepAwaitDropoff:
		b.sendWithKeyboard(chatID, "Please enter the drop-off address:", tgbotapi.NewRemoveKeyboard(true))

	case conversation.StepAwaitCommentDecision:
		b.sendWithKeyboard(chatID, orderSummary(reply.Order)+"\nWould you like to add a comment for the driver?",
			commentDecisionKeyboard())

	case conversation.StepAwaitCommentText:
		b.sendMessage(chatID, "Please enter your comment:")

	case conversation.StepAwaitConfirm:
		b.sendWithKeyboard(chatID, orderSummary(reply.Order), confirmKeyboard())

	case conversation.StepDone:
		b.sendMessage(chatID, acceptedText)
		b.sendWithKeyboard(chatID, thanksText, orderKeyboard())

	case conversation.StepCancelled:
		b.sendWithKeyboard(chatID, cancelledText, orderKeyboard())

	default:
		b.sendWithKeyboard(chatID, welcomeText, orderKeyboard())
	}
}

// handleAdminCommand runs the registry commands. Non-admins get a denial and
// nothing else happens.
func (b *PassengerBot) handleAdminCommand(msg *tgbotapi.Message) {
	if err := b.gate.Authorize(msg.From.UserName); err != nil {
		b.logger.Warn().Int64("user", msg.From.ID).Str("username", msg.From.UserName).
			Str("command", msg.Command()).Msg("admin command denied")
		b.sendMessage(msg.Chat.ID, deniedText)
		return
	}

	// Failure notifications go to wherever the admin last talked to us.
	b.admin.SetAdminChat(msg.Chat.ID)

	switch msg.Command() {
	case "add_driver":
		b.handleAddDriver(msg)
	case "remove_driver":
		b.handleRemoveDriver(msg)
	case "list_drivers":
		b.sendMessage(msg.Chat.ID, driverList(b.drivers.List(), registry.MaxDrivers))
	}
}

func (b *PassengerBot) handleAddDriver(msg *tgbotapi.Message) {
	chatID, err := parseChatID(msg.CommandArguments())
	if err != nil {
		b.sendMessage(msg.Chat.ID, commandArgError("add_driver", err))
		return
	}

	err = b.drivers.Add(chatID)
	switch {
	case errors.Is(err, registry.ErrCapacityExceeded):
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("⚠️ Driver limit reached (%d). Remove a driver before adding another.", registry.MaxDrivers))
	case errors.Is(err, registry.ErrDuplicate):
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("⚠️ Driver %d already exists!", chatID))
	case err != nil:
		b.logger.Error().Err(err).Int64("driver", chatID).Msg("Error adding driver")
		b.sendMessage(msg.Chat.ID, "Error adding driver.")
	default:
		metrics.SetRegisteredDrivers(b.drivers.Len())
		b.logger.Info().Int64("driver", chatID).Msg("driver added")
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Driver %d added successfully!\nTotal drivers: %d", chatID, b.drivers.Len()))
	}
}

func (b *PassengerBot) handleRemoveDriver(msg *tgbotapi.Message) {
	chatID, err := parseChatID(msg.CommandArguments())
	if err != nil {
		b.sendMessage(msg.Chat.ID, commandArgError("remove_driver", err))
		return
	}

	err = b.drivers.Remove(chatID)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("⚠️ Driver %d not found!", chatID))
	case err != nil:
		b.logger.Error().Err(err).Int64("driver", chatID).Msg("Error removing driver")
		b.sendMessage(msg.Chat.ID, "Error removing driver.")
	default:
		metrics.SetRegisteredDrivers(b.drivers.Len())
		b.logger.Info().Int64("driver", chatID).Msg("driver removed")
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Driver %d removed successfully!\nTotal drivers: %d", chatID, b.drivers.Len()))
	}
}

func (b *PassengerBot) sendMessage(chatID int64, text string) {
	send(b.api, b.logger, tgbotapi.NewMessage(chatID, text))
}

func (b *PassengerBot) sendWithKeyboard(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	send(b.api, b.logger, msg)
}

var (
	errNoChatID      = errors.New("no chat ID provided")
	errInvalidChatID = errors.New("invalid chat ID")
)

func parseChatID(args string) (int64, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return 0, errNoChatID
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidChatID, err)
	}
	return id, nil
}

func commandArgError(command string, err error) string {
	if errors.Is(err, errInvalidChatID) {
		return "❌ Invalid chat ID. Please provide a numeric chat ID."
	}
	return fmt.Sprintf("Usage: /%s CHAT_ID", command)
}
