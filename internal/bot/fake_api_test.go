package bot

import (
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeAPI records everything the bots send and fails sends to chats in failFor.
type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Chattable
	failFor  map[int64]error
	updates  chan tgbotapi.Update
	stopped  bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		failFor: map[int64]error{},
		updates: make(chan tgbotapi.Update, 8),
	}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		f.requests = append(f.requests, c)
		return tgbotapi.Message{}, nil
	}
	if err := f.failFor[msg.ChatID]; err != nil {
		return tgbotapi.Message{}, err
	}
	f.sent = append(f.sent, msg)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) messagesTo(chatID int64) []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []tgbotapi.MessageConfig
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) textsTo(chatID int64) []string {
	var out []string
	for _, m := range f.messagesTo(chatID) {
		out = append(out, m.Text)
	}
	return out
}

func (f *fakeAPI) lastTo(chatID int64) tgbotapi.MessageConfig {
	msgs := f.messagesTo(chatID)
	if len(msgs) == 0 {
		return tgbotapi.MessageConfig{}
	}
	return msgs[len(msgs)-1]
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.requests = nil
}

func textUpdate(from *tgbotapi.User, chatID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{From: from, Chat: &tgbotapi.Chat{ID: chatID}, Text: text}
	if strings.HasPrefix(text, "/") {
		length := strings.IndexByte(text, ' ')
		if length < 0 {
			length = len(text)
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return tgbotapi.Update{Message: msg}
}

func contactUpdate(from *tgbotapi.User, chatID int64, phone string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:    from,
		Chat:    &tgbotapi.Chat{ID: chatID},
		Contact: &tgbotapi.Contact{PhoneNumber: phone, UserID: from.ID},
	}}
}

func locationUpdate(from *tgbotapi.User, chatID int64, lat, lon float64) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     from,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Location: &tgbotapi.Location{Latitude: lat, Longitude: lon},
	}}
}

func callbackUpdate(from *tgbotapi.User, chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		From:    from,
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}
