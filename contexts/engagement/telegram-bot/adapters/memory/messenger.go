package memory

import (
	"context"
	"sync"

	"hanafiyah/contexts/engagement/telegram-bot/domain/entities"
)

// Outgoing is one captured bot action.
type Outgoing struct {
	Kind      string
	ChatID    int64
	MessageID int
	Callback  string
	Reply     entities.Reply
}

// Messenger records what the bot would send to Telegram.
type Messenger struct {
	mu       sync.Mutex
	outgoing []Outgoing
}

func (m *Messenger) Send(_ context.Context, chatID int64, reply entities.Reply) error {
	m.record(Outgoing{Kind: "send", ChatID: chatID, Reply: reply})
	return nil
}

func (m *Messenger) EditText(_ context.Context, chatID int64, messageID int, text string) error {
	m.record(Outgoing{Kind: "edit", ChatID: chatID, MessageID: messageID, Reply: entities.Reply{Text: text}})
	return nil
}

func (m *Messenger) AnswerCallback(_ context.Context, callbackID string, text string) error {
	m.record(Outgoing{Kind: "callback", Callback: callbackID, Reply: entities.Reply{Text: text}})
	return nil
}

// Drain returns and forgets everything captured so far.
func (m *Messenger) Drain() []Outgoing {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.outgoing
	m.outgoing = nil
	return out
}

func (m *Messenger) record(out Outgoing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outgoing = append(m.outgoing, out)
}
