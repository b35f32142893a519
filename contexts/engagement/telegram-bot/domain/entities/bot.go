package entities

// Message is an incoming text message.
type Message struct {
	ChatID    int64
	UserID    int64
	Username  string
	FirstName string
	Text      string
}

// Command returns the bot command without the slash and @botname suffix,
// or "" for plain text.
func (m Message) Command() string {
	if len(m.Text) < 2 || m.Text[0] != '/' {
		return ""
	}
	command := m.Text[1:]
	for i, r := range command {
		if r == ' ' || r == '@' || r == '\n' {
			return command[:i]
		}
	}
	return command
}

// Callback is an inline keyboard button press.
type Callback struct {
	ID        string
	ChatID    int64
	MessageID int
	UserID    int64
	Username  string
	Data      string
}

// Account is the linked site account of a Telegram user.
type Account struct {
	UserID     int64
	Username   string
	IsUstaz    bool
	TelegramID *int64
}

// Session is per-Telegram-user conversation state.
type Session struct {
	AnsweringQuestion int64
	MyQuestionsPage   int
}

type Button struct {
	Text string
	URL  string
	Data string
}

// Reply is one outgoing message.
type Reply struct {
	Text string
	HTML bool
	Rows [][]Button
}
