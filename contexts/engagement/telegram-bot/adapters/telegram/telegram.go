// Package telegramadapter connects the bot to the Bot API: it converts
// updates into bot messages and callbacks and sends replies back.
package telegramadapter

import (
	"context"
	"log/slog"

	"hanafiyah/contexts/engagement/telegram-bot/application"
	"hanafiyah/contexts/engagement/telegram-bot/domain/entities"
	"hanafiyah/internal/platform/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Messenger struct {
	Client *telegram.Client
}

func (m Messenger) Send(ctx context.Context, chatID int64, reply entities.Reply) error {
	rows := make([][]telegram.Button, 0, len(reply.Rows))
	for _, row := range reply.Rows {
		buttons := make([]telegram.Button, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, telegram.Button{Text: button.Text, URL: button.URL, Data: button.Data})
		}
		rows = append(rows, buttons)
	}
	chat := telegram.Chat{ID: chatID}
	if reply.HTML {
		return m.Client.Send(ctx, chat, reply.Text, rows)
	}
	return m.Client.SendText(ctx, chat, reply.Text, rows)
}

func (m Messenger) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	return m.Client.EditText(ctx, chatID, messageID, text)
}

func (m Messenger) AnswerCallback(ctx context.Context, callbackID string, text string) error {
	return m.Client.AnswerCallback(ctx, callbackID, text)
}

// Runner long-polls Telegram and feeds updates to the bot. Handler errors
// are logged and polling continues.
type Runner struct {
	Client  *telegram.Client
	Bot     application.Bot
	Timeout int
	Logger  *slog.Logger
}

func (r Runner) Run(ctx context.Context) error {
	return r.Client.Poll(ctx, r.Timeout, r.handle)
}

func (r Runner) handle(ctx context.Context, update tgbotapi.Update) {
	message, callback := FromUpdate(update)
	var err error
	switch {
	case message != nil:
		err = r.Bot.HandleMessage(ctx, *message)
	case callback != nil:
		err = r.Bot.HandleCallback(ctx, *callback)
	default:
		return
	}
	if err != nil {
		application.ResolveLogger(r.Logger).Error("telegram update failed",
			"event", "telegram_bot_update_failed",
			"module", "engagement/telegram-bot",
			"layer", "adapter",
			"update_id", update.UpdateID,
			"error", err.Error(),
		)
	}
}

// FromUpdate extracts the text message or callback query an update carries.
func FromUpdate(update tgbotapi.Update) (*entities.Message, *entities.Callback) {
	if msg := update.Message; msg != nil && msg.Text != "" {
		out := &entities.Message{ChatID: msg.Chat.ID, Text: msg.Text}
		if msg.From != nil {
			out.UserID = msg.From.ID
			out.Username = msg.From.UserName
			out.FirstName = msg.From.FirstName
		}
		return out, nil
	}
	if query := update.CallbackQuery; query != nil {
		out := &entities.Callback{ID: query.ID, Data: query.Data}
		if query.From != nil {
			out.UserID = query.From.ID
			out.Username = query.From.UserName
		}
		if query.Message != nil {
			out.ChatID = query.Message.Chat.ID
			out.MessageID = query.Message.MessageID
		}
		return nil, out
	}
	return nil, nil
}
