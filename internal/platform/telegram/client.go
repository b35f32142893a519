// Package telegram wraps the Bot API client used by the bot process and by
// notification delivery.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Chat addresses a recipient either by numeric chat id or by public @username.
type Chat struct {
	ID       int64
	Username string
}

// Button is an inline keyboard button carrying either a URL or callback data.
type Button struct {
	Text string
	URL  string
	Data string
}

type Client struct {
	API    *tgbotapi.BotAPI
	logger *slog.Logger
}

func NewClient(token string, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram bot token is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot api: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{API: api, logger: logger}, nil
}

// Send posts an HTML message with an optional inline keyboard.
func (c *Client) Send(ctx context.Context, chat Chat, text string, rows [][]Button) error {
	return c.send(ctx, chat, text, tgbotapi.ModeHTML, rows)
}

// SendText posts a message without markup parsing.
func (c *Client) SendText(ctx context.Context, chat Chat, text string, rows [][]Button) error {
	return c.send(ctx, chat, text, "", rows)
}

func (c *Client) send(_ context.Context, chat Chat, text string, parseMode string, rows [][]Button) error {
	var msg tgbotapi.MessageConfig
	switch {
	case chat.ID != 0:
		msg = tgbotapi.NewMessage(chat.ID, text)
	case chat.Username != "":
		msg = tgbotapi.NewMessageToChannel("@"+strings.TrimPrefix(chat.Username, "@"), text)
	default:
		return errors.New("telegram chat is not addressable")
	}
	msg.ParseMode = parseMode
	if markup := Markup(rows); markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := c.API.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// EditText replaces the text of a previously sent message.
func (c *Client) EditText(_ context.Context, chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := c.API.Send(edit); err != nil {
		return fmt.Errorf("telegram edit: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges an inline button press.
func (c *Client) AnswerCallback(_ context.Context, callbackID string, text string) error {
	if _, err := c.API.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("telegram answer callback: %w", err)
	}
	return nil
}

// Poll long-polls updates and hands them to handle until ctx is cancelled.
func (c *Client) Poll(ctx context.Context, timeoutSeconds int, handle func(context.Context, tgbotapi.Update)) error {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 60
	}
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = timeoutSeconds
	updates := c.API.GetUpdatesChan(cfg)

	c.logger.Info("telegram polling started",
		"event", "telegram_polling_started",
		"module", "internal/platform/telegram",
		"layer", "platform",
		"bot", c.API.Self.UserName,
	)
	for {
		select {
		case <-ctx.Done():
			c.API.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			handle(ctx, update)
		}
	}
}

// Markup converts button rows to an inline keyboard, nil when empty.
func Markup(rows [][]Button) *tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			if button.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(button.Text, button.URL))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.Data))
		}
		keyboard = append(keyboard, buttons)
	}
	if len(keyboard) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	return &markup
}
