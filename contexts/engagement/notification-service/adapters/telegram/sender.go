// Package telegramadapter delivers notifications through the shared Bot API
// client.
package telegramadapter

import (
	"context"

	"hanafiyah/contexts/engagement/notification-service/ports"
	"hanafiyah/internal/platform/telegram"
)

type Sender struct {
	Client *telegram.Client
}

func (s Sender) Send(ctx context.Context, chat ports.Chat, text string, rows [][]ports.Button) error {
	buttons := make([][]telegram.Button, 0, len(rows))
	for _, row := range rows {
		converted := make([]telegram.Button, 0, len(row))
		for _, button := range row {
			converted = append(converted, telegram.Button{Text: button.Text, URL: button.URL, Data: button.Data})
		}
		buttons = append(buttons, converted)
	}
	return s.Client.Send(ctx, telegram.Chat{ID: chat.ID, Username: chat.Username}, text, buttons)
}
