package telegramadapter

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestFromUpdateMessage(t *testing.T) {
	message, callback := FromUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		Text: "/start",
		Chat: &tgbotapi.Chat{ID: 42},
		From: &tgbotapi.User{ID: 7, UserName: "murid", FirstName: "Али"},
	}})
	if callback != nil || message == nil {
		t.Fatalf("expected a message")
	}
	if message.ChatID != 42 || message.UserID != 7 || message.Username != "murid" || message.Command() != "start" {
		t.Fatalf("unexpected message %+v", message)
	}
}

func TestFromUpdateCallback(t *testing.T) {
	message, callback := FromUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    "answer_3",
		From:    &tgbotapi.User{ID: 9},
		Message: &tgbotapi.Message{MessageID: 11, Chat: &tgbotapi.Chat{ID: 42}},
	}})
	if message != nil || callback == nil {
		t.Fatalf("expected a callback")
	}
	if callback.ChatID != 42 || callback.MessageID != 11 || callback.UserID != 9 || callback.Data != "answer_3" {
		t.Fatalf("unexpected callback %+v", callback)
	}
}

func TestFromUpdateIgnoresOtherUpdates(t *testing.T) {
	message, callback := FromUpdate(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}})
	if message != nil || callback != nil {
		t.Fatalf("expected non-text update ignored")
	}
}
