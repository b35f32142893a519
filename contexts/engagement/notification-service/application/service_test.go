package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	notificationservice "hanafiyah/contexts/engagement/notification-service"
	"hanafiyah/contexts/engagement/notification-service/domain/entities"
	domainerrors "hanafiyah/contexts/engagement/notification-service/domain/errors"
	"hanafiyah/contexts/engagement/notification-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"

	"github.com/google/go-cmp/cmp"
)

func int64Ptr(value int64) *int64 {
	return &value
}

func newModule() notificationservice.Module {
	return notificationservice.NewInMemoryModule([]entities.Recipient{
		{UserID: 1, Username: "ustaz", Telegram: "ustaz_tg", TelegramID: int64Ptr(1001), IsStaff: true},
		{UserID: 2, Username: "murid", Telegram: "murid_tg"},
		{UserID: 3, Username: "silent"},
		{UserID: 4, Username: "linked", Telegram: "linked_tg", TelegramID: int64Ptr(4004)},
	}, nil, slog.Default())
}

func TestCreateSendsTelegramWhenHandleKnown(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	notification, err := module.Service.Create(ctx, ports.CreateInput{
		UserID: 2, Title: "Новый урок доступен", Message: "В модуле \"Намаз\" появился новый урок",
		Type: entities.TypeNewLesson, URL: "/lessons/wudu",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !notification.SentToTelegram {
		t.Fatalf("expected sent_to_telegram set")
	}
	sent := module.Store.Sent()
	if len(sent) != 1 || sent[0].Chat.Username != "murid_tg" {
		t.Fatalf("expected one message to @murid_tg, got %+v", sent)
	}
	if !strings.HasPrefix(sent[0].Text, "🎓 <b>Новый урок доступен</b>") ||
		!strings.HasSuffix(sent[0].Text, "<a href='https://al-hanafiyah.com/lessons/wudu'>Посмотреть</a>") {
		t.Fatalf("unexpected telegram text %q", sent[0].Text)
	}

	quiet, err := module.Service.Create(ctx, ports.CreateInput{UserID: 3, Title: "Системное", Type: entities.TypeSystem})
	if err != nil {
		t.Fatalf("create without handle: %v", err)
	}
	if quiet.SentToTelegram || len(module.Store.Sent()) != 1 {
		t.Fatalf("expected no telegram delivery without handle")
	}
}

func TestCreateKeepsNotificationWhenTelegramFails(t *testing.T) {
	module := newModule()
	module.Store.FailSends(errors.New("chat not found"))

	notification, err := module.Service.Create(context.Background(), ports.CreateInput{
		UserID: 2, Title: "Системное", Message: "текст", Type: entities.TypeSystem,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if notification.ID == 0 || notification.SentToTelegram {
		t.Fatalf("expected stored, undelivered notification, got %+v", notification)
	}
	if _, err := module.Service.Create(context.Background(), ports.CreateInput{UserID: 2, Title: "x", Type: "bogus"}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid type rejected, got %v", err)
	}
}

func TestReadFlagsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	module := newModule()
	first, _ := module.Service.Create(ctx, ports.CreateInput{UserID: 3, Title: "a", Type: entities.TypeSystem})
	if _, err := module.Service.Create(ctx, ports.CreateInput{UserID: 3, Title: "b", Type: entities.TypeSystem}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := module.Service.Get(ctx, 2, first.ID); !errors.Is(err, domainerrors.ErrNotificationNotFound) {
		t.Fatalf("expected other users' notifications hidden, got %v", err)
	}
	if err := module.Service.MarkAsRead(ctx, 2, first.ID); !errors.Is(err, domainerrors.ErrNotificationNotFound) {
		t.Fatalf("expected not found when marking another user's row, got %v", err)
	}
	if err := module.Service.MarkAsRead(ctx, 3, first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := module.Service.MarkAllAsRead(ctx, 3); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	items, err := module.Service.List(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || !items[0].IsRead || !items[1].IsRead {
		t.Fatalf("expected two read notifications, got %+v", items)
	}
	if items[0].Title != "b" {
		t.Fatalf("expected newest first, got %q", items[0].Title)
	}
}

func TestSettingsDefaultsAndPartialUpdate(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	settings, err := module.Service.GetSettings(ctx, 2)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if diff := cmp.Diff(entities.DefaultSettings(2), settings); diff != "" {
		t.Fatalf("unexpected default settings (-want +got):\n%s", diff)
	}

	off := false
	updated, err := module.Service.UpdateSettings(ctx, 2, ports.UpdateSettingsInput{
		PushEnabled: &off,
		Types:       map[string]bool{"new_event": false},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PushEnabled || updated.Types["new_event"] || !updated.Types["new_lesson"] {
		t.Fatalf("expected merged partial update, got %+v", updated)
	}
	if _, err := module.Service.UpdateSettings(ctx, 2, ports.UpdateSettingsInput{Types: map[string]bool{"spam": true}}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected unknown type rejected, got %v", err)
	}
}

func TestPushSubscriptions(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	created, err := module.Service.CreatePushSubscription(ctx, 2, ports.CreateSubscriptionInput{
		SubscriptionInfo: json.RawMessage(`{"endpoint":"https://push.example/abc"}`),
		Browser:          "Firefox",
	})
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if _, err := module.Service.CreatePushSubscription(ctx, 2, ports.CreateSubscriptionInput{SubscriptionInfo: json.RawMessage(`{oops`)}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected malformed info rejected, got %v", err)
	}
	if err := module.Service.DeletePushSubscription(ctx, 3, created.ID); !errors.Is(err, domainerrors.ErrSubscriptionNotFound) {
		t.Fatalf("expected other user's subscription hidden, got %v", err)
	}
	if err := module.Service.DeletePushSubscription(ctx, 2, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	remaining, _ := module.Service.ListPushSubscriptions(ctx, 2)
	if len(remaining) != 0 {
		t.Fatalf("expected subscription removed, got %+v", remaining)
	}
}

func TestNotifyAnsweredUsesLinkedChat(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	delivered, err := module.Service.NotifyAnswered(ctx, contractsv1.QuestionPayload{
		QuestionID: 9, UserID: int64Ptr(4), CleanContent: "Что нарушает пост?",
		Answer: &contractsv1.AnswerPayload{Content: "Еда и питьё."},
	})
	if err != nil {
		t.Fatalf("notify answered: %v", err)
	}
	if !delivered {
		t.Fatalf("expected rich delivery to linked chat")
	}
	sent := module.Store.Sent()
	if len(sent) != 1 || sent[0].Chat.ID != 4004 {
		t.Fatalf("expected message to chat 4004, got %+v", sent)
	}
	if !strings.Contains(sent[0].Text, "<i>Что нарушает пост?...</i>") || len(sent[0].Rows) != 2 {
		t.Fatalf("unexpected rich message %+v", sent[0])
	}
	if sent[0].Rows[0][0].URL != "https://al-hanafiyah.com/questions/9" || sent[0].Rows[1][0].Data != "thank_9" {
		t.Fatalf("unexpected buttons %+v", sent[0].Rows)
	}
	items, _ := module.Service.List(ctx, 4)
	if len(items) != 1 || items[0].Type != entities.TypeQuestionAnswer || !items[0].SentToTelegram {
		t.Fatalf("expected stored question_answer notification, got %+v", items)
	}

	anonymous, err := module.Service.NotifyAnswered(ctx, contractsv1.QuestionPayload{QuestionID: 10, Answer: &contractsv1.AnswerPayload{}})
	if err != nil || anonymous {
		t.Fatalf("expected anonymous question skipped, got %v %v", anonymous, err)
	}
}

func TestNotifyAnsweredEscapesQuotedText(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	_, err := module.Service.NotifyAnswered(ctx, contractsv1.QuestionPayload{
		QuestionID: 11, UserID: int64Ptr(4), CleanContent: "Если 2 < 3 & <script>?",
		Answer: &contractsv1.AnswerPayload{
			Content:      "<p>Да, <b>можно</b> & нужно</p>",
			CleanContent: "Да, можно & нужно",
		},
	})
	if err != nil {
		t.Fatalf("notify answered: %v", err)
	}
	sent := module.Store.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %+v", sent)
	}
	text := sent[0].Text
	if strings.Contains(text, "<script>") || strings.Contains(text, "<p>") || strings.Contains(text, "2 < 3") {
		t.Fatalf("expected user text escaped, got %q", text)
	}
	for _, want := range []string{"<i>Если 2 &lt; 3 &amp; &lt;script&gt;?...</i>", "Да, можно &amp; нужно..."} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
}
