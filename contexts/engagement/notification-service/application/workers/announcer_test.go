package workers_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	notificationservice "hanafiyah/contexts/engagement/notification-service"
	"hanafiyah/contexts/engagement/notification-service/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

func envelope(t *testing.T, id string, eventType string, payload any) contractsv1.Envelope {
	t.Helper()
	event, err := contractsv1.NewEnvelope(id, eventType, "test", "id", "1", time.Now(), payload)
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	return event
}

func TestAnnouncerFansOutLessonsOnce(t *testing.T) {
	ctx := context.Background()
	module := notificationservice.NewInMemoryModule([]entities.Recipient{
		{UserID: 1, Username: "ustaz", IsStaff: true},
		{UserID: 2, Username: "murid"},
	}, nil, slog.Default())

	event := envelope(t, "evt-1", contractsv1.EventLessonCreated, contractsv1.LessonPayload{
		LessonID: 5, Slug: "wudu-1", ModuleName: "Тахарат",
	})
	for i := 0; i < 2; i++ {
		if err := module.Announcer.Handle(ctx, event); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}

	for _, userID := range []int64{1, 2} {
		items, _ := module.Service.List(ctx, userID)
		if len(items) != 1 {
			t.Fatalf("expected exactly one notification for user %d, got %d", userID, len(items))
		}
		if items[0].Message != "В модуле \"Тахарат\" появился новый урок" || items[0].URL != "/lessons/wudu-1" {
			t.Fatalf("unexpected lesson notification %+v", items[0])
		}
	}
}

func TestAnnouncerRoutesQuestionsAndEvents(t *testing.T) {
	ctx := context.Background()
	module := notificationservice.NewInMemoryModule([]entities.Recipient{
		{UserID: 1, Username: "ustaz", IsStaff: true},
		{UserID: 2, Username: "murid"},
	}, nil, slog.Default())

	asker := int64(2)
	events := []contractsv1.Envelope{
		envelope(t, "evt-q", contractsv1.EventQuestionCreated, contractsv1.QuestionPayload{QuestionID: 3, UserID: &asker, CleanContent: "Вопрос"}),
		envelope(t, "evt-e", contractsv1.EventOfflineEventCreated, contractsv1.OfflineEventPayload{OfflineEventID: 8, Title: "Урок в мечети", Location: "Казань"}),
		envelope(t, "evt-a", contractsv1.EventQuestionAnswered, contractsv1.QuestionPayload{
			QuestionID: 3, UserID: &asker, CleanContent: "Вопрос", IsAnswered: true,
			Answer: &contractsv1.AnswerPayload{Content: "Ответ"},
		}),
	}
	for _, event := range events {
		if err := module.Announcer.Handle(ctx, event); err != nil {
			t.Fatalf("handle %s: %v", event.EventType, err)
		}
	}

	staff, _ := module.Service.List(ctx, 1)
	if len(staff) != 2 {
		t.Fatalf("expected staff to get new_question and new_event, got %+v", staff)
	}
	murid, _ := module.Service.List(ctx, 2)
	types := map[entities.NotificationType]bool{}
	for _, item := range murid {
		types[item.Type] = true
	}
	if len(murid) != 2 || !types[entities.TypeNewEvent] || !types[entities.TypeQuestionAnswer] {
		t.Fatalf("expected murid to get new_event and question_answer, got %+v", murid)
	}
	for _, item := range murid {
		if item.Type == entities.TypeNewEvent && (item.Message != "Новая встреча: Урок в мечети - Казань" || item.URL != "/events/8") {
			t.Fatalf("unexpected event notification %+v", item)
		}
	}
}

func TestAnnouncerRetriesEventAfterFailure(t *testing.T) {
	ctx := context.Background()
	module := notificationservice.NewInMemoryModule([]entities.Recipient{
		{UserID: 1, Username: "ustaz", IsStaff: true},
	}, nil, slog.Default())
	asker := int64(5)
	event := envelope(t, "evt-new-q", contractsv1.EventQuestionCreated, contractsv1.QuestionPayload{QuestionID: 12, UserID: &asker, CleanContent: "Вопрос"})

	module.Store.FailWrites(errors.New("database unavailable"))
	if err := module.Announcer.Handle(ctx, event); err == nil {
		t.Fatalf("expected the failed write to surface")
	}

	module.Store.FailWrites(nil)
	if err := module.Announcer.Handle(ctx, event); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if err := module.Announcer.Handle(ctx, event); err != nil {
		t.Fatalf("duplicate delivery: %v", err)
	}
	items, _ := module.Service.List(ctx, 1)
	if len(items) != 1 || items[0].Type != entities.TypeNewQuestion {
		t.Fatalf("expected exactly one new_question notification, got %+v", items)
	}
}
