package workers_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	searchservice "hanafiyah/contexts/discovery/search-service"
	"hanafiyah/contexts/discovery/search-service/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
	"hanafiyah/internal/platform/messaging"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func envelope(t *testing.T, id string, eventType string, payload any) contractsv1.Envelope {
	t.Helper()
	event, err := contractsv1.NewEnvelope(id, eventType, "test", "id", "1", time.Now(), payload)
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	return event
}

func TestIndexSyncIndexesEveryContentKind(t *testing.T) {
	ctx := context.Background()
	module := searchservice.NewInMemoryModule(entities.Corpus{}, nil, nil, slog.Default())

	events := []contractsv1.Envelope{
		envelope(t, "evt-l", contractsv1.EventLessonCreated, contractsv1.LessonPayload{LessonID: 1, Slug: "intro-tahara", ModuleName: "Тахарат"}),
		envelope(t, "evt-a", contractsv1.EventArticleCreated, contractsv1.ArticlePayload{ArticleID: 2, Title: "Тахарат и намаз", Slug: "taharat"}),
		envelope(t, "evt-e", contractsv1.EventOfflineEventCreated, contractsv1.OfflineEventPayload{OfflineEventID: 3, Title: "Тахарат на практике"}),
		envelope(t, "evt-q", contractsv1.EventQuestionCreated, contractsv1.QuestionPayload{QuestionID: 4, Content: "Как совершать тахарат?"}),
	}
	for _, event := range events {
		if err := module.IndexSync.Handle(ctx, event); err != nil {
			t.Fatalf("handle %s: %v", event.EventType, err)
		}
	}

	page, err := module.Service.Search(ctx, entities.Query{Text: "тахарат"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 4 {
		t.Fatalf("expected one hit per kind, got %+v", page.Results)
	}
}

func TestIndexSyncAppliesAnswerUpdate(t *testing.T) {
	ctx := context.Background()
	module := searchservice.NewInMemoryModule(entities.Corpus{}, nil, nil, slog.Default())

	created := envelope(t, "evt-1", contractsv1.EventQuestionCreated, contractsv1.QuestionPayload{QuestionID: 9, Content: "Можно ли держать пост в пути?"})
	answered := envelope(t, "evt-2", contractsv1.EventQuestionAnswered, contractsv1.QuestionPayload{
		QuestionID: 9, Content: "Можно ли держать пост в пути?", IsAnswered: true,
		Answer: &contractsv1.AnswerPayload{Content: "Путнику разрешено отложить пост"},
	})
	for _, event := range []contractsv1.Envelope{created, answered, answered} {
		if err := module.IndexSync.Handle(ctx, event); err != nil {
			t.Fatalf("handle %s: %v", event.EventID, err)
		}
	}

	similar, err := module.Service.SimilarQuestions(ctx, "держать пост в пути", 3)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(similar) != 1 || similar[0].ID != 9 {
		t.Fatalf("expected the answered question, got %+v", similar)
	}
}

func TestIndexSyncRetriesEventAfterFailure(t *testing.T) {
	ctx := context.Background()
	module := searchservice.NewInMemoryModule(entities.Corpus{}, nil, nil, slog.Default())
	event := envelope(t, "evt-retry", contractsv1.EventArticleCreated, contractsv1.ArticlePayload{ArticleID: 7, Title: "Тахарат в пути", Slug: "taharat-v-puti"})

	module.Engine.SetAvailable(false)
	if err := module.IndexSync.Handle(ctx, event); err == nil {
		t.Fatalf("expected indexing to fail while the engine is down")
	}

	module.Engine.SetAvailable(true)
	if err := module.IndexSync.Handle(ctx, event); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	page, err := module.Service.Search(ctx, entities.Query{Text: "тахарат"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 || page.Results[0].URL != "/articles/taharat-v-puti" {
		t.Fatalf("expected the redelivered article indexed, got %+v", page.Results)
	}
}

func TestIndexSyncRecoversThroughBusRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := messaging.NewBus(8, slog.Default())
	bus.RetryBackoff = 20 * time.Millisecond
	module := searchservice.NewInMemoryModule(entities.Corpus{}, nil, bus, slog.Default())
	if err := module.IndexSync.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	module.Engine.SetAvailable(false)
	event := envelope(t, "evt-flaky", contractsv1.EventArticleCreated, contractsv1.ArticlePayload{ArticleID: 6, Title: "Дуа", Slug: "dua"})
	if err := bus.Publish(ctx, event.EventType, event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	module.Engine.SetAvailable(true)

	deadline := time.After(2 * time.Second)
	for {
		if articles := module.Engine.Corpus().Articles; len(articles) == 1 && articles[0].Slug == "dua" {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("article never indexed after the engine came back")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestIndexSyncConsumesFromBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := messaging.NewBus(8, slog.Default())
	module := searchservice.NewInMemoryModule(entities.Corpus{}, nil, bus, slog.Default())
	if err := module.IndexSync.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	event := envelope(t, "evt-bus", contractsv1.EventArticleUpdated, contractsv1.ArticlePayload{ArticleID: 5, Title: "Зикр", Slug: "zikr"})
	if err := bus.Publish(ctx, event.EventType, event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		if articles := module.Engine.Corpus().Articles; len(articles) == 1 && articles[0].Slug == "zikr" {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("article never indexed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
