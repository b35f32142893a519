package application_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	searchservice "hanafiyah/contexts/discovery/search-service"
	"hanafiyah/contexts/discovery/search-service/adapters/memory"
	"hanafiyah/contexts/discovery/search-service/domain/entities"
	domainerrors "hanafiyah/contexts/discovery/search-service/domain/errors"
	contractsv1 "hanafiyah/contracts/gen/events/v1"

	"github.com/google/go-cmp/cmp"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func seed() entities.Corpus {
	eventDate := base.Add(72 * time.Hour)
	return entities.Corpus{
		Questions: []entities.QuestionDocument{
			{ID: 1, Content: "Как совершать намаз в пути?", Telegram: "murid", IsAnswered: true, CreatedAt: base,
				Answer: &entities.AnswerDocument{Content: "Путник сокращает четырёхракаатные намазы", CreatedAt: base}},
			{ID: 2, Content: "Можно ли держать орозо в дороге?", IsAnswered: true, CreatedAt: base.Add(time.Hour),
				Answer: &entities.AnswerDocument{Content: "Путнику разрешено отложить пост", CreatedAt: base}},
			{ID: 3, Content: "Как читать намаз джума?", IsAnswered: false, CreatedAt: base.Add(2 * time.Hour)},
		},
		Articles: []entities.ArticleDocument{
			{ID: 10, Title: "Намаз путника", Slug: "namaz-putnika", Content: "<p>Правила сокращения</p>", CreatedAt: base},
		},
		Lessons: []entities.LessonDocument{
			{ID: 20, Slug: "lesson-osnovy-namaza-1", ModuleName: "Основы намаза", TopicName: "Молитва", CategoryName: "Фикх", CreatedAt: base},
		},
		Events: []entities.EventDocument{
			{ID: 30, Title: "Лекция о намазе", Description: "Разбор ошибок", Location: "Бишкек", EventDate: &eventDate, CreatedAt: base},
		},
	}
}

func newModule() searchservice.Module {
	return searchservice.NewInMemoryModule(seed(), nil, nil, slog.Default())
}

func TestSearchAllReturnsEveryKindInOrder(t *testing.T) {
	module := newModule()
	page, err := module.Service.Search(context.Background(), entities.Query{Text: "намаз"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var kinds []entities.Kind
	for _, result := range page.Results {
		kinds = append(kinds, result.Kind)
	}
	want := []entities.Kind{entities.KindQuestion, entities.KindQuestion, entities.KindArticle, entities.KindLesson, entities.KindEvent}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("unexpected kinds (-want +got):\n%s", diff)
	}
	if page.Total != len(page.Results) || page.Page != 1 || page.Size != 10 {
		t.Fatalf("unexpected page metadata %+v", page)
	}
	if !strings.Contains(page.Results[0].Highlight, "<em>") {
		t.Fatalf("expected highlighted question, got %q", page.Results[0].Highlight)
	}
	lesson := page.Results[3]
	if lesson.URL != "/lessons/lesson-osnovy-namaza-1" || lesson.Info.Category != "Фикх" {
		t.Fatalf("unexpected lesson result %+v", lesson)
	}
}

func TestSearchScopesAndPages(t *testing.T) {
	module := newModule()
	page, err := module.Service.Search(context.Background(), entities.Query{Text: "намаз", Scope: entities.ScopeQuestions, Page: 2, Size: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].Kind != entities.KindQuestion {
		t.Fatalf("expected the second question only, got %+v", page.Results)
	}
	if _, err := module.Service.Search(context.Background(), entities.Query{Text: ""}); !errors.Is(err, domainerrors.ErrQueryRequired) {
		t.Fatalf("expected query required, got %v", err)
	}
	if _, err := module.Service.Search(context.Background(), entities.Query{Text: "намаз", Scope: "videos"}); !errors.Is(err, domainerrors.ErrInvalidScope) {
		t.Fatalf("expected invalid scope, got %v", err)
	}
}

func TestSearchServesCachedPagesUntilContentChanges(t *testing.T) {
	ctx := context.Background()
	module := newModule()
	if _, err := module.Service.Search(ctx, entities.Query{Text: "закят"}); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	module.Engine.SetAvailable(false)
	cached, err := module.Service.Search(ctx, entities.Query{Text: "закят"})
	if err != nil {
		t.Fatalf("expected cached page while engine is down, got %v", err)
	}
	if cached.Total != 0 {
		t.Fatalf("expected empty cached page, got %+v", cached)
	}
	if _, err := module.Service.Search(ctx, entities.Query{Text: "закят", Page: 2}); !errors.Is(err, domainerrors.ErrEngineUnavailable) {
		t.Fatalf("expected engine unavailable for uncached page, got %v", err)
	}
	module.Engine.SetAvailable(true)

	if err := module.Service.IndexArticle(ctx, contractsv1.ArticlePayload{ArticleID: 11, Title: "Закят с золота", Slug: "zakiat"}); err != nil {
		t.Fatalf("index article: %v", err)
	}
	fresh, err := module.Service.Search(ctx, entities.Query{Text: "закят"})
	if err != nil {
		t.Fatalf("search after index: %v", err)
	}
	if fresh.Total != 1 || fresh.Results[0].URL != "/articles/zakiat" {
		t.Fatalf("expected new article after cache purge, got %+v", fresh)
	}
}

func TestSuggestionsRankAnsweredQuestionsFirst(t *testing.T) {
	module := newModule()
	suggestions, err := module.Service.Suggestions(context.Background(), "намаз в пути", 0)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) == 0 || suggestions[0].Kind != entities.KindQuestion || suggestions[0].URL != "/questions/1" {
		t.Fatalf("expected the exact answered question first, got %+v", suggestions)
	}
	for _, suggestion := range suggestions {
		if suggestion.URL == "/questions/3" {
			t.Fatalf("unanswered question must not be suggested")
		}
	}
	if len(suggestions) > 5 {
		t.Fatalf("expected at most 5 suggestions, got %d", len(suggestions))
	}
	short, err := module.Service.Suggestions(context.Background(), "н", 5)
	if err != nil || len(short) != 0 {
		t.Fatalf("expected no suggestions for a single letter, got %+v err=%v", short, err)
	}
}

func TestAutocompleteHighlightsPrefix(t *testing.T) {
	module := newModule()
	completions, err := module.Service.Autocomplete(context.Background(), "Намаз")
	if err != nil {
		t.Fatalf("autocomplete: %v", err)
	}
	if len(completions) != 3 {
		t.Fatalf("expected two questions and one article, got %+v", completions)
	}
	for _, completion := range completions {
		if !strings.Contains(completion.Highlight, "<em>") {
			t.Fatalf("expected highlight in %+v", completion)
		}
	}
}

func TestSimilarQuestionsIgnoresShortText(t *testing.T) {
	module := newModule()
	similar, err := module.Service.SimilarQuestions(context.Background(), "намаз", 0)
	if err != nil || len(similar) != 0 {
		t.Fatalf("expected no similar questions for short text, got %+v err=%v", similar, err)
	}
	similar, err = module.Service.SimilarQuestions(context.Background(), "как совершать намаз путнику", 0)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(similar) == 0 || similar[0].ID != 1 || similar[0].Score <= 0 {
		t.Fatalf("expected question 1 ranked first, got %+v", similar)
	}
	for _, question := range similar {
		if !question.IsAnswered {
			t.Fatalf("expected answered questions only, got %+v", question)
		}
	}
}

func TestRebuildReloadsFromSource(t *testing.T) {
	ctx := context.Background()
	source := memory.StaticSource{Corpus: entities.Corpus{
		Articles: []entities.ArticleDocument{{ID: 40, Title: "Закят", Slug: "zakiat"}},
	}}
	module := searchservice.NewInMemoryModule(seed(), source, nil, slog.Default())

	report, err := module.Service.Rebuild(ctx, true)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if report.Total() != 1 || report.Articles != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	page, err := module.Service.Search(ctx, entities.Query{Text: "намаз"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("expected forced rebuild to drop old documents, got %+v", page.Results)
	}
}

func TestWaitForEngineGivesUp(t *testing.T) {
	module := newModule()
	module.Engine.SetAvailable(false)
	err := module.Service.WaitForEngine(context.Background(), 2, time.Millisecond)
	if !errors.Is(err, domainerrors.ErrEngineUnavailable) {
		t.Fatalf("expected engine unavailable, got %v", err)
	}
	module.Engine.SetAvailable(true)
	if err := module.Service.WaitForEngine(context.Background(), 1, time.Millisecond); err != nil {
		t.Fatalf("expected engine ready, got %v", err)
	}
}
