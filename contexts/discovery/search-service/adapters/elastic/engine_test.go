package elasticadapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	domainerrors "hanafiyah/contexts/discovery/search-service/domain/errors"
	platformsearch "hanafiyah/internal/platform/search"
)

func newTestEngine(t *testing.T, handler http.HandlerFunc) *Engine {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	client, err := platformsearch.NewClient(server.URL, time.Second, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return NewEngine(client, nil)
}

func TestSearchDecodesQuestionHits(t *testing.T) {
	var gotBody map[string]any
	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/questions/_search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"7","_score":2.5,
			"_source":{"id":7,"content":"Как совершать намаз в пути?","telegram":"murid","is_answered":true,"created_at":"2025-01-02T10:00:00Z"},
			"highlight":{"content":["Как совершать <em>намаз</em> в пути?"]}}]}}`)
	})

	results, err := engine.Search(context.Background(), entities.Query{Text: "намаз", Scope: entities.ScopeQuestions, Page: 2, Size: 5})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	got := results[0]
	if got.ID != 7 || got.URL != "/questions/7" || got.Highlight != "Как совершать <em>намаз</em> в пути?" {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Info == nil || got.Info.IsAnswered == nil || !*got.Info.IsAnswered || got.Info.Telegram != "murid" {
		t.Fatalf("unexpected additional info %+v", got.Info)
	}
	if gotBody["from"] != float64(5) || gotBody["size"] != float64(5) {
		t.Fatalf("expected page window from=5 size=5, got %v/%v", gotBody["from"], gotBody["size"])
	}
	match := gotBody["query"].(map[string]any)["multi_match"].(map[string]any)
	if match["fuzziness"] != "AUTO" {
		t.Fatalf("expected fuzzy match, got %v", match)
	}
}

func TestSearchAllFansOutToEveryIndex(t *testing.T) {
	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/_search") {
		case IndexArticles:
			_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"3","_score":1,"_source":{"id":3,"title":"Закят","slug":"zakiat","created_at":"2025-01-01T00:00:00Z"}}]}}`)
		case IndexLessons:
			_, _ = io.WriteString(w, `{"hits":{"hits":[{"_id":"4","_score":1,"_source":{"id":4,"slug":"lesson-fikh-1","module":{"name":"Фикх","topic":{"name":"Основы","category":{"name":"Ханафи"}}}}}]}}`)
		default:
			_, _ = io.WriteString(w, `{"hits":{"hits":[]}}`)
		}
	})

	results, err := engine.Search(context.Background(), entities.Query{Text: "закят", Scope: entities.ScopeAll, Page: 1, Size: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 || results[0].Kind != entities.KindArticle || results[1].Kind != entities.KindLesson {
		t.Fatalf("expected article then lesson, got %+v", results)
	}
	if results[0].Highlight != "Закят" || results[0].URL != "/articles/zakiat" {
		t.Fatalf("expected title fallback highlight, got %+v", results[0])
	}
	if results[1].Info == nil || results[1].Info.Category != "Ханафи" {
		t.Fatalf("expected lesson hierarchy info, got %+v", results[1].Info)
	}
}

func TestSearchMapsServerOverloadToUnavailable(t *testing.T) {
	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"cluster_block_exception"}`)
	})
	_, err := engine.Search(context.Background(), entities.Query{Text: "намаз", Scope: entities.ScopeEvents, Page: 1, Size: 10})
	if !errors.Is(err, domainerrors.ErrEngineUnavailable) {
		t.Fatalf("expected engine unavailable, got %v", err)
	}
}

func TestBulkIndexWritesNDJSON(t *testing.T) {
	var lines []string
	engine := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_bulk" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		lines = append(lines, strings.Split(strings.TrimSpace(string(raw)), "\n")...)
		_, _ = io.WriteString(w, `{"errors":false,"items":[]}`)
	})
	err := engine.BulkIndex(context.Background(), entities.Corpus{
		Questions: []entities.QuestionDocument{{ID: 1, Content: "Намаз", IsAnswered: true, Answer: &entities.AnswerDocument{Content: "Ответ"}}},
	})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(lines) != 2 || !strings.Contains(lines[0], `"_index":"questions"`) || !strings.Contains(lines[1], `"answer":{"content":"Ответ"`) {
		t.Fatalf("unexpected bulk body %v", lines)
	}
}

func TestIndexBodyCarriesAnalyzer(t *testing.T) {
	body := indexBody(IndexQuestions)
	settings := body["settings"].(map[string]any)
	if settings["number_of_shards"] != 1 || settings["number_of_replicas"] != 0 {
		t.Fatalf("unexpected shard settings %v", settings)
	}
	analysis := settings["analysis"].(map[string]any)
	analyzer := analysis["analyzer"].(map[string]any)["custom_analyzer"].(map[string]any)
	filters := analyzer["filter"].([]string)
	if filters[len(filters)-1] != "word_delimiter" || filters[0] != "lowercase" {
		t.Fatalf("unexpected filter chain %v", filters)
	}
	properties := body["mappings"].(map[string]any)["properties"].(map[string]any)
	if properties["answer"].(map[string]any)["type"] != "object" {
		t.Fatalf("expected answer mapped as object")
	}
}
