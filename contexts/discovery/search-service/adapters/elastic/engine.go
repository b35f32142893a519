package elasticadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	domainerrors "hanafiyah/contexts/discovery/search-service/domain/errors"
	"hanafiyah/contexts/discovery/search-service/domain/services"
	platformsearch "hanafiyah/internal/platform/search"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"golang.org/x/sync/errgroup"
)

// Engine runs search-service queries against Elasticsearch. Multi-index
// reads fan out one request per index.
type Engine struct {
	client *platformsearch.Client
	es     *elasticsearch.Client
	logger *slog.Logger
}

func NewEngine(client *platformsearch.Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{client: client, es: client.ES, logger: logger}
}

type hit struct {
	ID        string              `json:"_id"`
	Score     float64             `json:"_score"`
	Source    json.RawMessage     `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

type searchResponse struct {
	Hits struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

func (h hit) firstHighlight(fields ...string) string {
	for _, field := range fields {
		if fragments := h.Highlight[field]; len(fragments) > 0 {
			return fragments[0]
		}
	}
	return ""
}

func (e *Engine) Ping(ctx context.Context) error {
	if err := e.client.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrEngineUnavailable, err)
	}
	return nil
}

func (e *Engine) Search(ctx context.Context, query entities.Query) ([]entities.Result, error) {
	kinds := query.Scope.Kinds()
	perKind := make([][]entities.Result, len(kinds))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		spec, ok := searchSpecs[kind]
		if !ok {
			continue
		}
		group.Go(func() error {
			hits, err := e.search(groupCtx, spec.index, searchQuery(spec, query.Text, query.Offset(), query.Size))
			if err != nil {
				return err
			}
			results := make([]entities.Result, 0, len(hits))
			for _, h := range hits {
				result, err := toResult(kind, h)
				if err != nil {
					return err
				}
				results = append(results, result)
			}
			perKind[i] = results
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	results := make([]entities.Result, 0)
	for _, items := range perKind {
		results = append(results, items...)
	}
	return results, nil
}

func (e *Engine) SuggestQuestions(ctx context.Context, text string, limit int) ([]entities.Suggestion, error) {
	hits, err := e.search(ctx, IndexQuestions, questionSuggestQuery(text, limit))
	if err != nil {
		return nil, err
	}
	suggestions := make([]entities.Suggestion, 0, len(hits))
	for _, h := range hits {
		var doc questionDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return nil, fmt.Errorf("decode question hit: %w", err)
		}
		suggestionText := h.firstHighlight("content", "answer.content")
		if suggestionText == "" {
			suggestionText = services.Snippet(doc.Content, 100)
		}
		isAnswered := doc.IsAnswered
		suggestions = append(suggestions, entities.Suggestion{
			Text:       suggestionText,
			Kind:       entities.KindQuestion,
			URL:        services.QuestionURL(doc.ID),
			IsAnswered: &isAnswered,
			Score:      h.Score,
		})
	}
	return suggestions, nil
}

func (e *Engine) SuggestContent(ctx context.Context, text string, perKind int) ([]entities.Suggestion, error) {
	grouped := make([][]entities.Suggestion, len(suggestSpecs))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, spec := range suggestSpecs {
		group.Go(func() error {
			hits, err := e.search(groupCtx, indexFor(spec.kind), contentSuggestQuery(spec.fields, text, perKind))
			if err != nil {
				return err
			}
			suggestions := make([]entities.Suggestion, 0, len(hits))
			for _, h := range hits {
				result, err := toResult(spec.kind, h)
				if err != nil {
					return err
				}
				suggestions = append(suggestions, entities.Suggestion{
					Text:  result.Title,
					Kind:  spec.kind,
					URL:   result.URL,
					Score: h.Score,
				})
			}
			grouped[i] = suggestions
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	suggestions := make([]entities.Suggestion, 0)
	for _, items := range grouped {
		suggestions = append(suggestions, items...)
	}
	return suggestions, nil
}

// Autocomplete completes the prefix from question texts and article titles.
func (e *Engine) Autocomplete(ctx context.Context, prefix string, limit int) ([]entities.Completion, error) {
	type scored struct {
		completion entities.Completion
		score      float64
	}
	var questions, articles []scored
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		hits, err := e.search(groupCtx, IndexQuestions, phrasePrefixQuery("content", prefix, limit))
		if err != nil {
			return err
		}
		for _, h := range hits {
			var doc questionDoc
			if err := json.Unmarshal(h.Source, &doc); err != nil {
				return fmt.Errorf("decode question hit: %w", err)
			}
			completionText := services.Snippet(doc.Content, 100)
			highlight := h.firstHighlight("content")
			if highlight == "" {
				highlight = completionText
			}
			questions = append(questions, scored{entities.Completion{Text: completionText, Highlight: highlight}, h.Score})
		}
		return nil
	})
	group.Go(func() error {
		hits, err := e.search(groupCtx, IndexArticles, phrasePrefixQuery("title", prefix, limit))
		if err != nil {
			return err
		}
		for _, h := range hits {
			var doc articleDoc
			if err := json.Unmarshal(h.Source, &doc); err != nil {
				return fmt.Errorf("decode article hit: %w", err)
			}
			highlight := h.firstHighlight("title")
			if highlight == "" {
				highlight = doc.Title
			}
			articles = append(articles, scored{entities.Completion{Text: doc.Title, Highlight: highlight}, h.Score})
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	all := append(questions, articles...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	seen := make(map[string]struct{}, len(all))
	completions := make([]entities.Completion, 0, limit)
	for _, item := range all {
		if len(completions) == limit {
			break
		}
		if _, dup := seen[item.completion.Text]; dup {
			continue
		}
		seen[item.completion.Text] = struct{}{}
		completions = append(completions, item.completion)
	}
	return completions, nil
}

func (e *Engine) SimilarQuestions(ctx context.Context, text string, limit int) ([]entities.SimilarQuestion, error) {
	hits, err := e.search(ctx, IndexQuestions, similarQuestionsQuery(text, limit))
	if err != nil {
		return nil, err
	}
	similar := make([]entities.SimilarQuestion, 0, len(hits))
	for _, h := range hits {
		var doc questionDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return nil, fmt.Errorf("decode question hit: %w", err)
		}
		similar = append(similar, entities.SimilarQuestion{
			ID:         doc.ID,
			Content:    doc.Content,
			CreatedAt:  doc.CreatedAt,
			IsAnswered: doc.IsAnswered,
			Score:      h.Score,
		})
	}
	return similar, nil
}

func (e *Engine) search(ctx context.Context, index string, body map[string]any) ([]hit, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(index),
		e.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, unavailable(err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", index, err)
	}
	return decoded.Hits.Hits, nil
}

func toResult(kind entities.Kind, h hit) (entities.Result, error) {
	switch kind {
	case entities.KindQuestion:
		var doc questionDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return entities.Result{}, fmt.Errorf("decode question hit: %w", err)
		}
		highlight := h.firstHighlight("content")
		if highlight == "" {
			highlight = doc.Content
		}
		isAnswered := doc.IsAnswered
		return entities.Result{
			ID:        doc.ID,
			Kind:      kind,
			Content:   doc.Content,
			URL:       services.QuestionURL(doc.ID),
			CreatedAt: doc.CreatedAt,
			Highlight: highlight,
			Score:     h.Score,
			Info:      &entities.Info{IsAnswered: &isAnswered, Telegram: doc.Telegram},
		}, nil
	case entities.KindArticle:
		var doc articleDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return entities.Result{}, fmt.Errorf("decode article hit: %w", err)
		}
		highlight := h.firstHighlight("title", "content")
		if highlight == "" {
			highlight = doc.Title
		}
		return entities.Result{
			ID:        doc.ID,
			Kind:      kind,
			Title:     doc.Title,
			Slug:      doc.Slug,
			URL:       services.ArticleURL(doc.Slug),
			CreatedAt: doc.CreatedAt,
			Highlight: highlight,
			Score:     h.Score,
		}, nil
	case entities.KindLesson:
		var doc lessonDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return entities.Result{}, fmt.Errorf("decode lesson hit: %w", err)
		}
		highlight := h.firstHighlight("module.name")
		if highlight == "" {
			highlight = doc.Module.Name
		}
		return entities.Result{
			ID:        doc.ID,
			Kind:      kind,
			Title:     doc.Module.Name,
			Slug:      doc.Slug,
			URL:       services.LessonURL(doc.Slug),
			CreatedAt: doc.CreatedAt,
			Highlight: highlight,
			Score:     h.Score,
			Info:      &entities.Info{Topic: doc.Module.Topic.Name, Category: doc.Module.Topic.Category.Name},
		}, nil
	case entities.KindEvent:
		var doc eventDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return entities.Result{}, fmt.Errorf("decode event hit: %w", err)
		}
		highlight := h.firstHighlight("title")
		if highlight == "" {
			highlight = doc.Title
		}
		return entities.Result{
			ID:        doc.ID,
			Kind:      kind,
			Title:     doc.Title,
			URL:       services.EventURL(doc.ID),
			CreatedAt: doc.CreatedAt,
			Highlight: highlight,
			Score:     h.Score,
			Info:      &entities.Info{EventDate: doc.EventDate, Location: doc.Location},
		}, nil
	default:
		return entities.Result{}, fmt.Errorf("unknown kind %q", kind)
	}
}

// unavailable marks transport failures, which mean the cluster could not
// be reached at all.
func unavailable(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", domainerrors.ErrEngineUnavailable, err)
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	err := fmt.Errorf("elasticsearch %s: %s", res.Status(), bytes.TrimSpace(body))
	switch res.StatusCode {
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", domainerrors.ErrEngineUnavailable, err)
	default:
		return err
	}
}
