package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	domainerrors "hanafiyah/contexts/discovery/search-service/domain/errors"
	"hanafiyah/contexts/discovery/search-service/domain/services"
)

// Engine is an in-process stand-in for the search cluster. It scores by
// boosted term overlap and highlights exact substrings; there is no
// stemming or fuzziness.
type Engine struct {
	mu        sync.RWMutex
	questions map[int64]entities.QuestionDocument
	articles  map[int64]entities.ArticleDocument
	lessons   map[int64]entities.LessonDocument
	events    map[int64]entities.EventDocument
	dedup     map[string]dedupEntry
	down      atomic.Bool
	logger    *slog.Logger
}

type dedupEntry struct {
	payloadHash string
	expiresAt   time.Time
}

type field struct {
	value string
	boost float64
}

func NewEngine(seed entities.Corpus, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	engine := &Engine{dedup: make(map[string]dedupEntry), logger: logger}
	engine.reset()
	engine.load(seed)
	return engine
}

// SetAvailable simulates the cluster going away and coming back.
func (e *Engine) SetAvailable(available bool) {
	e.down.Store(!available)
}

func (e *Engine) Ping(context.Context) error {
	if e.down.Load() {
		return domainerrors.ErrEngineUnavailable
	}
	return nil
}

func (e *Engine) EnsureIndices(ctx context.Context, drop bool) error {
	if err := e.Ping(ctx); err != nil {
		return err
	}
	if drop {
		e.mu.Lock()
		e.reset()
		e.mu.Unlock()
	}
	return nil
}

func (e *Engine) BulkIndex(ctx context.Context, corpus entities.Corpus) error {
	if err := e.Ping(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(corpus)
	return nil
}

func (e *Engine) IndexQuestion(ctx context.Context, doc entities.QuestionDocument) error {
	if err := e.Ping(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.questions[doc.ID] = doc
	return nil
}

func (e *Engine) IndexArticle(ctx context.Context, doc entities.ArticleDocument) error {
	if err := e.Ping(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.articles[doc.ID] = doc
	return nil
}

func (e *Engine) IndexLesson(ctx context.Context, doc entities.LessonDocument) error {
	if err := e.Ping(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lessons[doc.ID] = doc
	return nil
}

func (e *Engine) IndexEvent(ctx context.Context, doc entities.EventDocument) error {
	if err := e.Ping(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events[doc.ID] = doc
	return nil
}

func (e *Engine) Search(ctx context.Context, query entities.Query) ([]entities.Result, error) {
	if err := e.Ping(ctx); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	terms := tokenize(query.Text)
	results := make([]entities.Result, 0)
	for _, kind := range query.Scope.Kinds() {
		var hits []entities.Result
		switch kind {
		case entities.KindQuestion:
			hits = e.searchQuestions(query.Text, terms)
		case entities.KindArticle:
			hits = e.searchArticles(query.Text, terms)
		case entities.KindLesson:
			hits = e.searchLessons(query.Text, terms)
		case entities.KindEvent:
			hits = e.searchEvents(query.Text, terms)
		}
		results = append(results, window(rank(hits), query.Offset(), query.Size)...)
	}
	return results, nil
}

func (e *Engine) SuggestQuestions(ctx context.Context, text string, limit int) ([]entities.Suggestion, error) {
	if err := e.Ping(ctx); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	terms := tokenize(text)
	hits := make([]entities.Result, 0)
	for _, question := range e.questions {
		if !question.IsAnswered {
			continue
		}
		s := score(terms, answerFields(question, 2)...)
		if strings.Contains(strings.ToLower(question.Content), strings.ToLower(strings.TrimSpace(text))) {
			s += 3
		}
		if s == 0 {
			continue
		}
		highlight, ok := services.Highlight(question.Content, text)
		if !ok {
			highlight = services.Snippet(question.Content, 100)
		}
		hits = append(hits, entities.Result{ID: question.ID, Highlight: highlight, Score: s, CreatedAt: question.CreatedAt})
	}
	answered := true
	suggestions := make([]entities.Suggestion, 0)
	for _, hit := range window(rank(hits), 0, limit) {
		suggestions = append(suggestions, entities.Suggestion{
			Text:       hit.Highlight,
			Kind:       entities.KindQuestion,
			URL:        services.QuestionURL(hit.ID),
			IsAnswered: &answered,
			Score:      hit.Score,
		})
	}
	return suggestions, nil
}

func (e *Engine) SuggestContent(ctx context.Context, text string, perKind int) ([]entities.Suggestion, error) {
	if err := e.Ping(ctx); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	terms := tokenize(text)
	var articles, lessons, events []entities.Result
	for _, article := range e.articles {
		if s := score(terms, field{article.Title, 3}, field{article.Content, 2}); s > 0 {
			articles = append(articles, entities.Result{ID: article.ID, Kind: entities.KindArticle, Title: article.Title, URL: services.ArticleURL(article.Slug), Score: s, CreatedAt: article.CreatedAt})
		}
	}
	for _, lesson := range e.lessons {
		if s := score(terms, field{lesson.ModuleName, 3}, field{lesson.TopicName, 2}); s > 0 {
			lessons = append(lessons, entities.Result{ID: lesson.ID, Kind: entities.KindLesson, Title: lesson.ModuleName, URL: services.LessonURL(lesson.Slug), Score: s, CreatedAt: lesson.CreatedAt})
		}
	}
	for _, event := range e.events {
		if s := score(terms, field{event.Title, 3}, field{event.Description, 2}); s > 0 {
			events = append(events, entities.Result{ID: event.ID, Kind: entities.KindEvent, Title: event.Title, URL: services.EventURL(event.ID), Score: s, CreatedAt: event.CreatedAt})
		}
	}
	suggestions := make([]entities.Suggestion, 0)
	for _, group := range [][]entities.Result{articles, lessons, events} {
		for _, hit := range window(rank(group), 0, perKind) {
			suggestions = append(suggestions, entities.Suggestion{Text: hit.Title, Kind: hit.Kind, URL: hit.URL, Score: hit.Score})
		}
	}
	return suggestions, nil
}

func (e *Engine) Autocomplete(ctx context.Context, prefix string, limit int) ([]entities.Completion, error) {
	if err := e.Ping(ctx); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	candidates := make([]entities.Result, 0)
	for _, question := range e.questions {
		candidates = append(candidates, entities.Result{ID: question.ID, Title: question.Content, CreatedAt: question.CreatedAt})
	}
	for _, article := range e.articles {
		candidates = append(candidates, entities.Result{ID: article.ID, Title: article.Title, CreatedAt: article.CreatedAt})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	seen := make(map[string]struct{})
	completions := make([]entities.Completion, 0)
	for _, candidate := range candidates {
		if len(completions) == limit {
			break
		}
		highlight, ok := services.Highlight(candidate.Title, prefix)
		if !ok {
			continue
		}
		if _, dup := seen[candidate.Title]; dup {
			continue
		}
		seen[candidate.Title] = struct{}{}
		completions = append(completions, entities.Completion{Text: candidate.Title, Highlight: highlight})
	}
	return completions, nil
}

func (e *Engine) SimilarQuestions(ctx context.Context, text string, limit int) ([]entities.SimilarQuestion, error) {
	if err := e.Ping(ctx); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	terms := tokenize(text)
	hits := make([]entities.Result, 0)
	for _, question := range e.questions {
		if !question.IsAnswered {
			continue
		}
		if s := score(terms, answerFields(question, 2)...); s > 0 {
			hits = append(hits, entities.Result{ID: question.ID, Content: question.Content, CreatedAt: question.CreatedAt, Score: s})
		}
	}
	similar := make([]entities.SimilarQuestion, 0)
	for _, hit := range window(rank(hits), 0, limit) {
		similar = append(similar, entities.SimilarQuestion{
			ID:         hit.ID,
			Content:    hit.Content,
			CreatedAt:  hit.CreatedAt,
			IsAnswered: true,
			Score:      hit.Score,
		})
	}
	return similar, nil
}

// Now and ReserveEvent let the engine double as the index sync dedup store.
func (e *Engine) Now() time.Time {
	return time.Now().UTC()
}

func (e *Engine) ReserveEvent(_ context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := e.dedup[eventID]; ok && existing.expiresAt.After(now) {
		if existing.payloadHash != payloadHash {
			return false, domainerrors.ErrIdempotencyKeyConflict
		}
		return true, nil
	}
	e.dedup[eventID] = dedupEntry{payloadHash: payloadHash, expiresAt: expiresAt}
	return false, nil
}

func (e *Engine) ReleaseEvent(_ context.Context, eventID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.dedup, eventID)
	return nil
}

// Corpus returns a copy of every indexed document.
func (e *Engine) Corpus() entities.Corpus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	corpus := entities.Corpus{}
	for _, doc := range e.questions {
		corpus.Questions = append(corpus.Questions, doc)
	}
	for _, doc := range e.articles {
		corpus.Articles = append(corpus.Articles, doc)
	}
	for _, doc := range e.lessons {
		corpus.Lessons = append(corpus.Lessons, doc)
	}
	for _, doc := range e.events {
		corpus.Events = append(corpus.Events, doc)
	}
	return corpus
}

func (e *Engine) searchQuestions(text string, terms []string) []entities.Result {
	hits := make([]entities.Result, 0)
	for _, question := range e.questions {
		s := score(terms, answerFields(question, 2)...)
		if s == 0 {
			continue
		}
		isAnswered := question.IsAnswered
		hits = append(hits, entities.Result{
			ID:        question.ID,
			Kind:      entities.KindQuestion,
			Content:   question.Content,
			URL:       services.QuestionURL(question.ID),
			CreatedAt: question.CreatedAt,
			Highlight: firstHighlight(text, terms, question.Content),
			Score:     s,
			Info:      &entities.Info{IsAnswered: &isAnswered, Telegram: question.Telegram},
		})
	}
	return hits
}

func (e *Engine) searchArticles(text string, terms []string) []entities.Result {
	hits := make([]entities.Result, 0)
	for _, article := range e.articles {
		s := score(terms, field{article.Title, 3}, field{article.Content, 1})
		if s == 0 {
			continue
		}
		hits = append(hits, entities.Result{
			ID:        article.ID,
			Kind:      entities.KindArticle,
			Title:     article.Title,
			Slug:      article.Slug,
			URL:       services.ArticleURL(article.Slug),
			CreatedAt: article.CreatedAt,
			Highlight: firstHighlight(text, terms, article.Title, article.Content),
			Score:     s,
		})
	}
	return hits
}

func (e *Engine) searchLessons(text string, terms []string) []entities.Result {
	hits := make([]entities.Result, 0)
	for _, lesson := range e.lessons {
		s := score(terms, field{lesson.ModuleName, 2}, field{lesson.TopicName, 1}, field{lesson.CategoryName, 1})
		if s == 0 {
			continue
		}
		hits = append(hits, entities.Result{
			ID:        lesson.ID,
			Kind:      entities.KindLesson,
			Title:     lesson.ModuleName,
			Slug:      lesson.Slug,
			URL:       services.LessonURL(lesson.Slug),
			CreatedAt: lesson.CreatedAt,
			Highlight: firstHighlight(text, terms, lesson.ModuleName),
			Score:     s,
			Info:      &entities.Info{Topic: lesson.TopicName, Category: lesson.CategoryName},
		})
	}
	return hits
}

func (e *Engine) searchEvents(text string, terms []string) []entities.Result {
	hits := make([]entities.Result, 0)
	for _, event := range e.events {
		s := score(terms, field{event.Title, 2}, field{event.Description, 1}, field{event.Location, 1})
		if s == 0 {
			continue
		}
		hits = append(hits, entities.Result{
			ID:        event.ID,
			Kind:      entities.KindEvent,
			Title:     event.Title,
			URL:       services.EventURL(event.ID),
			CreatedAt: event.CreatedAt,
			Highlight: firstHighlight(text, terms, event.Title),
			Score:     s,
			Info:      &entities.Info{EventDate: event.EventDate, Location: event.Location},
		})
	}
	return hits
}

func (e *Engine) reset() {
	e.questions = make(map[int64]entities.QuestionDocument)
	e.articles = make(map[int64]entities.ArticleDocument)
	e.lessons = make(map[int64]entities.LessonDocument)
	e.events = make(map[int64]entities.EventDocument)
}

func (e *Engine) load(corpus entities.Corpus) {
	for _, doc := range corpus.Questions {
		e.questions[doc.ID] = doc
	}
	for _, doc := range corpus.Articles {
		e.articles[doc.ID] = doc
	}
	for _, doc := range corpus.Lessons {
		e.lessons[doc.ID] = doc
	}
	for _, doc := range corpus.Events {
		e.events[doc.ID] = doc
	}
}

func answerFields(question entities.QuestionDocument, contentBoost float64) []field {
	fields := []field{{question.Content, contentBoost}}
	if question.Answer != nil {
		fields = append(fields, field{question.Answer.Content, 1})
	}
	return fields
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// score sums, per field, the boost times the share of query terms the
// field contains.
func score(terms []string, fields ...field) float64 {
	if len(terms) == 0 {
		return 0
	}
	total := 0.0
	for _, f := range fields {
		value := strings.ToLower(f.value)
		matched := 0
		for _, term := range terms {
			if strings.Contains(value, term) {
				matched++
			}
		}
		total += f.boost * float64(matched) / float64(len(terms))
	}
	return total
}

// firstHighlight tries the whole text, then each term, across values in
// order and falls back to the first value.
func firstHighlight(text string, terms []string, values ...string) string {
	for _, value := range values {
		if highlighted, ok := services.Highlight(value, text); ok {
			return highlighted
		}
	}
	for _, value := range values {
		for _, term := range terms {
			if highlighted, ok := services.Highlight(value, term); ok {
				return highlighted
			}
		}
	}
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// rank orders by score, then newest first.
func rank(hits []entities.Result) []entities.Result {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if !hits[i].CreatedAt.Equal(hits[j].CreatedAt) {
			return hits[i].CreatedAt.After(hits[j].CreatedAt)
		}
		return hits[i].ID > hits[j].ID
	})
	return hits
}

func window(hits []entities.Result, offset, size int) []entities.Result {
	if offset >= len(hits) {
		return nil
	}
	end := len(hits)
	if size > 0 && offset+size < end {
		end = offset + size
	}
	return hits[offset:end]
}
