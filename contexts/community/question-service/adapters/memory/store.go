package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hanafiyah/contexts/community/question-service/application"
	"hanafiyah/contexts/community/question-service/domain/entities"
	domainerrors "hanafiyah/contexts/community/question-service/domain/errors"
	"hanafiyah/contexts/community/question-service/ports"
	"hanafiyah/internal/shared/outbox"
)

// Store is an in-memory adapter implementing question ports for local
// runtime and tests.
type Store struct {
	*outbox.MemoryStore

	mu        sync.RWMutex
	questions map[int64]entities.Question
	answers   map[int64]entities.Answer
	nextID    int64
	answerID  int64
	sequence  uint64
	logger    *slog.Logger
}

// NewStore accepts questions with optional answers attached.
func NewStore(seed []entities.Question, logger *slog.Logger) *Store {
	store := &Store{
		MemoryStore: outbox.NewMemoryStore(),
		questions:   make(map[int64]entities.Question, len(seed)),
		answers:     make(map[int64]entities.Answer),
		logger:      application.ResolveLogger(logger),
	}
	for _, question := range seed {
		if question.ID == 0 {
			store.nextID++
			question.ID = store.nextID
		}
		if question.ID > store.nextID {
			store.nextID = question.ID
		}
		if question.Answer != nil {
			answer := *question.Answer
			answer.QuestionID = question.ID
			store.answerID++
			answer.ID = store.answerID
			store.answers[question.ID] = answer
			question.IsAnswered = true
		}
		question.Answer = nil
		store.questions[question.ID] = question
	}
	return store
}

func (s *Store) ListQuestions(_ context.Context, filter ports.QuestionFilter) ([]entities.Question, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Question, 0)
	for _, question := range s.newestFirst() {
		if filter.IsAnswered != nil && question.IsAnswered != *filter.IsAnswered {
			continue
		}
		if filter.UserID != nil && (question.UserID == nil || *question.UserID != *filter.UserID) {
			continue
		}
		if !containsFold(question.Content, filter.Search) {
			continue
		}
		items = append(items, s.withAnswer(question))
	}
	total := len(items)
	if filter.Page.Offset >= total {
		return []entities.Question{}, total, nil
	}
	items = items[filter.Page.Offset:]
	if filter.Page.Limit > 0 && len(items) > filter.Page.Limit {
		items = items[:filter.Page.Limit]
	}
	return items, total, nil
}

func (s *Store) GetQuestion(_ context.Context, questionID int64) (entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[questionID]
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	return s.withAnswer(question), nil
}

func (s *Store) FindAnsweredContaining(_ context.Context, text string, excludeID int64, limit int) ([]entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Question, 0, limit)
	for _, question := range s.newestFirst() {
		if question.ID == excludeID || !question.IsAnswered || !containsFold(question.Content, text) {
			continue
		}
		items = append(items, s.withAnswer(question))
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) CreateQuestionWithOutbox(_ context.Context, question entities.Question, build ports.EnvelopeBuilder) (entities.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question.ID = s.nextID + 1
	envelope, err := build(question)
	if err != nil {
		return entities.Question{}, err
	}
	if err := s.Append(envelope); err != nil {
		return entities.Question{}, err
	}
	s.nextID++
	s.questions[question.ID] = question
	return question, nil
}

func (s *Store) SaveAnswerWithOutbox(_ context.Context, answer entities.Answer, build ports.EnvelopeBuilder) (entities.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, ok := s.questions[answer.QuestionID]
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	if existing, ok := s.answers[answer.QuestionID]; ok {
		answer.ID = existing.ID
		answer.CreatedAt = existing.CreatedAt
		answer.ConvertedToArticle = existing.ConvertedToArticle
	} else {
		answer.ID = s.answerID + 1
	}
	question.IsAnswered = true
	question.Answer = &answer
	envelope, err := build(question)
	if err != nil {
		return entities.Question{}, err
	}
	if err := s.Append(envelope); err != nil {
		return entities.Question{}, err
	}
	if answer.ID > s.answerID {
		s.answerID = answer.ID
	}
	s.answers[answer.QuestionID] = answer
	question.Answer = nil
	s.questions[question.ID] = question
	return s.withAnswer(question), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("question-evt-%d", value), nil
}

func (s *Store) withAnswer(question entities.Question) entities.Question {
	if answer, ok := s.answers[question.ID]; ok {
		question.Answer = &answer
	}
	return question
}

func (s *Store) newestFirst() []entities.Question {
	items := make([]entities.Question, 0, len(s.questions))
	for _, question := range s.questions {
		items = append(items, question)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items
}

func containsFold(value string, search string) bool {
	search = strings.TrimSpace(search)
	return search == "" || strings.Contains(strings.ToLower(value), strings.ToLower(search))
}
