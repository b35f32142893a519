package application

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hanafiyah/contexts/community/question-service/domain/entities"
	domainerrors "hanafiyah/contexts/community/question-service/domain/errors"
	"hanafiyah/contexts/community/question-service/domain/services"
	"hanafiyah/contexts/community/question-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

const sourceService = "question-service"

type Service struct {
	Questions ports.QuestionRepository
	Cleaner   ports.Cleaner
	Clock     ports.Clock
	IDs       ports.IDGenerator
	Logger    *slog.Logger
}

func (s Service) List(ctx context.Context, filter ports.QuestionFilter) ([]entities.Question, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.Questions.ListQuestions(ctx, filter)
}

func (s Service) Get(ctx context.Context, questionID int64) (entities.Question, error) {
	return s.Questions.GetQuestion(ctx, questionID)
}

func (s Service) Answered(ctx context.Context, page ports.Page) ([]entities.Question, int, error) {
	answered := true
	return s.Questions.ListQuestions(ctx, ports.QuestionFilter{IsAnswered: &answered, Page: page})
}

// Ask short-circuits to existing answered questions that contain the
// submitted text; only when there are none is a new question stored.
func (s Service) Ask(ctx context.Context, input ports.AskInput) (entities.AskResult, error) {
	content := strings.TrimSpace(input.Content)
	telegram := services.NormalizeTelegram(input.Telegram)
	if err := services.ValidateQuestion(content, telegram); err != nil {
		return entities.AskResult{}, err
	}
	similar, err := s.Questions.FindAnsweredContaining(ctx, content, 0, services.SimilarLimit)
	if err != nil {
		return entities.AskResult{}, err
	}
	if len(similar) > 0 {
		return entities.AskResult{Similar: similar}, nil
	}

	now := s.Clock.Now().UTC()
	build, err := s.envelopeBuilder(ctx, contractsv1.EventQuestionCreated, now)
	if err != nil {
		return entities.AskResult{}, err
	}
	created, err := s.Questions.CreateQuestionWithOutbox(ctx, entities.Question{
		UserID:    input.UserID,
		Content:   content,
		Telegram:  telegram,
		CreatedAt: now,
	}, build)
	if err != nil {
		return entities.AskResult{}, err
	}
	ResolveLogger(s.Logger).Info("question asked",
		"event", "question_created",
		"module", "community/question-service",
		"layer", "application",
		"question_id", created.ID,
	)
	return entities.AskResult{Question: &created}, nil
}

// Similar lists answered questions containing this question's text.
func (s Service) Similar(ctx context.Context, questionID int64) ([]entities.Question, error) {
	question, err := s.Questions.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return s.Questions.FindAnsweredContaining(ctx, question.Content, question.ID, services.SimilarLimit)
}

// Answer stores or replaces the answer and marks the question answered.
func (s Service) Answer(ctx context.Context, questionID int64, content string) (entities.Question, error) {
	if strings.TrimSpace(content) == "" {
		return entities.Question{}, domainerrors.ErrEmptyAnswer
	}
	if _, err := s.Questions.GetQuestion(ctx, questionID); err != nil {
		return entities.Question{}, err
	}
	now := s.Clock.Now().UTC()
	build, err := s.envelopeBuilder(ctx, contractsv1.EventQuestionAnswered, now)
	if err != nil {
		return entities.Question{}, err
	}
	question, err := s.Questions.SaveAnswerWithOutbox(ctx, entities.Answer{
		QuestionID: questionID,
		Content:    content,
		CreatedAt:  now,
	}, build)
	if err != nil {
		return entities.Question{}, err
	}
	ResolveLogger(s.Logger).Info("question answered",
		"event", "question_answered",
		"module", "community/question-service",
		"layer", "application",
		"question_id", question.ID,
	)
	return question, nil
}

// CleanContent is the question text with entities decoded and tags removed.
func (s Service) CleanContent(question entities.Question) string {
	return s.Cleaner.PlainText(question.Content)
}

// ListUnanswered returns the newest unanswered questions for the ustaz.
func (s Service) ListUnanswered(ctx context.Context, limit int) ([]entities.Question, error) {
	answered := false
	items, _, err := s.Questions.ListQuestions(ctx, ports.QuestionFilter{IsAnswered: &answered, Page: ports.Page{Limit: limit}})
	return items, err
}

// ListByUser pages through one account's questions and reports the total.
func (s Service) ListByUser(ctx context.Context, userID int64, offset int, limit int) ([]entities.Question, int, error) {
	return s.Questions.ListQuestions(ctx, ports.QuestionFilter{UserID: &userID, Page: ports.Page{Offset: offset, Limit: limit}})
}

// Payload converts a question to its contract form.
func (s Service) Payload(question entities.Question) contractsv1.QuestionPayload {
	payload := contractsv1.QuestionPayload{
		QuestionID:   question.ID,
		UserID:       question.UserID,
		Content:      question.Content,
		CleanContent: s.CleanContent(question),
		Telegram:     question.Telegram,
		IsAnswered:   question.IsAnswered,
		CreatedAt:    question.CreatedAt,
	}
	if question.Answer != nil {
		payload.Answer = &contractsv1.AnswerPayload{
			Content:      question.Answer.Content,
			CleanContent: s.Cleaner.PlainText(question.Answer.Content),
			CreatedAt:    question.Answer.CreatedAt,
		}
	}
	return payload
}

// AllQuestionPayloads exports every question with its answer for indexing.
func (s Service) AllQuestionPayloads(ctx context.Context) ([]contractsv1.QuestionPayload, error) {
	questions, _, err := s.Questions.ListQuestions(ctx, ports.QuestionFilter{})
	if err != nil {
		return nil, err
	}
	items := make([]contractsv1.QuestionPayload, 0, len(questions))
	for _, question := range questions {
		items = append(items, s.Payload(question))
	}
	return items, nil
}

func (s Service) envelopeBuilder(ctx context.Context, eventType string, now time.Time) (ports.EnvelopeBuilder, error) {
	eventID, err := s.IDs.NewID(ctx)
	if err != nil {
		return nil, err
	}
	return func(stored entities.Question) (contractsv1.Envelope, error) {
		return contractsv1.NewEnvelope(
			eventID,
			eventType,
			sourceService,
			"question_id",
			strconv.FormatInt(stored.ID, 10),
			now,
			s.Payload(stored),
		)
	}, nil
}
