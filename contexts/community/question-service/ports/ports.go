package ports

import (
	"context"
	"time"

	"hanafiyah/contexts/community/question-service/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

type Page struct {
	Offset int
	Limit  int
}

// QuestionFilter lists newest first, answers attached. Search is a case-insensitive
// substring match on content.
type QuestionFilter struct {
	IsAnswered *bool
	UserID     *int64
	Search     string
	Page       Page
}

type EnvelopeBuilder func(entities.Question) (contractsv1.Envelope, error)

type QuestionRepository interface {
	ListQuestions(ctx context.Context, filter QuestionFilter) ([]entities.Question, int, error)
	// GetQuestion loads the question with its answer.
	GetQuestion(ctx context.Context, questionID int64) (entities.Question, error)
	// FindAnsweredContaining returns answered questions whose content contains
	// text, newest first, skipping excludeID.
	FindAnsweredContaining(ctx context.Context, text string, excludeID int64, limit int) ([]entities.Question, error)
	CreateQuestionWithOutbox(ctx context.Context, question entities.Question, build EnvelopeBuilder) (entities.Question, error)
	// SaveAnswerWithOutbox upserts the single answer of a question, flags the
	// question answered and appends the event, all in one write.
	SaveAnswerWithOutbox(ctx context.Context, answer entities.Answer, build EnvelopeBuilder) (entities.Question, error)
}

// Cleaner reduces rich text to plain text.
type Cleaner interface {
	PlainText(value string) string
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type AskInput struct {
	Content  string
	UserID   *int64
	Telegram string
}
