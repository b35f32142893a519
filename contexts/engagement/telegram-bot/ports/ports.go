package ports

import (
	"context"

	"hanafiyah/contexts/engagement/telegram-bot/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

// Messenger talks back to Telegram.
type Messenger interface {
	Send(ctx context.Context, chatID int64, reply entities.Reply) error
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
	AnswerCallback(ctx context.Context, callbackID string, text string) error
}

// AccountDirectory reads and links site accounts.
type AccountDirectory interface {
	FindByTelegramHandle(ctx context.Context, handle string) (entities.Account, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (entities.Account, error)
	LinkTelegramID(ctx context.Context, handle string, telegramID int64) (entities.Account, error)
	GetAccount(ctx context.Context, userID int64) (entities.Account, error)
}

type QuestionDirectory interface {
	ListUnanswered(ctx context.Context, limit int) ([]contractsv1.QuestionPayload, error)
	ListByUser(ctx context.Context, userID int64, offset int, limit int) ([]contractsv1.QuestionPayload, int, error)
	GetQuestion(ctx context.Context, questionID int64) (contractsv1.QuestionPayload, error)
	AnswerQuestion(ctx context.Context, questionID int64, content string) (contractsv1.QuestionPayload, error)
}

type EventDirectory interface {
	Upcoming(ctx context.Context) ([]contractsv1.OfflineEventPayload, error)
}

type LessonDirectory interface {
	Latest(ctx context.Context, limit int) ([]contractsv1.LessonPayload, error)
}

type SessionStore interface {
	Load(ctx context.Context, telegramUserID int64) (entities.Session, error)
	Save(ctx context.Context, telegramUserID int64, session entities.Session) error
}
