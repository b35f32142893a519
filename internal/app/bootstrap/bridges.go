package bootstrap

import (
	"context"
	"errors"

	questionapp "hanafiyah/contexts/community/question-service/application"
	questionentities "hanafiyah/contexts/community/question-service/domain/entities"
	questionerrors "hanafiyah/contexts/community/question-service/domain/errors"
	searchapp "hanafiyah/contexts/discovery/search-service/application"
	searchentities "hanafiyah/contexts/discovery/search-service/domain/entities"
	notificationentities "hanafiyah/contexts/engagement/notification-service/domain/entities"
	notificationerrors "hanafiyah/contexts/engagement/notification-service/domain/errors"
	botentities "hanafiyah/contexts/engagement/telegram-bot/domain/entities"
	boterrors "hanafiyah/contexts/engagement/telegram-bot/domain/errors"
	accountapp "hanafiyah/contexts/identity-access/account-service/application"
	accountentities "hanafiyah/contexts/identity-access/account-service/domain/entities"
	accounterrors "hanafiyah/contexts/identity-access/account-service/domain/errors"
	lessonapp "hanafiyah/contexts/learning/lesson-service/application"
	articleapp "hanafiyah/contexts/publishing/article-service/application"
	eventapp "hanafiyah/contexts/publishing/event-service/application"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

// Contexts never import each other. The adapters below translate between
// them at the composition root.

// accountRecipients serves notification recipients from the account context.
type accountRecipients struct {
	accounts accountapp.Service
}

func (r accountRecipients) GetRecipient(ctx context.Context, userID int64) (notificationentities.Recipient, error) {
	user, err := r.accounts.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, accounterrors.ErrUserNotFound) {
			return notificationentities.Recipient{}, notificationerrors.ErrRecipientNotFound
		}
		return notificationentities.Recipient{}, err
	}
	return toRecipient(user), nil
}

func (r accountRecipients) ListActiveRecipients(ctx context.Context) ([]notificationentities.Recipient, error) {
	users, err := r.accounts.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	return toRecipients(users), nil
}

func (r accountRecipients) ListStaffRecipients(ctx context.Context) ([]notificationentities.Recipient, error) {
	users, err := r.accounts.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	return toRecipients(users), nil
}

func toRecipients(users []accountentities.User) []notificationentities.Recipient {
	items := make([]notificationentities.Recipient, 0, len(users))
	for _, user := range users {
		items = append(items, toRecipient(user))
	}
	return items
}

func toRecipient(user accountentities.User) notificationentities.Recipient {
	return notificationentities.Recipient{
		UserID:     user.ID,
		Username:   user.Username,
		Telegram:   user.Profile.Telegram,
		TelegramID: user.Profile.TelegramID,
		IsStaff:    user.IsStaff,
	}
}

// botAccounts lets the bot find and link site accounts.
type botAccounts struct {
	accounts accountapp.Service
}

func (b botAccounts) FindByTelegramHandle(ctx context.Context, handle string) (botentities.Account, error) {
	return toBotAccount(b.accounts.FindByTelegram(ctx, handle))
}

func (b botAccounts) FindByTelegramID(ctx context.Context, telegramID int64) (botentities.Account, error) {
	return toBotAccount(b.accounts.FindByTelegramID(ctx, telegramID))
}

func (b botAccounts) LinkTelegramID(ctx context.Context, handle string, telegramID int64) (botentities.Account, error) {
	return toBotAccount(b.accounts.LinkTelegram(ctx, handle, telegramID))
}

func (b botAccounts) GetAccount(ctx context.Context, userID int64) (botentities.Account, error) {
	return toBotAccount(b.accounts.GetUser(ctx, userID))
}

func toBotAccount(user accountentities.User, err error) (botentities.Account, error) {
	if err != nil {
		if errors.Is(err, accounterrors.ErrUserNotFound) {
			return botentities.Account{}, boterrors.ErrAccountNotFound
		}
		return botentities.Account{}, err
	}
	return botentities.Account{
		UserID:     user.ID,
		Username:   user.Username,
		IsUstaz:    user.Profile.IsUstaz,
		TelegramID: user.Profile.TelegramID,
	}, nil
}

// botQuestions exposes the question context to the bot as contract payloads.
type botQuestions struct {
	questions questionapp.Service
}

func (b botQuestions) ListUnanswered(ctx context.Context, limit int) ([]contractsv1.QuestionPayload, error) {
	items, err := b.questions.ListUnanswered(ctx, limit)
	if err != nil {
		return nil, err
	}
	return b.payloads(items), nil
}

func (b botQuestions) ListByUser(ctx context.Context, userID int64, offset int, limit int) ([]contractsv1.QuestionPayload, int, error) {
	items, total, err := b.questions.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return b.payloads(items), total, nil
}

func (b botQuestions) GetQuestion(ctx context.Context, questionID int64) (contractsv1.QuestionPayload, error) {
	question, err := b.questions.Get(ctx, questionID)
	if err != nil {
		return contractsv1.QuestionPayload{}, botQuestionError(err)
	}
	return b.questions.Payload(question), nil
}

func (b botQuestions) AnswerQuestion(ctx context.Context, questionID int64, content string) (contractsv1.QuestionPayload, error) {
	question, err := b.questions.Answer(ctx, questionID, content)
	if err != nil {
		return contractsv1.QuestionPayload{}, botQuestionError(err)
	}
	return b.questions.Payload(question), nil
}

func (b botQuestions) payloads(items []questionentities.Question) []contractsv1.QuestionPayload {
	out := make([]contractsv1.QuestionPayload, 0, len(items))
	for _, item := range items {
		out = append(out, b.questions.Payload(item))
	}
	return out
}

func botQuestionError(err error) error {
	if errors.Is(err, questionerrors.ErrQuestionNotFound) {
		return boterrors.ErrQuestionNotFound
	}
	return err
}

type botEvents struct {
	events eventapp.Service
}

func (b botEvents) Upcoming(ctx context.Context) ([]contractsv1.OfflineEventPayload, error) {
	return b.events.UpcomingPayloads(ctx)
}

type botLessons struct {
	lessons lessonapp.Service
}

func (b botLessons) Latest(ctx context.Context, limit int) ([]contractsv1.LessonPayload, error) {
	return b.lessons.LatestLessonPayloads(ctx, limit)
}

// contentCorpus reads every indexed kind from its owning context for a
// full search rebuild.
type contentCorpus struct {
	questions questionapp.Service
	articles  articleapp.Service
	lessons   lessonapp.Service
	events    eventapp.Service
}

func (c contentCorpus) LoadCorpus(ctx context.Context) (searchentities.Corpus, error) {
	questions, err := c.questions.AllQuestionPayloads(ctx)
	if err != nil {
		return searchentities.Corpus{}, err
	}
	articles, err := c.articles.AllArticlePayloads(ctx)
	if err != nil {
		return searchentities.Corpus{}, err
	}
	lessons, err := c.lessons.LatestLessonPayloads(ctx, 0)
	if err != nil {
		return searchentities.Corpus{}, err
	}
	events, err := c.events.AllEventPayloads(ctx)
	if err != nil {
		return searchentities.Corpus{}, err
	}
	return searchapp.BuildCorpus(questions, articles, lessons, events), nil
}
