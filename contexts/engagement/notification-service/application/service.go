package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"hanafiyah/contexts/engagement/notification-service/domain/entities"
	domainerrors "hanafiyah/contexts/engagement/notification-service/domain/errors"
	"hanafiyah/contexts/engagement/notification-service/domain/services"
	"hanafiyah/contexts/engagement/notification-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

const defaultSiteURL = "https://al-hanafiyah.com"

type Service struct {
	Notifications ports.NotificationRepository
	Settings      ports.SettingsRepository
	Subscriptions ports.SubscriptionRepository
	Recipients    ports.RecipientDirectory
	// Telegram is optional; without it notifications are only stored.
	Telegram ports.TelegramSender
	SiteURL  string
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (s Service) List(ctx context.Context, userID int64) ([]entities.Notification, error) {
	return s.Notifications.ListNotifications(ctx, userID)
}

func (s Service) Get(ctx context.Context, userID int64, notificationID int64) (entities.Notification, error) {
	return s.Notifications.GetNotification(ctx, userID, notificationID)
}

func (s Service) MarkAsRead(ctx context.Context, userID int64, notificationID int64) error {
	return s.Notifications.MarkRead(ctx, userID, notificationID)
}

func (s Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	count, err := s.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return err
	}
	ResolveLogger(s.Logger).Debug("notifications marked read",
		"event", "notifications_marked_read",
		"module", "engagement/notification-service",
		"layer", "application",
		"user_id", userID,
		"count", count,
	)
	return nil
}

func (s Service) GetSettings(ctx context.Context, userID int64) (entities.Settings, error) {
	return s.Settings.GetOrCreateSettings(ctx, entities.DefaultSettings(userID))
}

// UpdateSettings applies a partial update. Type flags are merged into the
// stored map; unknown type names are rejected.
func (s Service) UpdateSettings(ctx context.Context, userID int64, input ports.UpdateSettingsInput) (entities.Settings, error) {
	current, err := s.GetSettings(ctx, userID)
	if err != nil {
		return entities.Settings{}, err
	}
	if input.PushEnabled != nil {
		current.PushEnabled = *input.PushEnabled
	}
	if input.EmailEnabled != nil {
		current.EmailEnabled = *input.EmailEnabled
	}
	if len(input.Types) > 0 {
		merged := make(map[string]bool, len(current.Types)+len(input.Types))
		for name, enabled := range current.Types {
			merged[name] = enabled
		}
		for name, enabled := range input.Types {
			if !entities.NotificationType(name).Valid() {
				return entities.Settings{}, fmt.Errorf("%w: unknown notification type %q", domainerrors.ErrInvalidRequest, name)
			}
			merged[name] = enabled
		}
		current.Types = merged
	}
	return s.Settings.SaveSettings(ctx, current)
}

func (s Service) ListPushSubscriptions(ctx context.Context, userID int64) ([]entities.PushSubscription, error) {
	return s.Subscriptions.ListSubscriptions(ctx, userID)
}

func (s Service) CreatePushSubscription(ctx context.Context, userID int64, input ports.CreateSubscriptionInput) (entities.PushSubscription, error) {
	if len(input.SubscriptionInfo) == 0 || !json.Valid(input.SubscriptionInfo) {
		return entities.PushSubscription{}, domainerrors.ErrInvalidRequest
	}
	if len([]rune(input.Browser)) > 100 || len([]rune(input.Device)) > 100 {
		return entities.PushSubscription{}, domainerrors.ErrInvalidRequest
	}
	return s.Subscriptions.CreateSubscription(ctx, entities.PushSubscription{
		UserID:           userID,
		SubscriptionInfo: input.SubscriptionInfo,
		Browser:          strings.TrimSpace(input.Browser),
		Device:           strings.TrimSpace(input.Device),
		CreatedAt:        s.Clock.Now().UTC(),
	})
}

func (s Service) DeletePushSubscription(ctx context.Context, userID int64, subscriptionID int64) error {
	return s.Subscriptions.DeleteSubscription(ctx, userID, subscriptionID)
}

// Create stores a notification and, when the user has a Telegram handle,
// forwards it to Telegram. Delivery failures are logged, never returned.
func (s Service) Create(ctx context.Context, input ports.CreateInput) (entities.Notification, error) {
	if strings.TrimSpace(input.Title) == "" || !input.Type.Valid() {
		return entities.Notification{}, domainerrors.ErrInvalidRequest
	}
	recipient, err := s.Recipients.GetRecipient(ctx, input.UserID)
	if err != nil {
		return entities.Notification{}, err
	}
	notification, err := s.store(ctx, input, false)
	if err != nil {
		return entities.Notification{}, err
	}
	if recipient.Telegram == "" || s.Telegram == nil {
		return notification, nil
	}

	text := services.TelegramText(input.Title, input.Message, input.URL, s.siteURL())
	if err := s.Telegram.Send(ctx, ports.Chat{Username: recipient.Telegram}, text, nil); err != nil {
		ResolveLogger(s.Logger).Warn("telegram notification failed",
			"event", "notification_telegram_failed",
			"module", "engagement/notification-service",
			"layer", "application",
			"notification_id", notification.ID,
			"user_id", input.UserID,
			"error", err.Error(),
		)
		return notification, nil
	}
	if err := s.Notifications.MarkSentToTelegram(ctx, notification.ID); err != nil {
		return entities.Notification{}, err
	}
	notification.SentToTelegram = true
	return notification, nil
}

// NotifyStaff sends the same notification to every staff account.
func (s Service) NotifyStaff(ctx context.Context, input ports.CreateInput) (int, error) {
	staff, err := s.Recipients.ListStaffRecipients(ctx)
	if err != nil {
		return 0, err
	}
	return s.fanOut(ctx, staff, input)
}

// NotifyActive sends the same notification to every active account.
func (s Service) NotifyActive(ctx context.Context, input ports.CreateInput) (int, error) {
	users, err := s.Recipients.ListActiveRecipients(ctx)
	if err != nil {
		return 0, err
	}
	return s.fanOut(ctx, users, input)
}

// NotifyAnswered tells the asker that the ustaz answered. Askers with a
// linked Telegram chat get a rich message with follow-up buttons; others
// get the regular notification. Anonymous questions are skipped.
func (s Service) NotifyAnswered(ctx context.Context, question contractsv1.QuestionPayload) (bool, error) {
	if question.UserID == nil || question.Answer == nil {
		return false, nil
	}
	recipient, err := s.Recipients.GetRecipient(ctx, *question.UserID)
	if err != nil {
		return false, err
	}
	url := fmt.Sprintf("/questions/%d", question.QuestionID)
	input := ports.CreateInput{
		UserID:  recipient.UserID,
		Title:   "Ответ на ваш вопрос",
		Message: "Устаз ответил на ваш вопрос: " + services.Excerpt(question.CleanContent, 100),
		Type:    entities.TypeQuestionAnswer,
		Object:  &entities.ObjectRef{ContentType: "question", ObjectID: question.QuestionID},
		URL:     url,
	}
	if recipient.TelegramID == nil || s.Telegram == nil {
		_, err := s.Create(ctx, input)
		return false, err
	}

	text := "<b>🔔 УВЕДОМЛЕНИЕ</b>\n\n" +
		"Ассаламу алейкум! Устаз ответил на ваш вопрос.\n\n" +
		"<b>📝 ВАШ ВОПРОС:</b>\n" +
		"<i>" + services.QuoteHTML(question.CleanContent, 150) + "</i>\n\n" +
		"<b>✅ ОТВЕТ УСТАЗА:</b>\n" +
		services.QuoteHTML(answerText(*question.Answer), 200) + "\n\n"
	rows := [][]ports.Button{
		{{Text: "📖 Прочитать полный ответ", URL: strings.TrimRight(s.siteURL(), "/") + url}},
		{
			{Text: "👍 Благодарить", Data: fmt.Sprintf("thank_%d", question.QuestionID)},
			{Text: "❓ Задать ещё", Data: "ask_new"},
		},
	}
	if err := s.Telegram.Send(ctx, ports.Chat{ID: *recipient.TelegramID}, text, rows); err != nil {
		ResolveLogger(s.Logger).Warn("answer notification failed",
			"event", "notification_answer_telegram_failed",
			"module", "engagement/notification-service",
			"layer", "application",
			"question_id", question.QuestionID,
			"user_id", recipient.UserID,
			"error", err.Error(),
		)
		_, err := s.store(ctx, input, false)
		return false, err
	}
	_, err = s.store(ctx, input, true)
	return err == nil, err
}

func (s Service) fanOut(ctx context.Context, recipients []entities.Recipient, input ports.CreateInput) (int, error) {
	sent := 0
	for _, recipient := range recipients {
		input.UserID = recipient.UserID
		if _, err := s.Create(ctx, input); err != nil {
			return sent, fmt.Errorf("notify user %d: %w", recipient.UserID, err)
		}
		sent++
	}
	return sent, nil
}

func (s Service) store(ctx context.Context, input ports.CreateInput, sentToTelegram bool) (entities.Notification, error) {
	notification, err := s.Notifications.CreateNotification(ctx, entities.Notification{
		UserID:         input.UserID,
		Title:          strings.TrimSpace(input.Title),
		Message:        input.Message,
		URL:            input.URL,
		Type:           input.Type,
		Object:         input.Object,
		SentToTelegram: sentToTelegram,
		CreatedAt:      s.Clock.Now().UTC(),
	})
	if err != nil {
		return entities.Notification{}, err
	}
	ResolveLogger(s.Logger).Info("notification created",
		"event", "notification_created",
		"module", "engagement/notification-service",
		"layer", "application",
		"notification_id", notification.ID,
		"user_id", notification.UserID,
		"type", string(notification.Type),
	)
	return notification, nil
}

func (s Service) siteURL() string {
	if strings.TrimSpace(s.SiteURL) == "" {
		return defaultSiteURL
	}
	return s.SiteURL
}

// answerText prefers the tag-free answer so excerpts never cut through markup.
func answerText(answer contractsv1.AnswerPayload) string {
	if answer.CleanContent != "" {
		return answer.CleanContent
	}
	return answer.Content
}
