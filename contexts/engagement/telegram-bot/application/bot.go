package application

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hanafiyah/contexts/engagement/telegram-bot/domain/entities"
	domainerrors "hanafiyah/contexts/engagement/telegram-bot/domain/errors"
	"hanafiyah/contexts/engagement/telegram-bot/domain/services"
	"hanafiyah/contexts/engagement/telegram-bot/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

const (
	defaultSiteURL     = "https://al-hanafiyah.com"
	unansweredLimit    = 5
	latestLessonsLimit = 5

	textNotUstaz        = "У вас нет прав устаза для этой команды."
	textNotLinked       = "Вы не привязали свой Telegram к аккаунту на сайте. Авторизуйтесь на сайте и заполните профиль."
	textNoUnanswered    = "Нет неотвеченных вопросов."
	textNoMyQuestions   = "📝 У вас пока нет заданных вопросов."
	textNoEvents        = "Нет предстоящих мероприятий."
	textNoLessons       = "Уроки не найдены."
	textQuestionMissing = "Вопрос не найден."
	textPickQuestion    = "❗️ Выберите вопрос для ответа сначала с помощью /questions"
	textAnswerMissing   = "❌ Вопрос не найден."
	textNavHelp         = "⚠️ <i>У вас есть еще вопросы. Используйте кнопки навигации для просмотра.</i>"
	textAnswerDelivered = "<b>✅ ОТВЕТ ОТПРАВЛЕН</b>\n\n" +
		"Ваш ответ успешно отправлен пользователю. Уведомление доставлено.\n\n" +
		"<i>Награда за ваш труд ожидает вас у Аллаха</i> 🕌"
	textAnswerUndelivered = "✅ <b>Ответ сохранен</b>, но пользователь не получит уведомление, " +
		"так как не привязал Telegram к своему аккаунту."
)

// Bot dispatches Telegram updates to command and callback handlers.
type Bot struct {
	Messenger ports.Messenger
	Accounts  ports.AccountDirectory
	Questions ports.QuestionDirectory
	Events    ports.EventDirectory
	Lessons   ports.LessonDirectory
	Sessions  ports.SessionStore
	SiteURL   string
	// Location renders event dates; UTC when nil.
	Location *time.Location
	Logger   *slog.Logger
}

func (b Bot) HandleMessage(ctx context.Context, msg entities.Message) error {
	command := msg.Command()
	ResolveLogger(b.Logger).Debug("telegram message received",
		"event", "telegram_bot_message",
		"module", "engagement/telegram-bot",
		"layer", "application",
		"telegram_user_id", msg.UserID,
		"command", command,
	)
	switch command {
	case "start":
		return b.start(ctx, msg)
	case "questions":
		return b.asUstaz(ctx, msg.ChatID, msg.UserID, func(entities.Account) error {
			return b.listUnanswered(ctx, msg.ChatID)
		})
	case "myquestions":
		return b.asLinked(ctx, msg.ChatID, msg.UserID, func(account entities.Account) error {
			return b.listMine(ctx, msg.ChatID, msg.UserID, account, 0)
		})
	case "events":
		return b.listEvents(ctx, msg.ChatID)
	case "lessons":
		return b.listLessons(ctx, msg.ChatID)
	case "":
		return b.asUstaz(ctx, msg.ChatID, msg.UserID, func(entities.Account) error {
			return b.processAnswer(ctx, msg)
		})
	default:
		return nil
	}
}

func (b Bot) HandleCallback(ctx context.Context, cb entities.Callback) error {
	switch {
	case strings.HasPrefix(cb.Data, "answer_"):
		return b.answerCallback(ctx, cb)
	case strings.HasPrefix(cb.Data, "show_answer_"):
		return b.showAnswer(ctx, cb)
	case cb.Data == "prev_my_questions", cb.Data == "next_my_questions":
		return b.turnPage(ctx, cb)
	case cb.Data == "page_info":
		return b.Messenger.AnswerCallback(ctx, cb.ID, "")
	case strings.HasPrefix(cb.Data, "thank_"):
		return b.Messenger.AnswerCallback(ctx, cb.ID, "🤲 Джазакаллаху хайран!")
	case cb.Data == "ask_new":
		if err := b.Messenger.AnswerCallback(ctx, cb.ID, ""); err != nil {
			return err
		}
		return b.Messenger.Send(ctx, cb.ChatID, entities.Reply{
			Text: "❓ Задайте новый вопрос устазу на сайте.",
			Rows: [][]entities.Button{{{Text: "Задать вопрос", URL: b.siteURL() + "/questions"}}},
		})
	default:
		return b.Messenger.AnswerCallback(ctx, cb.ID, "")
	}
}

func (b Bot) start(ctx context.Context, msg entities.Message) error {
	text := fmt.Sprintf("Ассаламу алейкум, %s!\n\n", msg.FirstName)

	account, err := b.Accounts.LinkTelegramID(ctx, msg.Username, msg.UserID)
	switch {
	case errors.Is(err, domainerrors.ErrAccountNotFound):
		text += "Ваш Telegram не привязан к аккаунту на сайте.\n" +
			"Для получения уведомлений об ответах на вопросы, пожалуйста:\n" +
			"1. Войдите на сайт\n" +
			"2. Заполните свой профиль, указав Telegram: @" + msg.Username + "\n"
	case err != nil:
		return err
	case account.IsUstaz:
		text += "Вы зарегистрированы как устаз. Вы будете получать уведомления о новых вопросах.\n\n" +
			"Доступные команды:\n" +
			"/questions - показать неотвеченные вопросы\n" +
			"/events - показать предстоящие встречи\n" +
			"/lessons - показать последние уроки\n"
	default:
		text += "Вы успешно привязали свой Telegram к аккаунту на сайте.\n" +
			"Теперь вы будете получать уведомления об ответах на ваши вопросы, новых уроках и встречах.\n\n" +
			"Доступные команды:\n" +
			"/myquestions - показать ваши вопросы\n" +
			"/events - показать предстоящие встречи\n" +
			"/lessons - показать последние уроки\n"
	}
	if err == nil {
		ResolveLogger(b.Logger).Info("telegram account linked",
			"event", "telegram_bot_account_linked",
			"module", "engagement/telegram-bot",
			"layer", "application",
			"user_id", account.UserID,
			"telegram_user_id", msg.UserID,
		)
	}
	return b.Messenger.Send(ctx, msg.ChatID, entities.Reply{Text: text})
}

func (b Bot) listUnanswered(ctx context.Context, chatID int64) error {
	questions, err := b.Questions.ListUnanswered(ctx, unansweredLimit)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return b.Messenger.Send(ctx, chatID, entities.Reply{Text: textNoUnanswered})
	}
	for _, question := range questions {
		excerpt, cut := services.Cut(question.CleanContent, 300)
		text := fmt.Sprintf("Вопрос #%d от %s:\n\n%s", question.QuestionID, b.asker(ctx, question), excerpt)
		if cut {
			text += "...\n\nНажмите 'Ответить' для просмотра полного вопроса."
		}
		reply := entities.Reply{
			Text: text,
			Rows: [][]entities.Button{{{Text: "Ответить", Data: fmt.Sprintf("answer_%d", question.QuestionID)}}},
		}
		if err := b.Messenger.Send(ctx, chatID, reply); err != nil {
			return err
		}
	}
	return nil
}

func (b Bot) listMine(ctx context.Context, chatID int64, telegramUserID int64, account entities.Account, page int) error {
	questions, total, err := b.Questions.ListByUser(ctx, account.UserID, page*services.MyQuestionsPerPage, services.MyQuestionsPerPage)
	if err != nil {
		return err
	}
	if total == 0 {
		return b.Messenger.Send(ctx, chatID, entities.Reply{Text: textNoMyQuestions})
	}
	pages := services.TotalPages(total, services.MyQuestionsPerPage)
	if clamped := services.ClampPage(page, pages); clamped != page {
		page = clamped
		questions, _, err = b.Questions.ListByUser(ctx, account.UserID, page*services.MyQuestionsPerPage, services.MyQuestionsPerPage)
		if err != nil {
			return err
		}
	}
	if err := b.Sessions.Save(ctx, telegramUserID, b.sessionWithPage(ctx, telegramUserID, page)); err != nil {
		return err
	}

	for _, question := range questions {
		emoji, status := "⏳", "В ОЖИДАНИИ"
		if question.IsAnswered {
			emoji, status = "✅", "ОТВЕЧЕН"
		}
		excerpt, cut := services.Cut(question.CleanContent, 200)
		text := fmt.Sprintf("<b>🔷 ВОПРОС #%d</b>\n<i>%s Статус: %s</i>\n\n%s", question.QuestionID, emoji, status, html.EscapeString(excerpt))
		if cut {
			text += "..."
		}

		var rows [][]entities.Button
		if question.IsAnswered {
			rows = append(rows, []entities.Button{
				{Text: "📖 Показать ответ", Data: fmt.Sprintf("show_answer_%d", question.QuestionID)},
				{Text: "🌐 Открыть на сайте", URL: fmt.Sprintf("%s/questions/%d", b.siteURL(), question.QuestionID)},
			})
		}
		if pages > 1 {
			var nav []entities.Button
			if page > 0 {
				nav = append(nav, entities.Button{Text: "⬅️ Предыдущие", Data: "prev_my_questions"})
			}
			nav = append(nav, entities.Button{Text: fmt.Sprintf("📄 %d/%d", page+1, pages), Data: "page_info"})
			if page < pages-1 {
				nav = append(nav, entities.Button{Text: "Следующие ➡️", Data: "next_my_questions"})
			}
			rows = append(rows, nav)
		}
		if err := b.Messenger.Send(ctx, chatID, entities.Reply{Text: text, HTML: true, Rows: rows}); err != nil {
			return err
		}
	}
	if page == 0 && pages > 1 {
		return b.Messenger.Send(ctx, chatID, entities.Reply{Text: textNavHelp, HTML: true})
	}
	return nil
}

func (b Bot) listEvents(ctx context.Context, chatID int64) error {
	events, err := b.Events.Upcoming(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return b.Messenger.Send(ctx, chatID, entities.Reply{Text: textNoEvents})
	}
	for _, event := range events {
		date := "Дата не указана"
		if event.EventDate != nil {
			date = event.EventDate.In(b.location()).Format("02.01.2006 15:04")
		}
		description, _ := services.Cut(event.Description, 200)
		text := fmt.Sprintf("📅 <b>%s</b>\n\n📆 Дата: %s\n📍 Место: %s\n\nℹ️ %s...",
			html.EscapeString(event.Title), date, html.EscapeString(event.Location), html.EscapeString(description))
		if err := b.Messenger.Send(ctx, chatID, entities.Reply{Text: text, HTML: true}); err != nil {
			return err
		}
	}
	return nil
}

func (b Bot) listLessons(ctx context.Context, chatID int64) error {
	lessons, err := b.Lessons.Latest(ctx, latestLessonsLimit)
	if err != nil {
		return err
	}
	if len(lessons) == 0 {
		return b.Messenger.Send(ctx, chatID, entities.Reply{Text: textNoLessons})
	}
	for _, lesson := range lessons {
		text := "🎓 <b>Урок</b>\n\n" +
			"📚 Модуль: " + html.EscapeString(lesson.ModuleName) + "\n" +
			"📖 Тема: " + html.EscapeString(lesson.TopicName) + "\n" +
			"🏛 Категория: " + html.EscapeString(lesson.CategoryName) + "\n" +
			"🎬 Тип: " + mediaTypeLabel(lesson.MediaType) + "\n"
		reply := entities.Reply{
			Text: text,
			HTML: true,
			Rows: [][]entities.Button{{{Text: "Открыть урок", URL: b.siteURL() + "/lessons/" + lesson.Slug}}},
		}
		if err := b.Messenger.Send(ctx, chatID, reply); err != nil {
			return err
		}
	}
	return nil
}

func (b Bot) answerCallback(ctx context.Context, cb entities.Callback) error {
	account, err := b.Accounts.FindByTelegramID(ctx, cb.UserID)
	if errors.Is(err, domainerrors.ErrAccountNotFound) || (err == nil && !account.IsUstaz) {
		return b.Messenger.AnswerCallback(ctx, cb.ID, textNotUstaz)
	}
	if err != nil {
		return err
	}
	if err := b.Messenger.AnswerCallback(ctx, cb.ID, ""); err != nil {
		return err
	}

	questionID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "answer_"), 10, 64)
	if err != nil {
		return b.Messenger.EditText(ctx, cb.ChatID, cb.MessageID, textQuestionMissing)
	}
	question, err := b.Questions.GetQuestion(ctx, questionID)
	if errors.Is(err, domainerrors.ErrQuestionNotFound) {
		return b.Messenger.EditText(ctx, cb.ChatID, cb.MessageID, textQuestionMissing)
	}
	if err != nil {
		return err
	}

	session, err := b.Sessions.Load(ctx, cb.UserID)
	if err != nil {
		return err
	}
	session.AnsweringQuestion = question.QuestionID
	if err := b.Sessions.Save(ctx, cb.UserID, session); err != nil {
		return err
	}
	text := fmt.Sprintf("Вопрос #%d от %s:\n\n%s\n\nОтветьте, отправив сообщение.",
		question.QuestionID, b.asker(ctx, question), question.CleanContent)
	return b.Messenger.EditText(ctx, cb.ChatID, cb.MessageID, text)
}

func (b Bot) showAnswer(ctx context.Context, cb entities.Callback) error {
	account, err := b.Accounts.FindByTelegramID(ctx, cb.UserID)
	if errors.Is(err, domainerrors.ErrAccountNotFound) {
		return b.Messenger.AnswerCallback(ctx, cb.ID, textNotLinked)
	}
	if err != nil {
		return err
	}
	questionID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, "show_answer_"), 10, 64)
	if err != nil {
		return b.Messenger.AnswerCallback(ctx, cb.ID, textQuestionMissing)
	}
	question, err := b.Questions.GetQuestion(ctx, questionID)
	if errors.Is(err, domainerrors.ErrQuestionNotFound) || (err == nil && (question.UserID == nil || *question.UserID != account.UserID)) {
		return b.Messenger.AnswerCallback(ctx, cb.ID, textQuestionMissing)
	}
	if err != nil {
		return err
	}
	if err := b.Messenger.AnswerCallback(ctx, cb.ID, ""); err != nil {
		return err
	}
	if question.Answer == nil {
		return b.Messenger.Send(ctx, cb.ChatID, entities.Reply{Text: "⏳ Устаз ещё не ответил на этот вопрос."})
	}
	text := fmt.Sprintf("<b>✅ ОТВЕТ НА ВОПРОС #%d</b>\n\n%s", question.QuestionID, html.EscapeString(question.Answer.Content))
	return b.Messenger.Send(ctx, cb.ChatID, entities.Reply{
		Text: text,
		HTML: true,
		Rows: [][]entities.Button{{{Text: "🌐 Открыть на сайте", URL: fmt.Sprintf("%s/questions/%d", b.siteURL(), question.QuestionID)}}},
	})
}

func (b Bot) turnPage(ctx context.Context, cb entities.Callback) error {
	account, err := b.Accounts.FindByTelegramID(ctx, cb.UserID)
	if errors.Is(err, domainerrors.ErrAccountNotFound) {
		return b.Messenger.AnswerCallback(ctx, cb.ID, textNotLinked)
	}
	if err != nil {
		return err
	}
	if err := b.Messenger.AnswerCallback(ctx, cb.ID, ""); err != nil {
		return err
	}
	session, err := b.Sessions.Load(ctx, cb.UserID)
	if err != nil {
		return err
	}
	page := session.MyQuestionsPage + 1
	if cb.Data == "prev_my_questions" {
		page = session.MyQuestionsPage - 1
	}
	if page < 0 {
		page = 0
	}
	return b.listMine(ctx, cb.ChatID, cb.UserID, account, page)
}

func (b Bot) processAnswer(ctx context.Context, msg entities.Message) error {
	session, err := b.Sessions.Load(ctx, msg.UserID)
	if err != nil {
		return err
	}
	if session.AnsweringQuestion == 0 {
		return b.Messenger.Send(ctx, msg.ChatID, entities.Reply{Text: textPickQuestion})
	}
	question, err := b.Questions.AnswerQuestion(ctx, session.AnsweringQuestion, msg.Text)
	if err != nil && !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		return err
	}
	session.AnsweringQuestion = 0
	if saveErr := b.Sessions.Save(ctx, msg.UserID, session); saveErr != nil {
		return saveErr
	}
	if err != nil {
		return b.Messenger.Send(ctx, msg.ChatID, entities.Reply{Text: textAnswerMissing})
	}
	ResolveLogger(b.Logger).Info("question answered from telegram",
		"event", "telegram_bot_question_answered",
		"module", "engagement/telegram-bot",
		"layer", "application",
		"question_id", question.QuestionID,
	)

	if b.askerLinked(ctx, question) {
		return b.Messenger.Send(ctx, msg.ChatID, entities.Reply{Text: textAnswerDelivered, HTML: true})
	}
	return b.Messenger.Send(ctx, msg.ChatID, entities.Reply{Text: textAnswerUndelivered, HTML: true})
}

func (b Bot) asUstaz(ctx context.Context, chatID int64, telegramUserID int64, next func(entities.Account) error) error {
	account, err := b.Accounts.FindByTelegramID(ctx, telegramUserID)
	if errors.Is(err, domainerrors.ErrAccountNotFound) || (err == nil && !account.IsUstaz) {
		return b.Messenger.Send(ctx, chatID, entities.Reply{Text: textNotUstaz})
	}
	if err != nil {
		return err
	}
	return next(account)
}

func (b Bot) asLinked(ctx context.Context, chatID int64, telegramUserID int64, next func(entities.Account) error) error {
	account, err := b.Accounts.FindByTelegramID(ctx, telegramUserID)
	if errors.Is(err, domainerrors.ErrAccountNotFound) {
		return b.Messenger.Send(ctx, chatID, entities.Reply{Text: textNotLinked})
	}
	if err != nil {
		return err
	}
	return next(account)
}

// asker names the question author: the account username when the question
// belongs to an account, otherwise the Telegram handle it was asked with.
func (b Bot) asker(ctx context.Context, question contractsv1.QuestionPayload) string {
	if question.UserID != nil {
		if account, err := b.Accounts.GetAccount(ctx, *question.UserID); err == nil && account.Username != "" {
			return account.Username
		}
	}
	return question.Telegram
}

func (b Bot) askerLinked(ctx context.Context, question contractsv1.QuestionPayload) bool {
	if question.UserID == nil {
		return false
	}
	account, err := b.Accounts.GetAccount(ctx, *question.UserID)
	return err == nil && account.TelegramID != nil
}

func (b Bot) sessionWithPage(ctx context.Context, telegramUserID int64, page int) entities.Session {
	session, err := b.Sessions.Load(ctx, telegramUserID)
	if err != nil {
		session = entities.Session{}
	}
	session.MyQuestionsPage = page
	return session
}

func (b Bot) siteURL() string {
	if strings.TrimSpace(b.SiteURL) == "" {
		return defaultSiteURL
	}
	return strings.TrimRight(b.SiteURL, "/")
}

func (b Bot) location() *time.Location {
	if b.Location == nil {
		return time.UTC
	}
	return b.Location
}

func mediaTypeLabel(mediaType string) string {
	switch mediaType {
	case "video":
		return "Видео"
	case "audio":
		return "Аудио"
	default:
		return mediaType
	}
}
