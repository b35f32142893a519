package application_test

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"hanafiyah/contexts/engagement/telegram-bot/adapters/memory"
	"hanafiyah/contexts/engagement/telegram-bot/application"
	"hanafiyah/contexts/engagement/telegram-bot/domain/entities"
	domainerrors "hanafiyah/contexts/engagement/telegram-bot/domain/errors"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[int64]entities.Account
	handles  map[string]int64
}

func (f *fakeAccounts) FindByTelegramHandle(_ context.Context, handle string) (entities.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.handles[strings.TrimPrefix(handle, "@")]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return f.accounts[id], nil
}

func (f *fakeAccounts) FindByTelegramID(_ context.Context, telegramID int64) (entities.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.TelegramID != nil && *account.TelegramID == telegramID {
			return account, nil
		}
	}
	return entities.Account{}, domainerrors.ErrAccountNotFound
}

func (f *fakeAccounts) LinkTelegramID(ctx context.Context, handle string, telegramID int64) (entities.Account, error) {
	account, err := f.FindByTelegramHandle(ctx, handle)
	if err != nil {
		return entities.Account{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	account.TelegramID = &telegramID
	f.accounts[account.UserID] = account
	return account, nil
}

func (f *fakeAccounts) GetAccount(_ context.Context, userID int64) (entities.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[userID]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return account, nil
}

type fakeQuestions struct {
	questions []contractsv1.QuestionPayload
	answered  map[int64]string
}

func (f *fakeQuestions) ListUnanswered(_ context.Context, limit int) ([]contractsv1.QuestionPayload, error) {
	var items []contractsv1.QuestionPayload
	for _, question := range f.questions {
		if !question.IsAnswered && len(items) < limit {
			items = append(items, question)
		}
	}
	return items, nil
}

func (f *fakeQuestions) ListByUser(_ context.Context, userID int64, offset int, limit int) ([]contractsv1.QuestionPayload, int, error) {
	var mine []contractsv1.QuestionPayload
	for _, question := range f.questions {
		if question.UserID != nil && *question.UserID == userID {
			mine = append(mine, question)
		}
	}
	total := len(mine)
	if offset >= total {
		return nil, total, nil
	}
	mine = mine[offset:]
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, total, nil
}

func (f *fakeQuestions) GetQuestion(_ context.Context, questionID int64) (contractsv1.QuestionPayload, error) {
	for _, question := range f.questions {
		if question.QuestionID == questionID {
			return question, nil
		}
	}
	return contractsv1.QuestionPayload{}, domainerrors.ErrQuestionNotFound
}

func (f *fakeQuestions) AnswerQuestion(ctx context.Context, questionID int64, content string) (contractsv1.QuestionPayload, error) {
	question, err := f.GetQuestion(ctx, questionID)
	if err != nil {
		return contractsv1.QuestionPayload{}, err
	}
	f.answered[questionID] = content
	question.IsAnswered = true
	question.Answer = &contractsv1.AnswerPayload{Content: content}
	return question, nil
}

type fakeEvents struct {
	events []contractsv1.OfflineEventPayload
}

func (f fakeEvents) Upcoming(context.Context) ([]contractsv1.OfflineEventPayload, error) {
	return f.events, nil
}

type fakeLessons struct {
	lessons []contractsv1.LessonPayload
}

func (f fakeLessons) Latest(_ context.Context, limit int) ([]contractsv1.LessonPayload, error) {
	if len(f.lessons) > limit {
		return f.lessons[:limit], nil
	}
	return f.lessons, nil
}

const (
	ustazChat  = int64(1001)
	muridChat  = int64(2002)
	guestChat  = int64(3003)
	linkedChat = int64(4004)
)

func int64Ptr(value int64) *int64 {
	return &value
}

type harness struct {
	bot       application.Bot
	messenger *memory.Messenger
	questions *fakeQuestions
}

func newHarness() harness {
	murid := int64(2)
	linked := int64(4)
	accounts := &fakeAccounts{
		accounts: map[int64]entities.Account{
			1: {UserID: 1, Username: "ustaz", IsUstaz: true, TelegramID: int64Ptr(ustazChat)},
			2: {UserID: 2, Username: "murid"},
			4: {UserID: 4, Username: "linked", TelegramID: int64Ptr(linkedChat)},
		},
		handles: map[string]int64{"ustaz_tg": 1, "murid_tg": 2, "linked_tg": 4},
	}
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	questions := &fakeQuestions{
		answered: map[int64]string{},
		questions: []contractsv1.QuestionPayload{
			{QuestionID: 10, UserID: &murid, CleanContent: strings.Repeat("а", 320), Telegram: "murid_tg"},
			{QuestionID: 9, Telegram: "guest", CleanContent: "Можно ли читать Коран без тахарата?"},
			{QuestionID: 8, UserID: &linked, CleanContent: "Вопрос 4", IsAnswered: true, Answer: &contractsv1.AnswerPayload{Content: "Ответ 4 <b>важно</b>"}},
			{QuestionID: 7, UserID: &linked, CleanContent: "Вопрос 3"},
			{QuestionID: 6, UserID: &linked, CleanContent: "Вопрос 2"},
			{QuestionID: 5, UserID: &linked, CleanContent: "Вопрос 1"},
		},
	}
	eventDate := base.Add(48 * time.Hour)
	messenger := &memory.Messenger{}
	bot := application.Bot{
		Messenger: messenger,
		Accounts:  accounts,
		Questions: questions,
		Events: fakeEvents{events: []contractsv1.OfflineEventPayload{
			{OfflineEventID: 1, Title: "Меджлис", Description: "Урок по акыде", Location: "Казань", EventDate: &eventDate},
			{OfflineEventID: 2, Title: "Без даты", Description: "Уточняется", Location: "Уфа"},
		}},
		Lessons: fakeLessons{lessons: []contractsv1.LessonPayload{
			{Slug: "wudu-1", MediaType: "video", ModuleName: "Тахарат", TopicName: "Очищение", CategoryName: "Фикх"},
		}},
		Sessions: memory.NewSessionStore(),
		SiteURL:  "https://al-hanafiyah.com",
		Logger:   slog.Default(),
	}
	return harness{bot: bot, messenger: messenger, questions: questions}
}

func TestStartLinksAccountAndShowsRoleHelp(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	if err := h.bot.HandleMessage(ctx, entities.Message{ChatID: muridChat, UserID: muridChat, Username: "murid_tg", FirstName: "Али", Text: "/start"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	out := h.messenger.Drain()
	if len(out) != 1 {
		t.Fatalf("expected one reply, got %+v", out)
	}
	text := out[0].Reply.Text
	if !strings.HasPrefix(text, "Ассаламу алейкум, Али!\n\n") || !strings.Contains(text, "/myquestions - показать ваши вопросы") {
		t.Fatalf("unexpected user greeting %q", text)
	}
	linked, err := h.bot.Accounts.FindByTelegramID(ctx, muridChat)
	if err != nil || linked.UserID != 2 {
		t.Fatalf("expected murid linked to chat, got %+v err=%v", linked, err)
	}

	if err := h.bot.HandleMessage(ctx, entities.Message{ChatID: guestChat, UserID: guestChat, Username: "stranger", FirstName: "Гость", Text: "/start"}); err != nil {
		t.Fatalf("start guest: %v", err)
	}
	guest := h.messenger.Drain()[0].Reply.Text
	if !strings.HasSuffix(guest, "2. Заполните свой профиль, указав Telegram: @stranger\n") {
		t.Fatalf("unexpected guest greeting %q", guest)
	}
}

func TestQuestionsRequiresUstaz(t *testing.T) {
	h := newHarness()
	if err := h.bot.HandleMessage(context.Background(), entities.Message{ChatID: linkedChat, UserID: linkedChat, Text: "/questions"}); err != nil {
		t.Fatalf("questions: %v", err)
	}
	out := h.messenger.Drain()
	if len(out) != 1 || out[0].Reply.Text != "У вас нет прав устаза для этой команды." {
		t.Fatalf("expected ustaz-only refusal, got %+v", out)
	}
}

func TestUstazAnswersQuestionFromTelegram(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	if err := h.bot.HandleMessage(ctx, entities.Message{ChatID: ustazChat, UserID: ustazChat, Text: "answer without pick"}); err != nil {
		t.Fatalf("plain text: %v", err)
	}
	if out := h.messenger.Drain(); out[0].Reply.Text != "❗️ Выберите вопрос для ответа сначала с помощью /questions" {
		t.Fatalf("expected hint, got %+v", out)
	}

	if err := h.bot.HandleMessage(ctx, entities.Message{ChatID: ustazChat, UserID: ustazChat, Text: "/questions"}); err != nil {
		t.Fatalf("questions: %v", err)
	}
	out := h.messenger.Drain()
	if len(out) != 5 {
		t.Fatalf("expected five unanswered questions, got %d", len(out))
	}
	first := out[0].Reply
	if !strings.HasPrefix(first.Text, "Вопрос #10 от murid:\n\n") ||
		!strings.HasSuffix(first.Text, "...\n\nНажмите 'Ответить' для просмотра полного вопроса.") {
		t.Fatalf("unexpected long question preview %q", first.Text)
	}
	if first.Rows[0][0].Data != "answer_10" {
		t.Fatalf("expected answer button, got %+v", first.Rows)
	}
	if !strings.HasPrefix(out[1].Reply.Text, "Вопрос #9 от guest:") {
		t.Fatalf("expected telegram handle for anonymous asker, got %q", out[1].Reply.Text)
	}

	if err := h.bot.HandleCallback(ctx, entities.Callback{ID: "cb", ChatID: ustazChat, MessageID: 55, UserID: ustazChat, Data: "answer_9"}); err != nil {
		t.Fatalf("answer callback: %v", err)
	}
	out = h.messenger.Drain()
	edit := out[len(out)-1]
	if edit.Kind != "edit" || edit.MessageID != 55 || !strings.HasSuffix(edit.Reply.Text, "\n\nОтветьте, отправив сообщение.") {
		t.Fatalf("expected edited prompt, got %+v", out)
	}

	if err := h.bot.HandleMessage(ctx, entities.Message{ChatID: ustazChat, UserID: ustazChat, Text: "Можно, не касаясь мусхафа."}); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if h.questions.answered[9] != "Можно, не касаясь мусхафа." {
		t.Fatalf("expected answer stored, got %+v", h.questions.answered)
	}
	out = h.messenger.Drain()
	if len(out) != 1 || !strings.HasPrefix(out[0].Reply.Text, "✅ <b>Ответ сохранен</b>") {
		t.Fatalf("expected undelivered confirmation for anonymous asker, got %+v", out)
	}

	session, _ := h.bot.Sessions.Load(ctx, ustazChat)
	if session.AnsweringQuestion != 0 {
		t.Fatalf("expected pending question cleared")
	}
}

func TestAnswerToLinkedAskerConfirmsDelivery(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	if err := h.bot.HandleCallback(ctx, entities.Callback{ID: "cb", ChatID: ustazChat, UserID: ustazChat, Data: "answer_7"}); err != nil {
		t.Fatalf("callback: %v", err)
	}
	h.messenger.Drain()
	if err := h.bot.HandleMessage(ctx, entities.Message{ChatID: ustazChat, UserID: ustazChat, Text: "Ответ"}); err != nil {
		t.Fatalf("answer: %v", err)
	}
	out := h.messenger.Drain()
	if len(out) != 1 || !strings.HasPrefix(out[0].Reply.Text, "<b>✅ ОТВЕТ ОТПРАВЛЕН</b>") || !out[0].Reply.HTML {
		t.Fatalf("expected delivered confirmation, got %+v", out)
	}
}

func TestMyQuestionsPagination(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	if err := h.bot.HandleMessage(ctx, entities.Message{ChatID: linkedChat, UserID: linkedChat, Text: "/myquestions"}); err != nil {
		t.Fatalf("myquestions: %v", err)
	}
	out := h.messenger.Drain()
	if len(out) != 4 {
		t.Fatalf("expected three questions plus navigation hint, got %d", len(out))
	}
	answered := out[0].Reply
	if !strings.HasPrefix(answered.Text, "<b>🔷 ВОПРОС #8</b>\n<i>✅ Статус: ОТВЕЧЕН</i>") {
		t.Fatalf("unexpected answered card %q", answered.Text)
	}
	if answered.Rows[0][0].Data != "show_answer_8" || answered.Rows[0][1].URL != "https://al-hanafiyah.com/questions/8" {
		t.Fatalf("unexpected answer buttons %+v", answered.Rows)
	}
	nav := answered.Rows[1]
	if len(nav) != 2 || nav[0].Text != "📄 1/2" || nav[1].Data != "next_my_questions" {
		t.Fatalf("unexpected navigation %+v", nav)
	}
	if !strings.Contains(out[1].Reply.Text, "⏳ Статус: В ОЖИДАНИИ") {
		t.Fatalf("unexpected pending card %q", out[1].Reply.Text)
	}

	if err := h.bot.HandleCallback(ctx, entities.Callback{ID: "cb", ChatID: linkedChat, UserID: linkedChat, Data: "next_my_questions"}); err != nil {
		t.Fatalf("next: %v", err)
	}
	out = h.messenger.Drain()
	if len(out) != 2 || out[0].Kind != "callback" {
		t.Fatalf("expected ack plus one question, got %+v", out)
	}
	last := out[1].Reply
	if !strings.Contains(last.Text, "ВОПРОС #5") || last.Rows[0][0].Data != "prev_my_questions" || last.Rows[0][1].Text != "📄 2/2" {
		t.Fatalf("unexpected second page %+v", last)
	}

	if err := h.bot.HandleCallback(ctx, entities.Callback{ID: "cb", ChatID: linkedChat, UserID: linkedChat, Data: "show_answer_8"}); err != nil {
		t.Fatalf("show answer: %v", err)
	}
	out = h.messenger.Drain()
	if !strings.Contains(out[1].Reply.Text, "Ответ 4 &lt;b&gt;важно&lt;/b&gt;") {
		t.Fatalf("expected escaped answer, got %q", out[1].Reply.Text)
	}

	if err := h.bot.HandleCallback(ctx, entities.Callback{ID: "cb", ChatID: linkedChat, UserID: linkedChat, Data: "show_answer_10"}); err != nil {
		t.Fatalf("show foreign answer: %v", err)
	}
	out = h.messenger.Drain()
	if len(out) != 1 || out[0].Reply.Text != "Вопрос не найден." {
		t.Fatalf("expected foreign question hidden, got %+v", out)
	}
}

func TestEventsAndLessons(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	if err := h.bot.HandleMessage(ctx, entities.Message{ChatID: guestChat, UserID: guestChat, Text: "/events"}); err != nil {
		t.Fatalf("events: %v", err)
	}
	out := h.messenger.Drain()
	if len(out) != 2 {
		t.Fatalf("expected two events, got %d", len(out))
	}
	want := "📅 <b>Меджлис</b>\n\n📆 Дата: 03.03.2025 09:00\n📍 Место: Казань\n\nℹ️ Урок по акыде..."
	if out[0].Reply.Text != want {
		t.Fatalf("unexpected event card:\n%s", out[0].Reply.Text)
	}
	if !strings.Contains(out[1].Reply.Text, "📆 Дата: Дата не указана") {
		t.Fatalf("expected undated label, got %q", out[1].Reply.Text)
	}

	if err := h.bot.HandleMessage(ctx, entities.Message{ChatID: guestChat, UserID: guestChat, Text: "/lessons"}); err != nil {
		t.Fatalf("lessons: %v", err)
	}
	out = h.messenger.Drain()
	if len(out) != 1 || !strings.Contains(out[0].Reply.Text, "🎬 Тип: Видео") {
		t.Fatalf("unexpected lesson card %+v", out)
	}
	if out[0].Reply.Rows[0][0].URL != "https://al-hanafiyah.com/lessons/wudu-1" {
		t.Fatalf("unexpected lesson button %+v", out[0].Reply.Rows)
	}
}
