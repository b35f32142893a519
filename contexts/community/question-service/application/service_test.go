package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	questionservice "hanafiyah/contexts/community/question-service"
	"hanafiyah/contexts/community/question-service/domain/entities"
	domainerrors "hanafiyah/contexts/community/question-service/domain/errors"
	"hanafiyah/contexts/community/question-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

func newModule() questionservice.Module {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	userID := int64(7)
	return questionservice.NewInMemoryModule([]entities.Question{
		{ID: 1, Content: "Как совершать <b>намаз в пути</b>?", Telegram: "traveller", CreatedAt: base,
			Answer: &entities.Answer{Content: "Сокращайте четырёхракаатные намазы.", CreatedAt: base.Add(time.Hour)}},
		{ID: 2, Content: "Можно ли совершать намаз в пути сидя?", Telegram: "rider", CreatedAt: base.Add(2 * time.Hour),
			Answer: &entities.Answer{Content: "Нафль можно.", CreatedAt: base.Add(3 * time.Hour)}},
		{ID: 3, UserID: &userID, Content: "Что нарушает пост?", Telegram: "murid", CreatedAt: base.Add(4 * time.Hour)},
	}, slog.Default())
}

func TestAskReturnsSimilarAnsweredQuestions(t *testing.T) {
	module := newModule()
	result, err := module.Service.Ask(context.Background(), ports.AskInput{Content: "намаз в пути", Telegram: "@asker"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if result.Question != nil {
		t.Fatalf("expected no question created when answered ones match")
	}
	if len(result.Similar) != 2 || result.Similar[0].ID != 2 || result.Similar[1].ID != 1 {
		t.Fatalf("expected newest answered matches first, got %+v", result.Similar)
	}
	if len(module.Store.Envelopes()) != 0 {
		t.Fatalf("expected no events for short-circuited ask")
	}
}

func TestAskCreatesQuestionAndEmitsEvent(t *testing.T) {
	module := newModule()
	userID := int64(7)
	result, err := module.Service.Ask(context.Background(), ports.AskInput{
		Content: "  Как выплачивать закят?  ", Telegram: "@murid", UserID: &userID,
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if result.Question == nil || result.Question.ID != 4 {
		t.Fatalf("expected question 4 created, got %+v", result)
	}
	if result.Question.Content != "Как выплачивать закят?" || result.Question.Telegram != "murid" {
		t.Fatalf("expected trimmed content and normalized handle, got %+v", result.Question)
	}

	envelopes := module.Store.Envelopes()
	if len(envelopes) != 1 || envelopes[0].EventType != contractsv1.EventQuestionCreated {
		t.Fatalf("expected one question.created envelope, got %+v", envelopes)
	}
	if envelopes[0].PartitionKey != "4" {
		t.Fatalf("expected partition by question id, got %q", envelopes[0].PartitionKey)
	}
	var payload contractsv1.QuestionPayload
	if err := json.Unmarshal(envelopes[0].Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.UserID == nil || *payload.UserID != 7 || payload.IsAnswered {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestAskRejectsEmptyContent(t *testing.T) {
	module := newModule()
	if _, err := module.Service.Ask(context.Background(), ports.AskInput{Content: "   ", Telegram: "x"}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

func TestAnswerUpsertsSingleAnswer(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	first, err := module.Service.Answer(ctx, 3, "Еда, питьё и близость.")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !first.IsAnswered || first.Answer == nil {
		t.Fatalf("expected answered question, got %+v", first)
	}
	second, err := module.Service.Answer(ctx, 3, "Еда и питьё намеренно.")
	if err != nil {
		t.Fatalf("re-answer: %v", err)
	}
	if second.Answer.ID != first.Answer.ID || second.Answer.Content != "Еда и питьё намеренно." {
		t.Fatalf("expected answer replaced in place, got %+v", second.Answer)
	}

	envelopes := module.Store.Envelopes()
	if len(envelopes) != 2 || envelopes[1].EventType != contractsv1.EventQuestionAnswered {
		t.Fatalf("expected two question.answered envelopes, got %+v", envelopes)
	}
	var payload contractsv1.QuestionPayload
	if err := envelopes[1].Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Answer == nil || payload.Answer.Content != "Еда и питьё намеренно." {
		t.Fatalf("expected latest answer in payload, got %+v", payload.Answer)
	}

	if _, err := module.Service.Answer(ctx, 99, "text"); !errors.Is(err, domainerrors.ErrQuestionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := module.Service.Answer(ctx, 3, "  "); !errors.Is(err, domainerrors.ErrEmptyAnswer) {
		t.Fatalf("expected empty answer, got %v", err)
	}
}

func TestSimilarExcludesItself(t *testing.T) {
	module := newModule()
	similar, err := module.Service.Similar(context.Background(), 1)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	for _, question := range similar {
		if question.ID == 1 {
			t.Fatalf("expected question itself excluded, got %+v", similar)
		}
	}
}

func TestBotHelpersAndPayloads(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	unanswered, err := module.Service.ListUnanswered(ctx, 5)
	if err != nil {
		t.Fatalf("unanswered: %v", err)
	}
	if len(unanswered) != 1 || unanswered[0].ID != 3 {
		t.Fatalf("expected only question 3 unanswered, got %+v", unanswered)
	}

	mine, total, err := module.Service.ListByUser(ctx, 7, 0, 3)
	if err != nil || total != 1 || len(mine) != 1 {
		t.Fatalf("expected one question for user 7, got %d/%d err=%v", len(mine), total, err)
	}

	question, err := module.Service.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := module.Service.CleanContent(question); got != "Как совершать намаз в пути?" {
		t.Fatalf("expected tags stripped, got %q", got)
	}
	if question.Asker("") != "traveller" {
		t.Fatalf("expected telegram handle as asker, got %q", question.Asker(""))
	}

	payloads, err := module.Service.AllQuestionPayloads(ctx)
	if err != nil {
		t.Fatalf("payloads: %v", err)
	}
	if len(payloads) != 3 {
		t.Fatalf("expected three payloads, got %d", len(payloads))
	}
	answered := 0
	for _, payload := range payloads {
		if payload.Answer != nil {
			answered++
		}
	}
	if answered != 2 {
		t.Fatalf("expected answers attached to two payloads, got %d", answered)
	}
}

func TestPayloadCarriesTagFreeAnswer(t *testing.T) {
	module := newModule()
	question, err := module.Service.Answer(context.Background(), 3, "<p>Еда &amp; <b>питьё</b></p>")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	payload := module.Service.Payload(question)
	if payload.Answer == nil || payload.Answer.CleanContent != "Еда & питьё" {
		t.Fatalf("expected tag-free answer text, got %+v", payload.Answer)
	}
	if payload.Answer.Content != "<p>Еда &amp; <b>питьё</b></p>" {
		t.Fatalf("expected raw answer kept, got %q", payload.Answer.Content)
	}
}
