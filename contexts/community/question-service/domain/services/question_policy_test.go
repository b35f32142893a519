package services

import (
	"errors"
	"strings"
	"testing"

	"hanafiyah/contexts/community/question-service/domain/entities"
	domainerrors "hanafiyah/contexts/community/question-service/domain/errors"
)

func TestValidateQuestion(t *testing.T) {
	if err := ValidateQuestion("Как совершать намаз?", "murid"); err != nil {
		t.Fatalf("expected valid question, got %v", err)
	}
	if err := ValidateQuestion("  ", ""); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected blank question rejected, got %v", err)
	}
	if err := ValidateQuestion("x", strings.Repeat("a", MaxTelegramLength+1)); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected long telegram rejected, got %v", err)
	}
	if got := NormalizeTelegram(" @murid "); got != "murid" {
		t.Fatalf("unexpected handle %q", got)
	}
}

func TestAsker(t *testing.T) {
	userID := int64(3)
	if got := (entities.Question{UserID: &userID, Telegram: "tg"}).Asker("murid"); got != "murid" {
		t.Fatalf("expected username, got %q", got)
	}
	if got := (entities.Question{Telegram: "tg"}).Asker(""); got != "tg" {
		t.Fatalf("expected telegram handle, got %q", got)
	}
}
