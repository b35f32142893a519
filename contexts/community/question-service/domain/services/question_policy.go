package services

import (
	"strings"

	domainerrors "hanafiyah/contexts/community/question-service/domain/errors"
)

const (
	MaxTelegramLength = 100
	SimilarLimit      = 3
)

func ValidateQuestion(content string, telegram string) error {
	if strings.TrimSpace(content) == "" {
		return domainerrors.ErrInvalidRequest
	}
	if len([]rune(telegram)) > MaxTelegramLength {
		return domainerrors.ErrInvalidRequest
	}
	return nil
}

func NormalizeTelegram(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
