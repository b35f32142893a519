package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	domainerrors "hanafiyah/contexts/identity-access/account-service/domain/errors"
)

const MinPasswordLength = 8

// ValidateRegistration checks the fields a new account must carry.
func ValidateRegistration(username string, email string, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > 150 || strings.ContainsAny(username, " \t\n") {
		return domainerrors.ErrInvalidRequest
	}
	if strings.TrimSpace(email) != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domainerrors.ErrInvalidRequest
		}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domainerrors.ErrWeakPassword
	}
	return nil
}
