package entities

import (
	"strings"
	"time"
)

type Profile struct {
	Avatar     string
	Telegram   string
	TelegramID *int64
	IsUstaz    bool
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	IsStaff      bool
	DateJoined   time.Time
	Profile      Profile
}

// DisplayName prefers the first name and falls back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	return u.Username
}

// NormalizeTelegram stores handles without the leading @.
func NormalizeTelegram(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
