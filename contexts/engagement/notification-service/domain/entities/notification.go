package entities

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	TypeCommentReply   NotificationType = "comment_reply"
	TypeQuestionAnswer NotificationType = "question_answer"
	TypeNewComment     NotificationType = "new_comment"
	TypeNewQuestion    NotificationType = "new_question"
	TypeNewLesson      NotificationType = "new_lesson"
	TypeNewEvent       NotificationType = "new_event"
	TypeSystem         NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeCommentReply, TypeQuestionAnswer, TypeNewComment, TypeNewQuestion,
		TypeNewLesson, TypeNewEvent, TypeSystem:
		return true
	}
	return false
}

// ObjectRef points at the content a notification is about.
type ObjectRef struct {
	ContentType string
	ObjectID    int64
}

type Notification struct {
	ID             int64
	UserID         int64
	Title          string
	Message        string
	URL            string
	Type           NotificationType
	Object         *ObjectRef
	IsRead         bool
	SentToBrowser  bool
	SentToTelegram bool
	CreatedAt      time.Time
}

type PushSubscription struct {
	ID               int64
	UserID           int64
	SubscriptionInfo json.RawMessage
	Browser          string
	Device           string
	CreatedAt        time.Time
}

type Settings struct {
	UserID       int64
	PushEnabled  bool
	EmailEnabled bool
	Types        map[string]bool
}

// DefaultSettings is what a user gets before ever saving settings.
func DefaultSettings(userID int64) Settings {
	return Settings{
		UserID:      userID,
		PushEnabled: true,
		Types:       DefaultTypes(),
	}
}

func DefaultTypes() map[string]bool {
	return map[string]bool{
		string(TypeQuestionAnswer): true,
		string(TypeCommentReply):   true,
		string(TypeNewLesson):      true,
		string(TypeNewEvent):       true,
		string(TypeSystem):         true,
	}
}

// Recipient is the slice of an account that notification delivery needs.
type Recipient struct {
	UserID     int64
	Username   string
	Telegram   string
	TelegramID *int64
	IsStaff    bool
}
