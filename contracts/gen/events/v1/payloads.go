package v1

import "time"

const (
	EventLessonCreated       = "lesson.created"
	EventArticleCreated      = "article.created"
	EventArticleUpdated      = "article.updated"
	EventOfflineEventCreated = "offline_event.created"
	EventOfflineEventUpdated = "offline_event.updated"
	EventQuestionCreated     = "question.created"
	EventQuestionAnswered    = "question.answered"
)

// LessonPayload carries a lesson together with its hierarchy names so
// consumers never need to read lesson-service tables.
type LessonPayload struct {
	LessonID     int64     `json:"lesson_id"`
	Slug         string    `json:"slug"`
	MediaType    string    `json:"media_type"`
	IsIntro      bool      `json:"is_intro"`
	Order        int       `json:"order"`
	ModuleID     int64     `json:"module_id"`
	ModuleName   string    `json:"module_name"`
	ModuleSlug   string    `json:"module_slug"`
	TopicName    string    `json:"topic_name"`
	CategoryName string    `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ArticlePayload struct {
	ArticleID int64     `json:"article_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OfflineEventPayload struct {
	OfflineEventID int64      `json:"offline_event_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	EventDate      *time.Time `json:"event_date,omitempty"`
	Location       string     `json:"location"`
	CreatedAt      time.Time  `json:"created_at"`
}

type AnswerPayload struct {
	Content      string    `json:"content"`
	CleanContent string    `json:"clean_content,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// QuestionPayload carries the raw question plus its tag-free text, which is
// what notifications and bot messages quote.
type QuestionPayload struct {
	QuestionID   int64          `json:"question_id"`
	UserID       *int64         `json:"user_id,omitempty"`
	Content      string         `json:"content"`
	CleanContent string         `json:"clean_content"`
	Telegram     string         `json:"telegram"`
	IsAnswered   bool           `json:"is_answered"`
	CreatedAt    time.Time      `json:"created_at"`
	Answer       *AnswerPayload `json:"answer,omitempty"`
}
