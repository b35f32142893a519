package entities

import "time"

type AnswerDocument struct {
	Content   string
	CreatedAt time.Time
}

type QuestionDocument struct {
	ID         int64
	Content    string
	Telegram   string
	IsAnswered bool
	CreatedAt  time.Time
	Answer     *AnswerDocument
}

type ArticleDocument struct {
	ID        int64
	Title     string
	Content   string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LessonDocument denormalizes the module hierarchy; lessons are found by
// module, topic and category names.
type LessonDocument struct {
	ID           int64
	MediaType    string
	IsIntro      bool
	Order        int
	Slug         string
	CreatedAt    time.Time
	ModuleName   string
	TopicName    string
	CategoryName string
}

type EventDocument struct {
	ID          int64
	Title       string
	Description string
	EventDate   *time.Time
	Location    string
	CreatedAt   time.Time
}

// Corpus is everything a full rebuild writes.
type Corpus struct {
	Questions []QuestionDocument
	Articles  []ArticleDocument
	Lessons   []LessonDocument
	Events    []EventDocument
}

func (c Corpus) Report() RebuildReport {
	return RebuildReport{
		Questions: len(c.Questions),
		Articles:  len(c.Articles),
		Lessons:   len(c.Lessons),
		Events:    len(c.Events),
	}
}
