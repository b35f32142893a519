package entities

import "time"

type Question struct {
	ID         int64
	UserID     *int64
	Content    string
	Telegram   string
	IsAnswered bool
	CreatedAt  time.Time
	Answer     *Answer
}

// Asker is the name shown for the question author: the account username
// when known, otherwise the Telegram handle.
func (q Question) Asker(username string) string {
	if q.UserID != nil && username != "" {
		return username
	}
	return q.Telegram
}

type Answer struct {
	ID                 int64
	QuestionID         int64
	Content            string
	CreatedAt          time.Time
	ConvertedToArticle bool
}

// AskResult holds either the created question or the answered questions
// that already cover it.
type AskResult struct {
	Question *Question
	Similar  []Question
}
