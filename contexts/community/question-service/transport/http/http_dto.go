package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QuestionListItemDTO is the list and similar-question shape.
type QuestionListItemDTO struct {
	ID         int64  `json:"id"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
	IsAnswered bool   `json:"is_answered"`
}

type AnswerDTO struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type QuestionDTO struct {
	ID         int64      `json:"id"`
	Content    string     `json:"content"`
	Telegram   string     `json:"telegram"`
	IsAnswered bool       `json:"is_answered"`
	CreatedAt  string     `json:"created_at"`
	Answer     *AnswerDTO `json:"answer"`
}

type SimilarQuestionsResponse struct {
	SimilarQuestions []QuestionListItemDTO `json:"similar_questions"`
}

// AskResponse is either a created question (201) or the answered questions
// that already cover it (200).
type AskResponse struct {
	Created *QuestionDTO
	Similar *SimilarQuestionsResponse
}

type AskRequest struct {
	Content  string `json:"content"`
	Telegram string `json:"telegram"`
}

type AnswerRequest struct {
	Content string `json:"content"`
}
