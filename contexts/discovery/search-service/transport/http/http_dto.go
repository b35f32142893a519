package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AdditionalInfoDTO holds the kind-specific extras of a hit; only the keys
// of the hit's kind are set.
type AdditionalInfoDTO struct {
	IsAnswered *bool   `json:"is_answered,omitempty"`
	Telegram   string  `json:"telegram,omitempty"`
	Topic      string  `json:"topic,omitempty"`
	Category   string  `json:"category,omitempty"`
	EventDate  *string `json:"event_date,omitempty"`
	Location   string  `json:"location,omitempty"`
}

type SearchResultDTO struct {
	ID             int64              `json:"id"`
	Type           string             `json:"type"`
	Title          string             `json:"title,omitempty"`
	Content        string             `json:"content,omitempty"`
	Slug           string             `json:"slug,omitempty"`
	URL            string             `json:"url"`
	CreatedAt      string             `json:"created_at"`
	Highlight      string             `json:"highlight"`
	AdditionalInfo *AdditionalInfoDTO `json:"additional_info,omitempty"`
}

type SearchResponse struct {
	Results []SearchResultDTO `json:"results"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	Size    int               `json:"size"`
}

type SuggestionDTO struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	URL        string  `json:"url"`
	IsAnswered *bool   `json:"is_answered,omitempty"`
	Score      float64 `json:"score"`
}

type CompletionDTO struct {
	Text      string `json:"text"`
	Highlight string `json:"highlight"`
}

type SimilarQuestionDTO struct {
	ID              int64   `json:"id"`
	Content         string  `json:"content"`
	CreatedAt       string  `json:"created_at"`
	IsAnswered      bool    `json:"is_answered"`
	SimilarityScore float64 `json:"similarity_score"`
}

type SimilarQuestionsResponse struct {
	SimilarQuestions []SimilarQuestionDTO `json:"similar_questions"`
}
