package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"hanafiyah/contexts/discovery/search-service/application"
	"hanafiyah/contexts/discovery/search-service/domain/entities"
	httptransport "hanafiyah/contexts/discovery/search-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// SearchHandler godoc
// @Summary Full-text search across questions, articles, lessons and events
// @Tags search
// @Produce json
// @Param q query string true "Search text"
// @Param type query string false "all, questions, articles, lessons or events" default(all)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Results per kind" default(10)
// @Success 200 {object} httptransport.SearchResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /api/search [get]
func (h Handler) SearchHandler(ctx context.Context, text, scope string, page, size int) (httptransport.SearchResponse, error) {
	result, err := h.Service.Search(ctx, entities.Query{Text: text, Scope: entities.Scope(scope), Page: page, Size: size})
	if err != nil {
		return httptransport.SearchResponse{}, err
	}
	items := make([]httptransport.SearchResultDTO, 0, len(result.Results))
	for _, item := range result.Results {
		items = append(items, toResultDTO(item))
	}
	return httptransport.SearchResponse{Results: items, Total: result.Total, Page: result.Page, Size: result.Size}, nil
}

// SuggestionsHandler godoc
// @Summary Suggestions for partial input
// @Tags search
// @Produce json
// @Param q query string true "Partial input"
// @Param limit query int false "Maximum suggestions" default(5)
// @Success 200 {array} httptransport.SuggestionDTO
// @Router /api/search/suggestions [get]
func (h Handler) SuggestionsHandler(ctx context.Context, text string, limit int) ([]httptransport.SuggestionDTO, error) {
	suggestions, err := h.Service.Suggestions(ctx, text, limit)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.SuggestionDTO, 0, len(suggestions))
	for _, suggestion := range suggestions {
		items = append(items, httptransport.SuggestionDTO{
			Text:       suggestion.Text,
			Type:       string(suggestion.Kind),
			URL:        suggestion.URL,
			IsAnswered: suggestion.IsAnswered,
			Score:      suggestion.Score,
		})
	}
	return items, nil
}

// AutocompleteHandler godoc
// @Summary Complete the phrase being typed
// @Tags search
// @Produce json
// @Param q query string true "Partial input"
// @Success 200 {array} httptransport.CompletionDTO
// @Router /api/search/autocomplete [get]
func (h Handler) AutocompleteHandler(ctx context.Context, prefix string) ([]httptransport.CompletionDTO, error) {
	completions, err := h.Service.Autocomplete(ctx, prefix)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.CompletionDTO, 0, len(completions))
	for _, completion := range completions {
		items = append(items, httptransport.CompletionDTO{Text: completion.Text, Highlight: completion.Highlight})
	}
	return items, nil
}

// SimilarQuestionsHandler godoc
// @Summary Answered questions similar to a question being typed
// @Tags search
// @Produce json
// @Param text query string true "Question text"
// @Param limit query int false "Maximum questions" default(3)
// @Success 200 {object} httptransport.SimilarQuestionsResponse
// @Router /api/search/similar-questions [get]
func (h Handler) SimilarQuestionsHandler(ctx context.Context, text string, limit int) (httptransport.SimilarQuestionsResponse, error) {
	similar, err := h.Service.SimilarQuestions(ctx, text, limit)
	if err != nil {
		return httptransport.SimilarQuestionsResponse{}, err
	}
	items := make([]httptransport.SimilarQuestionDTO, 0, len(similar))
	for _, question := range similar {
		items = append(items, httptransport.SimilarQuestionDTO{
			ID:              question.ID,
			Content:         question.Content,
			CreatedAt:       question.CreatedAt.UTC().Format(time.RFC3339),
			IsAnswered:      question.IsAnswered,
			SimilarityScore: question.Score,
		})
	}
	return httptransport.SimilarQuestionsResponse{SimilarQuestions: items}, nil
}

func toResultDTO(result entities.Result) httptransport.SearchResultDTO {
	dto := httptransport.SearchResultDTO{
		ID:        result.ID,
		Type:      string(result.Kind),
		Title:     result.Title,
		Content:   result.Content,
		Slug:      result.Slug,
		URL:       result.URL,
		Highlight: result.Highlight,
	}
	if !result.CreatedAt.IsZero() {
		dto.CreatedAt = result.CreatedAt.UTC().Format(time.RFC3339)
	}
	if info := result.Info; info != nil {
		extra := &httptransport.AdditionalInfoDTO{
			IsAnswered: info.IsAnswered,
			Telegram:   info.Telegram,
			Topic:      info.Topic,
			Category:   info.Category,
			Location:   info.Location,
		}
		if info.EventDate != nil {
			formatted := info.EventDate.UTC().Format(time.RFC3339)
			extra.EventDate = &formatted
		}
		dto.AdditionalInfo = extra
	}
	return dto
}
