package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"hanafiyah/contexts/community/question-service/application"
	"hanafiyah/contexts/community/question-service/domain/entities"
	"hanafiyah/contexts/community/question-service/ports"
	httptransport "hanafiyah/contexts/community/question-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// ListQuestionsHandler godoc
// @Summary List questions, newest first
// @Tags questions
// @Produce json
// @Param search query string false "Content contains"
// @Param is_answered query bool false "Filter by answered flag"
// @Param page query int false "Page number"
// @Success 200 {array} httptransport.QuestionListItemDTO
// @Router /api/questions [get]
func (h Handler) ListQuestionsHandler(ctx context.Context, filter ports.QuestionFilter) ([]httptransport.QuestionListItemDTO, int, error) {
	questions, total, err := h.Service.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return toListItems(questions), total, nil
}

// AnsweredQuestionsHandler godoc
// @Summary List answered questions
// @Tags questions
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {array} httptransport.QuestionListItemDTO
// @Router /api/questions/answered [get]
func (h Handler) AnsweredQuestionsHandler(ctx context.Context, page ports.Page) ([]httptransport.QuestionListItemDTO, int, error) {
	questions, total, err := h.Service.Answered(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	return toListItems(questions), total, nil
}

// GetQuestionHandler godoc
// @Summary Question with its answer
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} httptransport.QuestionDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/questions/{id} [get]
func (h Handler) GetQuestionHandler(ctx context.Context, questionID int64) (httptransport.QuestionDTO, error) {
	question, err := h.Service.Get(ctx, questionID)
	if err != nil {
		return httptransport.QuestionDTO{}, err
	}
	return toQuestionDTO(question), nil
}

// AskQuestionHandler godoc
// @Summary Ask the ustaz, or get answered questions that already cover it
// @Tags questions
// @Accept json
// @Produce json
// @Param request body httptransport.AskRequest true "Question"
// @Success 200 {object} httptransport.SimilarQuestionsResponse
// @Success 201 {object} httptransport.QuestionDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/questions [post]
func (h Handler) AskQuestionHandler(ctx context.Context, userID *int64, req httptransport.AskRequest) (httptransport.AskResponse, error) {
	result, err := h.Service.Ask(ctx, ports.AskInput{Content: req.Content, Telegram: req.Telegram, UserID: userID})
	if err != nil {
		return httptransport.AskResponse{}, err
	}
	if result.Question == nil {
		return httptransport.AskResponse{
			Similar: &httptransport.SimilarQuestionsResponse{SimilarQuestions: toListItems(result.Similar)},
		}, nil
	}
	created := toQuestionDTO(*result.Question)
	return httptransport.AskResponse{Created: &created}, nil
}

// SimilarQuestionsHandler godoc
// @Summary Answered questions containing this question's text
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {array} httptransport.QuestionListItemDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/questions/{id}/similar [get]
func (h Handler) SimilarQuestionsHandler(ctx context.Context, questionID int64) ([]httptransport.QuestionListItemDTO, error) {
	questions, err := h.Service.Similar(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return toListItems(questions), nil
}

// AnswerQuestionHandler godoc
// @Summary Answer a question
// @Tags questions-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body httptransport.AnswerRequest true "Answer"
// @Success 200 {object} httptransport.QuestionDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/questions/{id}/answer [post]
func (h Handler) AnswerQuestionHandler(ctx context.Context, questionID int64, req httptransport.AnswerRequest) (httptransport.QuestionDTO, error) {
	question, err := h.Service.Answer(ctx, questionID, req.Content)
	if err != nil {
		return httptransport.QuestionDTO{}, err
	}
	return toQuestionDTO(question), nil
}

func toQuestionDTO(question entities.Question) httptransport.QuestionDTO {
	dto := httptransport.QuestionDTO{
		ID:         question.ID,
		Content:    question.Content,
		Telegram:   question.Telegram,
		IsAnswered: question.IsAnswered,
		CreatedAt:  formatTime(question.CreatedAt),
	}
	if question.Answer != nil {
		dto.Answer = &httptransport.AnswerDTO{
			ID:        question.Answer.ID,
			Content:   question.Answer.Content,
			CreatedAt: formatTime(question.Answer.CreatedAt),
		}
	}
	return dto
}

func toListItems(questions []entities.Question) []httptransport.QuestionListItemDTO {
	items := make([]httptransport.QuestionListItemDTO, 0, len(questions))
	for _, question := range questions {
		items = append(items, httptransport.QuestionListItemDTO{
			ID:         question.ID,
			Content:    question.Content,
			CreatedAt:  formatTime(question.CreatedAt),
			IsAnswered: question.IsAnswered,
		})
	}
	return items
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339)
}
