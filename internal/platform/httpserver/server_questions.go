package httpserver

import (
	"errors"
	"net/http"
	"strings"

	questionerrors "hanafiyah/contexts/community/question-service/domain/errors"
	questionports "hanafiyah/contexts/community/question-service/ports"
	questionhttp "hanafiyah/contexts/community/question-service/transport/http"
)

func (s *Server) registerQuestionRoutes() {
	s.mux.HandleFunc("GET /api/questions", s.handleListQuestions)
	s.mux.HandleFunc("POST /api/questions", s.handleAskQuestion)
	s.mux.HandleFunc("GET /api/questions/answered", s.handleAnsweredQuestions)
	s.mux.HandleFunc("GET /api/questions/{id}", s.handleGetQuestion)
	s.mux.HandleFunc("GET /api/questions/{id}/similar", s.handleSimilarQuestionsByID)
	s.mux.HandleFunc("POST /api/questions/{id}/answer", s.handleAnswerQuestion)
}

// handleListQuestions narrows to the caller's own questions when mine=true.
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromQuery(w, r)
	if !ok {
		return
	}
	isAnswered, ok := queryBool(w, r, "is_answered")
	if !ok {
		return
	}
	mine, ok := queryBool(w, r, "mine")
	if !ok {
		return
	}
	filter := questionports.QuestionFilter{
		IsAnswered: isAnswered,
		Search:     strings.TrimSpace(r.URL.Query().Get("search")),
		Page:       questionports.Page{Offset: page.offset(), Limit: page.size},
	}
	if mine != nil && *mine {
		principal, ok := requireUser(w, r)
		if !ok {
			return
		}
		filter.UserID = &principal.UserID
	}
	items, total, err := s.questions.Handler.ListQuestionsHandler(r.Context(), filter)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writePage(w, page, total, items)
}

func (s *Server) handleAnsweredQuestions(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromQuery(w, r)
	if !ok {
		return
	}
	items, total, err := s.questions.Handler.AnsweredQuestionsHandler(r.Context(), questionports.Page{
		Offset: page.offset(),
		Limit:  page.size,
	})
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writePage(w, page, total, items)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resp, err := s.questions.Handler.GetQuestionHandler(r.Context(), questionID)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAskQuestion answers 200 with similar answered questions instead of
// creating a duplicate, and 201 with the stored question otherwise.
func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionhttp.AskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var userID *int64
	if principal, ok := principalFrom(r.Context()); ok {
		userID = &principal.UserID
	}
	resp, err := s.questions.Handler.AskQuestionHandler(r.Context(), userID, req)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	if resp.Similar != nil {
		writeJSON(w, http.StatusOK, resp.Similar)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Created)
}

func (s *Server) handleSimilarQuestionsByID(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resp, err := s.questions.Handler.SimilarQuestionsHandler(r.Context(), questionID)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnswerQuestion(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUstaz(w, r); !ok {
		return
	}
	questionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req questionhttp.AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.questions.Handler.AnswerQuestionHandler(r.Context(), questionID, req)
	if err != nil {
		writeQuestionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeQuestionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, questionerrors.ErrInvalidRequest),
		errors.Is(err, questionerrors.ErrEmptyAnswer):
		writeQuestionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, questionerrors.ErrQuestionNotFound):
		writeQuestionError(w, http.StatusNotFound, "question_not_found", err.Error())
	default:
		writeQuestionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeQuestionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, questionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
