package httpserver

import (
	"errors"
	"net/http"

	searcherrors "hanafiyah/contexts/discovery/search-service/domain/errors"
	"hanafiyah/contexts/discovery/search-service/domain/services"
	searchhttp "hanafiyah/contexts/discovery/search-service/transport/http"
)

func (s *Server) registerSearchRoutes() {
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/search/suggestions", s.handleSearchSuggestions)
	s.mux.HandleFunc("GET /api/search/autocomplete", s.handleAutocomplete)
	s.mux.HandleFunc("GET /api/search/similar-questions", s.handleSimilarQuestionsByText)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, ok := queryInt(w, r, "page", 1)
	if !ok {
		return
	}
	size, ok := queryInt(w, r, "size", services.DefaultPageSize)
	if !ok {
		return
	}
	resp, err := s.search.Handler.SearchHandler(r.Context(), query.Get("q"), query.Get("type"), page, size)
	if err != nil {
		writeSearchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearchSuggestions(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", services.DefaultSuggestLimit)
	if !ok {
		return
	}
	resp, err := s.search.Handler.SuggestionsHandler(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeSearchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	resp, err := s.search.Handler.AutocompleteHandler(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeSearchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSimilarQuestionsByText(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", services.DefaultSimilarLimit)
	if !ok {
		return
	}
	resp, err := s.search.Handler.SimilarQuestionsHandler(r.Context(), r.URL.Query().Get("text"), limit)
	if err != nil {
		writeSearchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSearchDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, searcherrors.ErrQueryRequired),
		errors.Is(err, searcherrors.ErrInvalidScope):
		writeSearchError(w, http.StatusBadRequest, "invalid_query", err.Error())
	case errors.Is(err, searcherrors.ErrEngineUnavailable):
		writeSearchError(w, http.StatusServiceUnavailable, "search_unavailable", searcherrors.ErrEngineUnavailable.Error())
	default:
		writeSearchError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSearchError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, searchhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
