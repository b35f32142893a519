package httpserver

import (
	"errors"
	"net/http"
	"strings"

	articleerrors "hanafiyah/contexts/publishing/article-service/domain/errors"
	articleports "hanafiyah/contexts/publishing/article-service/ports"
	articlehttp "hanafiyah/contexts/publishing/article-service/transport/http"
	eventerrors "hanafiyah/contexts/publishing/event-service/domain/errors"
	eventports "hanafiyah/contexts/publishing/event-service/ports"
	eventhttp "hanafiyah/contexts/publishing/event-service/transport/http"
)

func (s *Server) registerArticleRoutes() {
	s.mux.HandleFunc("GET /api/articles", s.handleListArticles)
	s.mux.HandleFunc("POST /api/articles", s.handleCreateArticle)
	s.mux.HandleFunc("GET /api/articles/latest", s.handleLatestArticles)
	s.mux.HandleFunc("GET /api/articles/{slug}", s.handleGetArticle)
	s.mux.HandleFunc("PATCH /api/articles/{slug}", s.handleUpdateArticle)
	s.mux.HandleFunc("GET /api/articles/{slug}/similar", s.handleSimilarArticles)
}

func (s *Server) registerEventRoutes() {
	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	s.mux.HandleFunc("GET /api/events/upcoming", s.handleUpcomingEvents)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("PATCH /api/events/{id}", s.handleUpdateEvent)
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromQuery(w, r)
	if !ok {
		return
	}
	items, total, err := s.articles.Handler.ListArticlesHandler(r.Context(), articleports.ArticleFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Page:   articleports.Page{Offset: page.offset(), Limit: page.size},
	})
	if err != nil {
		writeArticleDomainError(w, err)
		return
	}
	writePage(w, page, total, items)
}

func (s *Server) handleLatestArticles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.articles.Handler.LatestArticlesHandler(r.Context())
	if err != nil {
		writeArticleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	resp, err := s.articles.Handler.GetArticleHandler(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeArticleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSimilarArticles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.articles.Handler.SimilarArticlesHandler(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeArticleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req articlehttp.CreateArticleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.articles.Handler.CreateArticleHandler(r.Context(), req)
	if err != nil {
		writeArticleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req articlehttp.UpdateArticleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.articles.Handler.UpdateArticleHandler(r.Context(), r.PathValue("slug"), req)
	if err != nil {
		writeArticleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeArticleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, articleerrors.ErrInvalidRequest),
		errors.Is(err, articleerrors.ErrEmptyDocument):
		writeArticleError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, articleerrors.ErrArticleNotFound):
		writeArticleError(w, http.StatusNotFound, "article_not_found", err.Error())
	case errors.Is(err, articleerrors.ErrSlugConflict):
		writeArticleError(w, http.StatusConflict, "slug_conflict", err.Error())
	default:
		writeArticleError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeArticleError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, articlehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromQuery(w, r)
	if !ok {
		return
	}
	items, total, err := s.events.Handler.ListEventsHandler(
		r.Context(),
		strings.TrimSpace(r.URL.Query().Get("search")),
		eventports.Page{Offset: page.offset(), Limit: page.size},
	)
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writePage(w, page, total, items)
}

func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	resp, err := s.events.Handler.UpcomingEventsHandler(r.Context())
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	resp, err := s.events.Handler.GetEventHandler(r.Context(), eventID)
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req eventhttp.EventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.events.Handler.CreateEventHandler(r.Context(), req)
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req eventhttp.EventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.events.Handler.UpdateEventHandler(r.Context(), eventID, req)
	if err != nil {
		writeEventDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeEventDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, eventerrors.ErrInvalidRequest):
		writeEventError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, eventerrors.ErrEventNotFound):
		writeEventError(w, http.StatusNotFound, "event_not_found", err.Error())
	default:
		writeEventError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeEventError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, eventhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
