package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	questionservice "hanafiyah/contexts/community/question-service"
	searchservice "hanafiyah/contexts/discovery/search-service"
	notificationservice "hanafiyah/contexts/engagement/notification-service"
	accountservice "hanafiyah/contexts/identity-access/account-service"
	accountports "hanafiyah/contexts/identity-access/account-service/ports"
	lessonservice "hanafiyah/contexts/learning/lesson-service"
	articleservice "hanafiyah/contexts/publishing/article-service"
	eventservice "hanafiyah/contexts/publishing/event-service"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "hanafiyah/internal/platform/httpserver/docs"
)

const defaultPageSize = 10

// Modules are the contexts served over HTTP.
type Modules struct {
	Accounts      accountservice.Module
	Lessons       lessonservice.Module
	Articles      articleservice.Module
	Events        eventservice.Module
	Questions     questionservice.Module
	Notifications notificationservice.Module
	Search        searchservice.Module
}

type Options struct {
	Addr           string
	PageSize       int
	AllowedOrigins []string
}

type Server struct {
	mux      *http.ServeMux
	handler  http.Handler
	logger   *slog.Logger
	addr     string
	pageSize int

	accounts      accountservice.Module
	lessons       lessonservice.Module
	articles      articleservice.Module
	events        eventservice.Module
	questions     questionservice.Module
	notifications notificationservice.Module
	search        searchservice.Module
}

func New(modules Modules, options Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Addr == "" {
		options.Addr = ":8000"
	}
	if options.PageSize <= 0 {
		options.PageSize = defaultPageSize
	}
	if len(options.AllowedOrigins) == 0 {
		options.AllowedOrigins = []string{"http://localhost:3000"}
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          options.Addr,
		pageSize:      options.PageSize,
		accounts:      modules.Accounts,
		lessons:       modules.Lessons,
		articles:      modules.Articles,
		events:        modules.Events,
		questions:     modules.Questions,
		notifications: modules.Notifications,
		search:        modules.Search,
	}
	s.registerRoutes()
	s.handler = s.middleware(options.AllowedOrigins)(s.mux)
	return s
}

// Handler is the mux wrapped in the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting",
			"event", "http_server_starting",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"addr", s.addr,
		)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server stopping",
			"event", "http_server_stopping",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) middleware(allowedOrigins []string) func(http.Handler) http.Handler {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Device-Hash", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return func(next http.Handler) http.Handler {
		chain := s.withPrincipal(next)
		chain = s.accessLog(chain)
		chain = middleware.StripSlashes(chain)
		chain = middleware.Recoverer(chain)
		chain = middleware.RealIP(chain)
		chain = middleware.RequestID(chain)
		return corsHandler(chain)
	}
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request served",
			"event", "http_request_served",
			"module", "internal/platform/httpserver",
			"layer", "transport",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerAccountRoutes()
	s.registerLessonRoutes()
	s.registerArticleRoutes()
	s.registerEventRoutes()
	s.registerQuestionRoutes()
	s.registerNotificationRoutes()
	s.registerSearchRoutes()
}

type principalKey struct{}

// withPrincipal authenticates a bearer token when one is sent. A bad token
// fails the request even on public endpoints.
func (s *Server) withPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || strings.HasPrefix(r.URL.Path, "/swagger/") {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "not_authenticated", "authorization header must use the Bearer scheme")
			return
		}
		principal, err := s.accounts.Service.Authenticate(r.Context(), strings.TrimSpace(token))
		if err != nil {
			writeAccountDomainError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, principal)))
	})
}

func principalFrom(ctx context.Context) (accountports.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(accountports.Principal)
	return principal, ok
}

func requireUser(w http.ResponseWriter, r *http.Request) (accountports.Principal, bool) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not_authenticated", "authentication credentials were not provided")
		return accountports.Principal{}, false
	}
	return principal, true
}

func requireStaff(w http.ResponseWriter, r *http.Request) (accountports.Principal, bool) {
	principal, ok := requireUser(w, r)
	if !ok {
		return principal, false
	}
	if !principal.IsStaff {
		writeError(w, http.StatusForbidden, "permission_denied", "staff permission required")
		return accountports.Principal{}, false
	}
	return principal, true
}

func requireUstaz(w http.ResponseWriter, r *http.Request) (accountports.Principal, bool) {
	principal, ok := requireUser(w, r)
	if !ok {
		return principal, false
	}
	if !principal.IsStaff && !principal.IsUstaz {
		writeError(w, http.StatusForbidden, "permission_denied", "ustaz permission required")
		return accountports.Principal{}, false
	}
	return principal, true
}

// pageRequest is a 1-based page of the configured size.
type pageRequest struct {
	number int
	size   int
}

func (p pageRequest) offset() int {
	return (p.number - 1) * p.size
}

func (s *Server) pageFromQuery(w http.ResponseWriter, r *http.Request) (pageRequest, bool) {
	page := pageRequest{number: 1, size: s.pageSize}
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return page, true
	}
	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		writeError(w, http.StatusNotFound, "invalid_page", "Invalid page.")
		return pageRequest{}, false
	}
	page.number = number
	return page, true
}

type pageEnvelope struct {
	Count    int  `json:"count"`
	Next     *int `json:"next"`
	Previous *int `json:"previous"`
	Results  any  `json:"results"`
}

// writePage answers 404 for a page past the end. The first page always
// exists, even for an empty list.
func writePage(w http.ResponseWriter, page pageRequest, total int, results any) {
	if page.number > 1 && page.offset() >= total {
		writeError(w, http.StatusNotFound, "invalid_page", "Invalid page.")
		return
	}
	envelope := pageEnvelope{Count: total, Results: results}
	if page.number*page.size < total {
		next := page.number + 1
		envelope.Next = &next
	}
	if page.number > 1 {
		previous := page.number - 1
		envelope.Previous = &previous
	}
	writeJSON(w, http.StatusOK, envelope)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "not_found", "Not found.")
		return 0, false
	}
	return id, true
}

func queryInt64(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be an integer")
		return nil, false
	}
	return &value, true
}

func queryBool(w http.ResponseWriter, r *http.Request, name string) (*bool, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be true or false")
		return nil, false
	}
	return &value, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be an integer")
		return 0, false
	}
	return value, true
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
