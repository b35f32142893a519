package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"hanafiyah/contexts/learning/lesson-service/domain/entities"
	lessonerrors "hanafiyah/contexts/learning/lesson-service/domain/errors"
	lessonports "hanafiyah/contexts/learning/lesson-service/ports"
	lessonhttp "hanafiyah/contexts/learning/lesson-service/transport/http"
)

const deviceHashHeader = "X-Device-Hash"

func (s *Server) registerLessonRoutes() {
	s.mux.HandleFunc("GET /api/ustaz-profile", s.handleGetUstazProfile)
	s.mux.HandleFunc("PUT /api/ustaz-profile", s.handleUpsertUstazProfile)
	s.mux.HandleFunc("POST /api/ustaz-profile/photos", s.handleAddGalleryPhoto)

	s.mux.HandleFunc("GET /api/categories", s.handleListCategories)
	s.mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	s.mux.HandleFunc("GET /api/categories/{slug}", s.handleGetCategory)

	s.mux.HandleFunc("GET /api/topics", s.handleListTopics)
	s.mux.HandleFunc("POST /api/topics", s.handleCreateTopic)
	s.mux.HandleFunc("GET /api/topics/{slug}", s.handleGetTopic)

	s.mux.HandleFunc("GET /api/modules", s.handleListModules)
	s.mux.HandleFunc("POST /api/modules", s.handleCreateModule)
	s.mux.HandleFunc("POST /api/modules/reorder", s.handleReorderModules)
	s.mux.HandleFunc("GET /api/modules/{slug}", s.handleGetModule)

	s.mux.HandleFunc("GET /api/lessons", s.handleListLessons)
	s.mux.HandleFunc("POST /api/lessons", s.handleCreateLesson)
	s.mux.HandleFunc("POST /api/lessons/reorder", s.handleReorderLessons)
	s.mux.HandleFunc("GET /api/lessons/{slug}", s.handleGetLesson)
	s.mux.HandleFunc("POST /api/lessons/{slug}/add_comment", s.handleAddComment)
	s.mux.HandleFunc("POST /api/lessons/{slug}/mark_helpful", s.handleMarkHelpful)
	s.mux.HandleFunc("POST /api/lessons/{slug}/save_progress", s.handleSaveProgress)
	s.mux.HandleFunc("GET /api/lessons/{slug}/get_progress", s.handleGetProgress)

	s.mux.HandleFunc("POST /api/comments/approve", s.handleApproveComments)
}

func lessonPage(page pageRequest) lessonports.Page {
	return lessonports.Page{Offset: page.offset(), Limit: page.size}
}

func (s *Server) handleGetUstazProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lessons.Handler.GetUstazProfileHandler(r.Context())
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpsertUstazProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req lessonhttp.UpsertProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.UpsertUstazProfileHandler(r.Context(), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddGalleryPhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req lessonhttp.AddPhotoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.AddGalleryPhotoHandler(r.Context(), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromQuery(w, r)
	if !ok {
		return
	}
	items, total, err := s.lessons.Handler.ListCategoriesHandler(r.Context(), lessonports.CategoryFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Page:   lessonPage(page),
	})
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writePage(w, page, total, items)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lessons.Handler.GetCategoryHandler(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req lessonhttp.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.CreateCategoryHandler(r.Context(), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromQuery(w, r)
	if !ok {
		return
	}
	categoryID, ok := queryInt64(w, r, "category")
	if !ok {
		return
	}
	items, total, err := s.lessons.Handler.ListTopicsHandler(r.Context(), lessonports.TopicFilter{
		CategoryID: categoryID,
		Search:     strings.TrimSpace(r.URL.Query().Get("search")),
		Page:       lessonPage(page),
	})
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writePage(w, page, total, items)
}

func (s *Server) handleGetTopic(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lessons.Handler.GetTopicHandler(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req lessonhttp.CreateTopicRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.CreateTopicHandler(r.Context(), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromQuery(w, r)
	if !ok {
		return
	}
	topicID, ok := queryInt64(w, r, "topic")
	if !ok {
		return
	}
	items, total, err := s.lessons.Handler.ListModulesHandler(r.Context(), lessonports.ModuleFilter{
		TopicID: topicID,
		Search:  strings.TrimSpace(r.URL.Query().Get("search")),
		Page:    lessonPage(page),
	})
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writePage(w, page, total, items)
}

func (s *Server) handleGetModule(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lessons.Handler.GetModuleHandler(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateModule(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req lessonhttp.CreateModuleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.CreateModuleHandler(r.Context(), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReorderModules(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req []lessonhttp.OrderItem
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.ReorderModulesHandler(r.Context(), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pageFromQuery(w, r)
	if !ok {
		return
	}
	moduleID, ok := queryInt64(w, r, "module")
	if !ok {
		return
	}
	isIntro, ok := queryBool(w, r, "is_intro")
	if !ok {
		return
	}
	items, total, err := s.lessons.Handler.ListLessonsHandler(r.Context(), lessonports.LessonFilter{
		ModuleID:  moduleID,
		MediaType: entities.MediaType(strings.TrimSpace(r.URL.Query().Get("media_type"))),
		IsIntro:   isIntro,
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		Page:      lessonPage(page),
	})
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writePage(w, page, total, items)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lessons.Handler.GetLessonHandler(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req lessonhttp.CreateLessonRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.CreateLessonHandler(r.Context(), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReorderLessons(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req []lessonhttp.OrderItem
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.ReorderLessonsHandler(r.Context(), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req lessonhttp.AddCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.AddCommentHandler(r.Context(), r.PathValue("slug"), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleMarkHelpful(w http.ResponseWriter, r *http.Request) {
	var req lessonhttp.MarkHelpfulRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.MarkHelpfulHandler(r.Context(), r.PathValue("slug"), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	var req lessonhttp.ApproveCommentsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.ApproveCommentsHandler(r.Context(), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var req lessonhttp.SaveProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.lessons.Handler.SaveProgressHandler(r.Context(), r.PathValue("slug"), r.Header.Get(deviceHashHeader), req)
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lessons.Handler.GetProgressHandler(r.Context(), r.PathValue("slug"), r.Header.Get(deviceHashHeader))
	if err != nil {
		writeLessonDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLessonDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lessonerrors.ErrInvalidRequest),
		errors.Is(err, lessonerrors.ErrInvalidMediaType),
		errors.Is(err, lessonerrors.ErrInvalidProgress),
		errors.Is(err, lessonerrors.ErrIntroAlreadyExists):
		writeLessonError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, lessonerrors.ErrNotFound),
		errors.Is(err, lessonerrors.ErrProfileNotFound),
		errors.Is(err, lessonerrors.ErrCategoryNotFound),
		errors.Is(err, lessonerrors.ErrTopicNotFound),
		errors.Is(err, lessonerrors.ErrModuleNotFound),
		errors.Is(err, lessonerrors.ErrLessonNotFound),
		errors.Is(err, lessonerrors.ErrCommentNotFound):
		writeLessonError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, lessonerrors.ErrLessonOrderConflict),
		errors.Is(err, lessonerrors.ErrSlugConflict):
		writeLessonError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeLessonError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLessonError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, lessonhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
