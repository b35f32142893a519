package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"hanafiyah/contexts/learning/lesson-service/application"
	"hanafiyah/contexts/learning/lesson-service/domain/entities"
	"hanafiyah/contexts/learning/lesson-service/ports"
	httptransport "hanafiyah/contexts/learning/lesson-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// GetUstazProfileHandler godoc
// @Summary Public profile of the ustaz
// @Tags lessons
// @Produce json
// @Success 200 {object} httptransport.UstazProfileDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/ustaz-profile [get]
func (h Handler) GetUstazProfileHandler(ctx context.Context) (httptransport.UstazProfileDTO, error) {
	profile, err := h.Service.GetUstazProfile(ctx)
	if err != nil {
		return httptransport.UstazProfileDTO{}, err
	}
	return toProfileDTO(profile), nil
}

// UpsertUstazProfileHandler godoc
// @Summary Create or edit the ustaz profile
// @Tags lessons-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.UpsertProfileRequest true "Profile"
// @Success 200 {object} httptransport.UstazProfileDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/ustaz-profile [put]
func (h Handler) UpsertUstazProfileHandler(ctx context.Context, req httptransport.UpsertProfileRequest) (httptransport.UstazProfileDTO, error) {
	profile, err := h.Service.UpsertUstazProfile(ctx, ports.UpsertProfileInput{
		Name:         req.Name,
		Biography:    req.Biography,
		Achievements: req.Achievements,
	})
	if err != nil {
		return httptransport.UstazProfileDTO{}, err
	}
	return toProfileDTO(profile), nil
}

// AddGalleryPhotoHandler godoc
// @Summary Add a gallery photo to the ustaz profile
// @Tags lessons-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.AddPhotoRequest true "Photo"
// @Success 201 {object} httptransport.GalleryPhotoDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/ustaz-profile/photos [post]
func (h Handler) AddGalleryPhotoHandler(ctx context.Context, req httptransport.AddPhotoRequest) (httptransport.GalleryPhotoDTO, error) {
	photo, err := h.Service.AddGalleryPhoto(ctx, req.Image, req.Description)
	if err != nil {
		return httptransport.GalleryPhotoDTO{}, err
	}
	return httptransport.GalleryPhotoDTO{ID: photo.ID, Image: photo.Image, Description: photo.Description}, nil
}

// ListCategoriesHandler godoc
// @Summary List categories with nested topics, modules and lessons
// @Tags lessons
// @Produce json
// @Param search query string false "Name contains"
// @Param page query int false "Page number"
// @Success 200 {array} httptransport.CategoryDTO
// @Router /api/categories [get]
func (h Handler) ListCategoriesHandler(ctx context.Context, filter ports.CategoryFilter) ([]httptransport.CategoryDTO, int, error) {
	nodes, total, err := h.Service.ListCategories(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]httptransport.CategoryDTO, 0, len(nodes))
	for _, node := range nodes {
		items = append(items, toCategoryDTO(node))
	}
	return items, total, nil
}

// GetCategoryHandler godoc
// @Summary Category by slug
// @Tags lessons
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} httptransport.CategoryDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/categories/{slug} [get]
func (h Handler) GetCategoryHandler(ctx context.Context, slug string) (httptransport.CategoryDTO, error) {
	node, err := h.Service.GetCategory(ctx, slug)
	if err != nil {
		return httptransport.CategoryDTO{}, err
	}
	return toCategoryDTO(node), nil
}

// CreateCategoryHandler godoc
// @Summary Create a category
// @Tags lessons-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateCategoryRequest true "Category"
// @Success 201 {object} httptransport.CategoryDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/categories [post]
func (h Handler) CreateCategoryHandler(ctx context.Context, req httptransport.CreateCategoryRequest) (httptransport.CategoryDTO, error) {
	category, err := h.Service.CreateCategory(ctx, req.Name)
	if err != nil {
		return httptransport.CategoryDTO{}, err
	}
	return toCategoryDTO(entities.CategoryNode{Category: category}), nil
}

// ListTopicsHandler godoc
// @Summary List topics
// @Tags lessons
// @Produce json
// @Param category query int false "Category id"
// @Param search query string false "Name contains"
// @Param page query int false "Page number"
// @Success 200 {array} httptransport.TopicDTO
// @Router /api/topics [get]
func (h Handler) ListTopicsHandler(ctx context.Context, filter ports.TopicFilter) ([]httptransport.TopicDTO, int, error) {
	nodes, total, err := h.Service.ListTopics(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]httptransport.TopicDTO, 0, len(nodes))
	for _, node := range nodes {
		items = append(items, toTopicDTO(node))
	}
	return items, total, nil
}

// GetTopicHandler godoc
// @Summary Topic by slug
// @Tags lessons
// @Produce json
// @Param slug path string true "Topic slug"
// @Success 200 {object} httptransport.TopicDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/topics/{slug} [get]
func (h Handler) GetTopicHandler(ctx context.Context, slug string) (httptransport.TopicDTO, error) {
	node, err := h.Service.GetTopic(ctx, slug)
	if err != nil {
		return httptransport.TopicDTO{}, err
	}
	return toTopicDTO(node), nil
}

// CreateTopicHandler godoc
// @Summary Create a topic
// @Tags lessons-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateTopicRequest true "Topic"
// @Success 201 {object} httptransport.TopicDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/topics [post]
func (h Handler) CreateTopicHandler(ctx context.Context, req httptransport.CreateTopicRequest) (httptransport.TopicDTO, error) {
	topic, err := h.Service.CreateTopic(ctx, req.Category, req.Name)
	if err != nil {
		return httptransport.TopicDTO{}, err
	}
	return toTopicDTO(entities.TopicNode{Topic: topic}), nil
}

// ListModulesHandler godoc
// @Summary List modules
// @Tags lessons
// @Produce json
// @Param topic query int false "Topic id"
// @Param search query string false "Name contains"
// @Param page query int false "Page number"
// @Success 200 {array} httptransport.ModuleDTO
// @Router /api/modules [get]
func (h Handler) ListModulesHandler(ctx context.Context, filter ports.ModuleFilter) ([]httptransport.ModuleDTO, int, error) {
	nodes, total, err := h.Service.ListModules(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]httptransport.ModuleDTO, 0, len(nodes))
	for _, node := range nodes {
		items = append(items, toModuleDTO(node))
	}
	return items, total, nil
}

// GetModuleHandler godoc
// @Summary Module by slug
// @Tags lessons
// @Produce json
// @Param slug path string true "Module slug"
// @Success 200 {object} httptransport.ModuleDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/modules/{slug} [get]
func (h Handler) GetModuleHandler(ctx context.Context, slug string) (httptransport.ModuleDTO, error) {
	node, err := h.Service.GetModule(ctx, slug)
	if err != nil {
		return httptransport.ModuleDTO{}, err
	}
	return toModuleDTO(node), nil
}

// CreateModuleHandler godoc
// @Summary Create a module
// @Tags lessons-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateModuleRequest true "Module"
// @Success 201 {object} httptransport.ModuleDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/modules [post]
func (h Handler) CreateModuleHandler(ctx context.Context, req httptransport.CreateModuleRequest) (httptransport.ModuleDTO, error) {
	module, err := h.Service.CreateModule(ctx, req.Topic, req.Name, req.Order)
	if err != nil {
		return httptransport.ModuleDTO{}, err
	}
	return toModuleDTO(entities.ModuleNode{Module: module}), nil
}

// ReorderModulesHandler godoc
// @Summary Reorder modules
// @Tags lessons-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []httptransport.OrderItem true "New positions"
// @Success 200 {object} httptransport.StatusResponse
// @Router /api/modules/reorder [post]
func (h Handler) ReorderModulesHandler(ctx context.Context, req []httptransport.OrderItem) (httptransport.StatusResponse, error) {
	if err := h.Service.ReorderModules(ctx, toOrderUpdates(req)); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

// ListLessonsHandler godoc
// @Summary List lessons
// @Tags lessons
// @Produce json
// @Param module query int false "Module id"
// @Param media_type query string false "video or audio"
// @Param is_intro query bool false "Intro lessons only"
// @Param search query string false "Module name contains"
// @Param page query int false "Page number"
// @Success 200 {array} httptransport.LessonDTO
// @Router /api/lessons [get]
func (h Handler) ListLessonsHandler(ctx context.Context, filter ports.LessonFilter) ([]httptransport.LessonDTO, int, error) {
	nodes, total, err := h.Service.ListLessons(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]httptransport.LessonDTO, 0, len(nodes))
	for _, node := range nodes {
		items = append(items, toLessonDTO(node))
	}
	return items, total, nil
}

// GetLessonHandler godoc
// @Summary Lesson by slug
// @Tags lessons
// @Produce json
// @Param slug path string true "Lesson slug"
// @Success 200 {object} httptransport.LessonDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/lessons/{slug} [get]
func (h Handler) GetLessonHandler(ctx context.Context, slug string) (httptransport.LessonDTO, error) {
	node, err := h.Service.GetLesson(ctx, slug)
	if err != nil {
		return httptransport.LessonDTO{}, err
	}
	return toLessonDTO(node), nil
}

// CreateLessonHandler godoc
// @Summary Create a lesson
// @Tags lessons-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateLessonRequest true "Lesson"
// @Success 201 {object} httptransport.LessonDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/lessons [post]
func (h Handler) CreateLessonHandler(ctx context.Context, req httptransport.CreateLessonRequest) (httptransport.LessonDTO, error) {
	lesson, err := h.Service.CreateLesson(ctx, ports.CreateLessonInput{
		ModuleID:  req.Module,
		MediaType: req.MediaType,
		MediaFile: req.MediaFile,
		Thumbnail: req.Thumbnail,
		IsIntro:   req.IsIntro,
		Order:     req.Order,
	})
	if err != nil {
		return httptransport.LessonDTO{}, err
	}
	return toLessonDTO(entities.LessonNode{Lesson: lesson}), nil
}

// ReorderLessonsHandler godoc
// @Summary Reorder lessons
// @Tags lessons-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []httptransport.OrderItem true "New positions"
// @Success 200 {object} httptransport.StatusResponse
// @Router /api/lessons/reorder [post]
func (h Handler) ReorderLessonsHandler(ctx context.Context, req []httptransport.OrderItem) (httptransport.StatusResponse, error) {
	if err := h.Service.ReorderLessons(ctx, toOrderUpdates(req)); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

// AddCommentHandler godoc
// @Summary Comment on a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param slug path string true "Lesson slug"
// @Param request body httptransport.AddCommentRequest true "Comment"
// @Success 201 {object} httptransport.CommentDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/lessons/{slug}/add_comment [post]
func (h Handler) AddCommentHandler(ctx context.Context, slug string, req httptransport.AddCommentRequest) (httptransport.CommentDTO, error) {
	comment, err := h.Service.AddComment(ctx, slug, ports.AddCommentInput{Content: req.Content, Telegram: req.Telegram})
	if err != nil {
		return httptransport.CommentDTO{}, err
	}
	return toCommentDTO(comment), nil
}

// MarkHelpfulHandler godoc
// @Summary Mark a lesson comment as helpful
// @Tags lessons
// @Accept json
// @Produce json
// @Param slug path string true "Lesson slug"
// @Param request body httptransport.MarkHelpfulRequest true "Comment"
// @Success 200 {object} httptransport.StatusResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/lessons/{slug}/mark_helpful [post]
func (h Handler) MarkHelpfulHandler(ctx context.Context, slug string, req httptransport.MarkHelpfulRequest) (httptransport.StatusResponse, error) {
	if _, err := h.Service.MarkHelpful(ctx, slug, req.CommentID); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

// ApproveCommentsHandler godoc
// @Summary Approve lesson comments
// @Tags lessons-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.ApproveCommentsRequest true "Comment ids"
// @Success 200 {object} httptransport.ApproveCommentsResponse
// @Router /api/comments/approve [post]
func (h Handler) ApproveCommentsHandler(ctx context.Context, req httptransport.ApproveCommentsRequest) (httptransport.ApproveCommentsResponse, error) {
	approved, err := h.Service.ApproveComments(ctx, req.IDs)
	if err != nil {
		return httptransport.ApproveCommentsResponse{}, err
	}
	return httptransport.ApproveCommentsResponse{Approved: approved}, nil
}

// SaveProgressHandler godoc
// @Summary Save playback position for a device
// @Tags lessons
// @Accept json
// @Produce json
// @Param slug path string true "Lesson slug"
// @Param X-Device-Hash header string true "Device hash"
// @Param request body httptransport.SaveProgressRequest true "Position in seconds"
// @Success 200 {object} httptransport.StatusResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/lessons/{slug}/save_progress [post]
func (h Handler) SaveProgressHandler(ctx context.Context, slug string, deviceHash string, req httptransport.SaveProgressRequest) (httptransport.StatusResponse, error) {
	if _, err := h.Service.SaveProgress(ctx, slug, deviceHash, req.Timestamp); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

// GetProgressHandler godoc
// @Summary Playback position for a device
// @Tags lessons
// @Produce json
// @Param slug path string true "Lesson slug"
// @Param X-Device-Hash header string true "Device hash"
// @Success 200 {object} httptransport.ProgressResponse
// @Router /api/lessons/{slug}/get_progress [get]
func (h Handler) GetProgressHandler(ctx context.Context, slug string, deviceHash string) (httptransport.ProgressResponse, error) {
	progress, found, err := h.Service.GetProgress(ctx, slug, deviceHash)
	if err != nil {
		return httptransport.ProgressResponse{}, err
	}
	if !found {
		return httptransport.ProgressResponse{Timestamp: 0}, nil
	}
	lastViewed := formatTime(progress.LastViewed)
	return httptransport.ProgressResponse{Timestamp: progress.Timestamp, LastViewed: &lastViewed}, nil
}

func toProfileDTO(profile entities.UstazProfile) httptransport.UstazProfileDTO {
	photos := make([]httptransport.GalleryPhotoDTO, 0, len(profile.Photos))
	for _, photo := range profile.Photos {
		photos = append(photos, httptransport.GalleryPhotoDTO{ID: photo.ID, Image: photo.Image, Description: photo.Description})
	}
	return httptransport.UstazProfileDTO{
		Biography:    profile.Biography,
		Achievements: profile.Achievements,
		Photos:       photos,
	}
}

func toCategoryDTO(node entities.CategoryNode) httptransport.CategoryDTO {
	topics := make([]httptransport.TopicDTO, 0, len(node.Topics))
	for _, topic := range node.Topics {
		topics = append(topics, toTopicDTO(topic))
	}
	return httptransport.CategoryDTO{
		ID:     node.Category.ID,
		Name:   node.Category.Name,
		Slug:   node.Category.Slug,
		Topics: topics,
	}
}

func toTopicDTO(node entities.TopicNode) httptransport.TopicDTO {
	modules := make([]httptransport.ModuleDTO, 0, len(node.Modules))
	for _, module := range node.Modules {
		modules = append(modules, toModuleDTO(module))
	}
	return httptransport.TopicDTO{
		ID:       node.Topic.ID,
		Name:     node.Topic.Name,
		Category: node.Topic.CategoryID,
		Slug:     node.Topic.Slug,
		Modules:  modules,
	}
}

func toModuleDTO(node entities.ModuleNode) httptransport.ModuleDTO {
	lessons := make([]httptransport.LessonDTO, 0, len(node.Lessons))
	for _, lesson := range node.Lessons {
		lessons = append(lessons, toLessonDTO(lesson))
	}
	return httptransport.ModuleDTO{
		ID:      node.Module.ID,
		Name:    node.Module.Name,
		Topic:   node.Module.TopicID,
		Slug:    node.Module.Slug,
		Lessons: lessons,
	}
}

func toLessonDTO(node entities.LessonNode) httptransport.LessonDTO {
	comments := make([]httptransport.CommentDTO, 0, len(node.Comments))
	for _, comment := range node.Comments {
		comments = append(comments, toCommentDTO(comment))
	}
	lesson := node.Lesson
	return httptransport.LessonDTO{
		ID:        lesson.ID,
		Module:    lesson.ModuleID,
		MediaType: string(lesson.MediaType),
		MediaFile: lesson.MediaFile,
		IsIntro:   lesson.IsIntro,
		Order:     lesson.Order,
		CreatedAt: formatTime(lesson.CreatedAt),
		UpdatedAt: formatTime(lesson.UpdatedAt),
		Slug:      lesson.Slug,
		Comments:  comments,
	}
}

func toCommentDTO(comment entities.Comment) httptransport.CommentDTO {
	return httptransport.CommentDTO{
		ID:           comment.ID,
		Content:      comment.Content,
		Telegram:     comment.Telegram,
		HelpfulCount: comment.HelpfulCount,
		CreatedAt:    formatTime(comment.CreatedAt),
	}
}

func toOrderUpdates(items []httptransport.OrderItem) []entities.OrderUpdate {
	updates := make([]entities.OrderUpdate, 0, len(items))
	for _, item := range items {
		updates = append(updates, entities.OrderUpdate{ID: item.ID, Order: item.Order})
	}
	return updates
}

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339)
}
