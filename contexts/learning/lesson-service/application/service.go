package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"hanafiyah/contexts/learning/lesson-service/domain/entities"
	domainerrors "hanafiyah/contexts/learning/lesson-service/domain/errors"
	"hanafiyah/contexts/learning/lesson-service/domain/services"
	"hanafiyah/contexts/learning/lesson-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

const (
	sourceService   = "lesson-service"
	maxSlugAttempts = 1000
)

type Service struct {
	Profiles ports.ProfileRepository
	Catalog  ports.CatalogRepository
	Lessons  ports.LessonRepository
	Comments ports.CommentRepository
	Progress ports.ProgressRepository
	Slugger  ports.Slugger
	Suffixes ports.SuffixGenerator
	Clock    ports.Clock
	IDs      ports.IDGenerator
	Logger   *slog.Logger
}

func (s Service) GetUstazProfile(ctx context.Context) (entities.UstazProfile, error) {
	return s.Profiles.GetUstazProfile(ctx)
}

// UpsertUstazProfile edits the single public profile, creating it on first use.
func (s Service) UpsertUstazProfile(ctx context.Context, input ports.UpsertProfileInput) (entities.UstazProfile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return entities.UstazProfile{}, domainerrors.ErrInvalidRequest
	}
	profile, err := s.Profiles.GetUstazProfile(ctx)
	if err != nil && !errors.Is(err, domainerrors.ErrProfileNotFound) {
		return entities.UstazProfile{}, err
	}
	profile.Name = name
	profile.Biography = input.Biography
	profile.Achievements = input.Achievements
	return s.Profiles.SaveUstazProfile(ctx, profile)
}

func (s Service) AddGalleryPhoto(ctx context.Context, image string, description string) (entities.GalleryPhoto, error) {
	if strings.TrimSpace(image) == "" {
		return entities.GalleryPhoto{}, domainerrors.ErrInvalidRequest
	}
	profile, err := s.Profiles.GetUstazProfile(ctx)
	if err != nil {
		return entities.GalleryPhoto{}, err
	}
	return s.Profiles.AddGalleryPhoto(ctx, entities.GalleryPhoto{
		ProfileID:   profile.ID,
		Image:       strings.TrimSpace(image),
		Description: description,
	})
}

func (s Service) ListCategories(ctx context.Context, filter ports.CategoryFilter) ([]entities.CategoryNode, int, error) {
	categories, total, err := s.Catalog.ListCategories(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	nodes, err := s.categoryNodes(ctx, categories)
	return nodes, total, err
}

func (s Service) GetCategory(ctx context.Context, slug string) (entities.CategoryNode, error) {
	category, err := s.Catalog.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return entities.CategoryNode{}, err
	}
	nodes, err := s.categoryNodes(ctx, []entities.Category{category})
	if err != nil {
		return entities.CategoryNode{}, err
	}
	return nodes[0], nil
}

func (s Service) ListTopics(ctx context.Context, filter ports.TopicFilter) ([]entities.TopicNode, int, error) {
	topics, total, err := s.Catalog.ListTopics(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	nodes, err := s.topicNodes(ctx, topics)
	return nodes, total, err
}

func (s Service) GetTopic(ctx context.Context, slug string) (entities.TopicNode, error) {
	topic, err := s.Catalog.GetTopicBySlug(ctx, slug)
	if err != nil {
		return entities.TopicNode{}, err
	}
	nodes, err := s.topicNodes(ctx, []entities.Topic{topic})
	if err != nil {
		return entities.TopicNode{}, err
	}
	return nodes[0], nil
}

func (s Service) ListModules(ctx context.Context, filter ports.ModuleFilter) ([]entities.ModuleNode, int, error) {
	modules, total, err := s.Catalog.ListModules(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	nodes, err := s.moduleNodes(ctx, modules)
	return nodes, total, err
}

func (s Service) GetModule(ctx context.Context, slug string) (entities.ModuleNode, error) {
	module, err := s.Catalog.GetModuleBySlug(ctx, slug)
	if err != nil {
		return entities.ModuleNode{}, err
	}
	nodes, err := s.moduleNodes(ctx, []entities.Module{module})
	if err != nil {
		return entities.ModuleNode{}, err
	}
	return nodes[0], nil
}

func (s Service) ListLessons(ctx context.Context, filter ports.LessonFilter) ([]entities.LessonNode, int, error) {
	if filter.MediaType != "" && !filter.MediaType.Valid() {
		return nil, 0, domainerrors.ErrInvalidMediaType
	}
	lessons, total, err := s.Lessons.ListLessons(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	nodes, err := s.lessonNodes(ctx, lessons)
	return nodes, total, err
}

func (s Service) GetLesson(ctx context.Context, slug string) (entities.LessonNode, error) {
	lesson, err := s.Lessons.GetLessonBySlug(ctx, slug)
	if err != nil {
		return entities.LessonNode{}, err
	}
	nodes, err := s.lessonNodes(ctx, []entities.Lesson{lesson})
	if err != nil {
		return entities.LessonNode{}, err
	}
	return nodes[0], nil
}

func (s Service) CreateCategory(ctx context.Context, name string) (entities.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.Category{}, domainerrors.ErrInvalidRequest
	}
	base := services.CategoryBaseSlug(s.Slugger.Make(name))
	slug, err := s.uniqueSlug(ctx, ports.SlugCategory, base, func(counter int) string {
		return services.CategoryCollisionSlug(base, counter, s.Suffixes.RandomSuffix(4))
	})
	if err != nil {
		return entities.Category{}, err
	}
	return s.Catalog.CreateCategory(ctx, entities.Category{Name: name, Slug: slug})
}

func (s Service) CreateTopic(ctx context.Context, categoryID int64, name string) (entities.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" || categoryID <= 0 {
		return entities.Topic{}, domainerrors.ErrInvalidRequest
	}
	if _, err := s.Catalog.GetCategory(ctx, categoryID); err != nil {
		return entities.Topic{}, err
	}
	base := s.Slugger.Make(name)
	if base == "" {
		base = "topic"
	}
	slug, err := s.uniqueSlug(ctx, ports.SlugTopic, base, func(counter int) string {
		return services.CounterSlug(base, counter)
	})
	if err != nil {
		return entities.Topic{}, err
	}
	return s.Catalog.CreateTopic(ctx, entities.Topic{Name: name, CategoryID: categoryID, Slug: slug})
}

func (s Service) CreateModule(ctx context.Context, topicID int64, name string, order int) (entities.Module, error) {
	name = strings.TrimSpace(name)
	if name == "" || topicID <= 0 || order < 0 {
		return entities.Module{}, domainerrors.ErrInvalidRequest
	}
	topic, err := s.Catalog.GetTopic(ctx, topicID)
	if err != nil {
		return entities.Module{}, err
	}
	base := services.ModuleBaseSlug(topic.Slug, s.Slugger.Make(name))
	slug, err := s.uniqueSlug(ctx, ports.SlugModule, base, func(counter int) string {
		return services.CounterSlug(base, counter)
	})
	if err != nil {
		return entities.Module{}, err
	}
	return s.Catalog.CreateModule(ctx, entities.Module{Name: name, TopicID: topicID, Slug: slug, Order: order})
}

// CreateLesson places the lesson inside its module, persists it and queues
// lesson.created in the same write.
func (s Service) CreateLesson(ctx context.Context, input ports.CreateLessonInput) (entities.Lesson, error) {
	module, err := s.Catalog.GetModule(ctx, input.ModuleID)
	if err != nil {
		return entities.Lesson{}, err
	}
	hasIntro, err := s.Lessons.ModuleHasIntro(ctx, module.ID)
	if err != nil {
		return entities.Lesson{}, err
	}
	maxOrder, err := s.Lessons.MaxLessonOrder(ctx, module.ID)
	if err != nil {
		return entities.Lesson{}, err
	}
	order, err := services.ResolveLessonOrder(input.IsIntro, input.Order, hasIntro, maxOrder)
	if err != nil {
		return entities.Lesson{}, err
	}

	now := s.Clock.Now().UTC()
	lesson := entities.Lesson{
		ModuleID:  module.ID,
		MediaType: entities.MediaType(strings.ToLower(strings.TrimSpace(input.MediaType))),
		MediaFile: strings.TrimSpace(input.MediaFile),
		Thumbnail: strings.TrimSpace(input.Thumbnail),
		IsIntro:   input.IsIntro,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := services.ValidateLesson(lesson); err != nil {
		return entities.Lesson{}, err
	}
	base := services.LessonBaseSlug(module.Slug, lesson.IsIntro, lesson.Order)
	lesson.Slug, err = s.uniqueSlug(ctx, ports.SlugLesson, base, func(counter int) string {
		return services.CounterSlug(base, counter)
	})
	if err != nil {
		return entities.Lesson{}, err
	}

	eventID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Lesson{}, err
	}
	created, err := s.Lessons.CreateLessonWithOutbox(ctx, lesson, func(stored entities.Lesson) (contractsv1.Envelope, error) {
		payload, err := s.lessonPayload(ctx, stored, &module)
		if err != nil {
			return contractsv1.Envelope{}, err
		}
		return contractsv1.NewEnvelope(
			eventID,
			contractsv1.EventLessonCreated,
			sourceService,
			"lesson_id",
			stored.Slug,
			now,
			payload,
		)
	})
	if err != nil {
		return entities.Lesson{}, err
	}

	ResolveLogger(s.Logger).Info("lesson created",
		"event", "lesson_created",
		"module", "learning/lesson-service",
		"layer", "application",
		"lesson_id", created.ID,
		"slug", created.Slug,
	)
	return created, nil
}

func (s Service) AddComment(ctx context.Context, lessonSlug string, input ports.AddCommentInput) (entities.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return entities.Comment{}, domainerrors.ErrInvalidRequest
	}
	lesson, err := s.Lessons.GetLessonBySlug(ctx, lessonSlug)
	if err != nil {
		return entities.Comment{}, err
	}
	return s.Comments.CreateComment(ctx, entities.Comment{
		LessonID:  lesson.ID,
		Content:   content,
		Telegram:  strings.TrimPrefix(strings.TrimSpace(input.Telegram), "@"),
		CreatedAt: s.Clock.Now().UTC(),
	})
}

func (s Service) MarkHelpful(ctx context.Context, lessonSlug string, commentID int64) (entities.Comment, error) {
	lesson, err := s.Lessons.GetLessonBySlug(ctx, lessonSlug)
	if err != nil {
		return entities.Comment{}, err
	}
	if commentID <= 0 {
		return entities.Comment{}, domainerrors.ErrCommentNotFound
	}
	return s.Comments.IncrementHelpful(ctx, lesson.ID, commentID)
}

func (s Service) ApproveComments(ctx context.Context, commentIDs []int64) (int, error) {
	if len(commentIDs) == 0 {
		return 0, domainerrors.ErrInvalidRequest
	}
	return s.Comments.ApproveComments(ctx, commentIDs)
}

func (s Service) ReorderModules(ctx context.Context, updates []entities.OrderUpdate) error {
	if err := validateOrder(updates); err != nil {
		return err
	}
	return s.Catalog.ReorderModules(ctx, updates)
}

func (s Service) ReorderLessons(ctx context.Context, updates []entities.OrderUpdate) error {
	if err := validateOrder(updates); err != nil {
		return err
	}
	return s.Lessons.ReorderLessons(ctx, updates)
}

// SaveProgress records the playback position of a device. A zero timestamp
// is treated as missing.
func (s Service) SaveProgress(ctx context.Context, lessonSlug string, deviceHash string, timestamp int) (entities.LessonProgress, error) {
	deviceHash = strings.TrimSpace(deviceHash)
	if deviceHash == "" || timestamp <= 0 {
		return entities.LessonProgress{}, domainerrors.ErrInvalidProgress
	}
	lesson, err := s.Lessons.GetLessonBySlug(ctx, lessonSlug)
	if err != nil {
		return entities.LessonProgress{}, err
	}
	return s.Progress.UpsertProgress(ctx, entities.LessonProgress{
		LessonID:   lesson.ID,
		DeviceHash: deviceHash,
		Timestamp:  timestamp,
		LastViewed: s.Clock.Now().UTC(),
	})
}

// GetProgress returns a zero position when the device has none recorded.
func (s Service) GetProgress(ctx context.Context, lessonSlug string, deviceHash string) (entities.LessonProgress, bool, error) {
	lesson, err := s.Lessons.GetLessonBySlug(ctx, lessonSlug)
	if err != nil {
		return entities.LessonProgress{}, false, err
	}
	deviceHash = strings.TrimSpace(deviceHash)
	if deviceHash == "" {
		return entities.LessonProgress{LessonID: lesson.ID}, false, nil
	}
	return s.Progress.GetProgress(ctx, lesson.ID, deviceHash)
}

// LatestLessonPayloads exports the newest lessons with hierarchy names for
// the bot and the search index. limit <= 0 exports every lesson.
func (s Service) LatestLessonPayloads(ctx context.Context, limit int) ([]contractsv1.LessonPayload, error) {
	lessons, err := s.Lessons.ListLatestLessons(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]contractsv1.LessonPayload, 0, len(lessons))
	for _, lesson := range lessons {
		payload, err := s.lessonPayload(ctx, lesson, nil)
		if err != nil {
			return nil, err
		}
		items = append(items, payload)
	}
	return items, nil
}

func (s Service) lessonPayload(ctx context.Context, lesson entities.Lesson, module *entities.Module) (contractsv1.LessonPayload, error) {
	if module == nil {
		loaded, err := s.Catalog.GetModule(ctx, lesson.ModuleID)
		if err != nil {
			return contractsv1.LessonPayload{}, err
		}
		module = &loaded
	}
	payload := contractsv1.LessonPayload{
		LessonID:   lesson.ID,
		Slug:       lesson.Slug,
		MediaType:  string(lesson.MediaType),
		IsIntro:    lesson.IsIntro,
		Order:      lesson.Order,
		ModuleID:   module.ID,
		ModuleName: module.Name,
		ModuleSlug: module.Slug,
		CreatedAt:  lesson.CreatedAt,
		UpdatedAt:  lesson.UpdatedAt,
	}
	topic, err := s.Catalog.GetTopic(ctx, module.TopicID)
	if err != nil {
		return contractsv1.LessonPayload{}, err
	}
	payload.TopicName = topic.Name
	category, err := s.Catalog.GetCategory(ctx, topic.CategoryID)
	if err != nil {
		return contractsv1.LessonPayload{}, err
	}
	payload.CategoryName = category.Name
	return payload, nil
}

func (s Service) uniqueSlug(ctx context.Context, kind ports.SlugKind, base string, candidate func(counter int) string) (string, error) {
	slug := base
	for counter := 1; counter <= maxSlugAttempts; counter++ {
		taken, err := s.Catalog.SlugTaken(ctx, kind, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = candidate(counter)
	}
	return "", domainerrors.ErrSlugConflict
}

func (s Service) categoryNodes(ctx context.Context, categories []entities.Category) ([]entities.CategoryNode, error) {
	ids := make([]int64, 0, len(categories))
	for _, category := range categories {
		ids = append(ids, category.ID)
	}
	topics, err := s.Catalog.ListTopicsByCategories(ctx, ids)
	if err != nil {
		return nil, err
	}
	topicNodes, err := s.topicNodes(ctx, topics)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[int64][]entities.TopicNode, len(categories))
	for _, node := range topicNodes {
		byCategory[node.Topic.CategoryID] = append(byCategory[node.Topic.CategoryID], node)
	}
	nodes := make([]entities.CategoryNode, 0, len(categories))
	for _, category := range categories {
		nodes = append(nodes, entities.CategoryNode{Category: category, Topics: nonNil(byCategory[category.ID])})
	}
	return nodes, nil
}

func (s Service) topicNodes(ctx context.Context, topics []entities.Topic) ([]entities.TopicNode, error) {
	ids := make([]int64, 0, len(topics))
	for _, topic := range topics {
		ids = append(ids, topic.ID)
	}
	modules, err := s.Catalog.ListModulesByTopics(ctx, ids)
	if err != nil {
		return nil, err
	}
	moduleNodes, err := s.moduleNodes(ctx, modules)
	if err != nil {
		return nil, err
	}
	byTopic := make(map[int64][]entities.ModuleNode, len(topics))
	for _, node := range moduleNodes {
		byTopic[node.Module.TopicID] = append(byTopic[node.Module.TopicID], node)
	}
	nodes := make([]entities.TopicNode, 0, len(topics))
	for _, topic := range topics {
		nodes = append(nodes, entities.TopicNode{Topic: topic, Modules: nonNil(byTopic[topic.ID])})
	}
	return nodes, nil
}

func (s Service) moduleNodes(ctx context.Context, modules []entities.Module) ([]entities.ModuleNode, error) {
	ids := make([]int64, 0, len(modules))
	for _, module := range modules {
		ids = append(ids, module.ID)
	}
	lessons, err := s.Lessons.ListLessonsByModules(ctx, ids)
	if err != nil {
		return nil, err
	}
	lessonNodes, err := s.lessonNodes(ctx, lessons)
	if err != nil {
		return nil, err
	}
	byModule := make(map[int64][]entities.LessonNode, len(modules))
	for _, node := range lessonNodes {
		byModule[node.Lesson.ModuleID] = append(byModule[node.Lesson.ModuleID], node)
	}
	nodes := make([]entities.ModuleNode, 0, len(modules))
	for _, module := range modules {
		nodes = append(nodes, entities.ModuleNode{Module: module, Lessons: nonNil(byModule[module.ID])})
	}
	return nodes, nil
}

func (s Service) lessonNodes(ctx context.Context, lessons []entities.Lesson) ([]entities.LessonNode, error) {
	ids := make([]int64, 0, len(lessons))
	for _, lesson := range lessons {
		ids = append(ids, lesson.ID)
	}
	comments, err := s.Comments.ListCommentsByLessons(ctx, ids)
	if err != nil {
		return nil, err
	}
	byLesson := make(map[int64][]entities.Comment, len(lessons))
	for _, comment := range comments {
		byLesson[comment.LessonID] = append(byLesson[comment.LessonID], comment)
	}
	nodes := make([]entities.LessonNode, 0, len(lessons))
	for _, lesson := range lessons {
		items := nonNil(byLesson[lesson.ID])
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
		nodes = append(nodes, entities.LessonNode{Lesson: lesson, Comments: items})
	}
	return nodes, nil
}

func validateOrder(updates []entities.OrderUpdate) error {
	if len(updates) == 0 {
		return domainerrors.ErrInvalidRequest
	}
	for _, update := range updates {
		if update.ID <= 0 || update.Order < 0 {
			return domainerrors.ErrInvalidRequest
		}
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
