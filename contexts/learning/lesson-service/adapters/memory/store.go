package memory

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hanafiyah/contexts/learning/lesson-service/application"
	"hanafiyah/contexts/learning/lesson-service/domain/entities"
	domainerrors "hanafiyah/contexts/learning/lesson-service/domain/errors"
	"hanafiyah/contexts/learning/lesson-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
	"hanafiyah/internal/shared/outbox"
)

// Seed preloads the catalog. IDs left at zero are assigned on load.
type Seed struct {
	Profile    *entities.UstazProfile
	Categories []entities.Category
	Topics     []entities.Topic
	Modules    []entities.Module
	Lessons    []entities.Lesson
	Comments   []entities.Comment
}

// Store is an in-memory adapter implementing lesson ports for local runtime
// and tests. Lesson events land in the embedded outbox.
type Store struct {
	*outbox.MemoryStore

	mu         sync.RWMutex
	profile    *entities.UstazProfile
	categories map[int64]entities.Category
	topics     map[int64]entities.Topic
	modules    map[int64]entities.Module
	lessons    map[int64]entities.Lesson
	comments   map[int64]entities.Comment
	progress   map[string]entities.LessonProgress
	nextID     int64
	sequence   uint64
	logger     *slog.Logger
}

func NewStore(seed Seed, logger *slog.Logger) *Store {
	store := &Store{
		MemoryStore: outbox.NewMemoryStore(),
		categories:  make(map[int64]entities.Category),
		topics:      make(map[int64]entities.Topic),
		modules:     make(map[int64]entities.Module),
		lessons:     make(map[int64]entities.Lesson),
		comments:    make(map[int64]entities.Comment),
		progress:    make(map[string]entities.LessonProgress),
		logger:      application.ResolveLogger(logger),
	}
	if seed.Profile != nil {
		profile := *seed.Profile
		profile.ID = store.assign(profile.ID)
		for i := range profile.Photos {
			profile.Photos[i].ID = store.assign(profile.Photos[i].ID)
			profile.Photos[i].ProfileID = profile.ID
		}
		store.profile = &profile
	}
	for _, item := range seed.Categories {
		item.ID = store.assign(item.ID)
		store.categories[item.ID] = item
	}
	for _, item := range seed.Topics {
		item.ID = store.assign(item.ID)
		store.topics[item.ID] = item
	}
	for _, item := range seed.Modules {
		item.ID = store.assign(item.ID)
		store.modules[item.ID] = item
	}
	for _, item := range seed.Lessons {
		item.ID = store.assign(item.ID)
		store.lessons[item.ID] = item
	}
	for _, item := range seed.Comments {
		item.ID = store.assign(item.ID)
		store.comments[item.ID] = item
	}
	return store
}

func (s *Store) assign(id int64) int64 {
	if id == 0 {
		s.nextID++
		return s.nextID
	}
	if id > s.nextID {
		s.nextID = id
	}
	return id
}

func (s *Store) GetUstazProfile(_ context.Context) (entities.UstazProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return entities.UstazProfile{}, domainerrors.ErrProfileNotFound
	}
	profile := *s.profile
	profile.Photos = append([]entities.GalleryPhoto{}, s.profile.Photos...)
	return profile, nil
}

func (s *Store) SaveUstazProfile(_ context.Context, profile entities.UstazProfile) (entities.UstazProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		s.nextID++
		profile.ID = s.nextID
		profile.Photos = nil
		s.profile = &profile
	} else {
		s.profile.Name = profile.Name
		s.profile.Biography = profile.Biography
		s.profile.Achievements = profile.Achievements
	}
	saved := *s.profile
	saved.Photos = append([]entities.GalleryPhoto{}, s.profile.Photos...)
	return saved, nil
}

func (s *Store) AddGalleryPhoto(_ context.Context, photo entities.GalleryPhoto) (entities.GalleryPhoto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil || s.profile.ID != photo.ProfileID {
		return entities.GalleryPhoto{}, domainerrors.ErrProfileNotFound
	}
	s.nextID++
	photo.ID = s.nextID
	s.profile.Photos = append(s.profile.Photos, photo)
	return photo, nil
}

func (s *Store) ListCategories(_ context.Context, filter ports.CategoryFilter) ([]entities.Category, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Category, 0)
	for _, id := range sortedKeys(s.categories) {
		item := s.categories[id]
		if contains(item.Name, filter.Search) {
			items = append(items, item)
		}
	}
	page, total := paginate(items, filter.Page)
	return page, total, nil
}

func (s *Store) GetCategory(_ context.Context, categoryID int64) (entities.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.categories[categoryID]
	if !ok {
		return entities.Category{}, domainerrors.ErrCategoryNotFound
	}
	return item, nil
}

func (s *Store) GetCategoryBySlug(_ context.Context, slug string) (entities.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.categories {
		if item.Slug == slug {
			return item, nil
		}
	}
	return entities.Category{}, domainerrors.ErrCategoryNotFound
}

func (s *Store) CreateCategory(_ context.Context, category entities.Category) (entities.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.categories {
		if item.Slug == category.Slug {
			return entities.Category{}, domainerrors.ErrSlugConflict
		}
	}
	s.nextID++
	category.ID = s.nextID
	s.categories[category.ID] = category
	return category, nil
}

func (s *Store) ListTopics(_ context.Context, filter ports.TopicFilter) ([]entities.Topic, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Topic, 0)
	for _, id := range sortedKeys(s.topics) {
		item := s.topics[id]
		if filter.CategoryID != nil && item.CategoryID != *filter.CategoryID {
			continue
		}
		if contains(item.Name, filter.Search) {
			items = append(items, item)
		}
	}
	page, total := paginate(items, filter.Page)
	return page, total, nil
}

func (s *Store) ListTopicsByCategories(_ context.Context, categoryIDs []int64) ([]entities.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := idSet(categoryIDs)
	items := make([]entities.Topic, 0)
	for _, id := range sortedKeys(s.topics) {
		if item := s.topics[id]; wanted[item.CategoryID] {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Store) GetTopic(_ context.Context, topicID int64) (entities.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.topics[topicID]
	if !ok {
		return entities.Topic{}, domainerrors.ErrTopicNotFound
	}
	return item, nil
}

func (s *Store) GetTopicBySlug(_ context.Context, slug string) (entities.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.topics {
		if item.Slug == slug {
			return item, nil
		}
	}
	return entities.Topic{}, domainerrors.ErrTopicNotFound
}

func (s *Store) CreateTopic(_ context.Context, topic entities.Topic) (entities.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[topic.CategoryID]; !ok {
		return entities.Topic{}, domainerrors.ErrCategoryNotFound
	}
	for _, item := range s.topics {
		if item.Slug == topic.Slug {
			return entities.Topic{}, domainerrors.ErrSlugConflict
		}
	}
	s.nextID++
	topic.ID = s.nextID
	s.topics[topic.ID] = topic
	return topic, nil
}

func (s *Store) ListModules(_ context.Context, filter ports.ModuleFilter) ([]entities.Module, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Module, 0)
	for _, item := range s.sortedModules() {
		if filter.TopicID != nil && item.TopicID != *filter.TopicID {
			continue
		}
		if contains(item.Name, filter.Search) {
			items = append(items, item)
		}
	}
	page, total := paginate(items, filter.Page)
	return page, total, nil
}

func (s *Store) ListModulesByTopics(_ context.Context, topicIDs []int64) ([]entities.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := idSet(topicIDs)
	items := make([]entities.Module, 0)
	for _, item := range s.sortedModules() {
		if wanted[item.TopicID] {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Store) GetModule(_ context.Context, moduleID int64) (entities.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.modules[moduleID]
	if !ok {
		return entities.Module{}, domainerrors.ErrModuleNotFound
	}
	return item, nil
}

func (s *Store) GetModuleBySlug(_ context.Context, slug string) (entities.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.modules {
		if item.Slug == slug {
			return item, nil
		}
	}
	return entities.Module{}, domainerrors.ErrModuleNotFound
}

func (s *Store) CreateModule(_ context.Context, module entities.Module) (entities.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.topics[module.TopicID]; !ok {
		return entities.Module{}, domainerrors.ErrTopicNotFound
	}
	for _, item := range s.modules {
		if item.Slug == module.Slug {
			return entities.Module{}, domainerrors.ErrSlugConflict
		}
	}
	s.nextID++
	module.ID = s.nextID
	s.modules[module.ID] = module
	return module, nil
}

func (s *Store) ReorderModules(_ context.Context, updates []entities.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, update := range updates {
		if item, ok := s.modules[update.ID]; ok {
			item.Order = update.Order
			s.modules[item.ID] = item
		}
	}
	return nil
}

func (s *Store) SlugTaken(_ context.Context, kind ports.SlugKind, slug string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch kind {
	case ports.SlugCategory:
		return anySlug(s.categories, slug, func(item entities.Category) string { return item.Slug }), nil
	case ports.SlugTopic:
		return anySlug(s.topics, slug, func(item entities.Topic) string { return item.Slug }), nil
	case ports.SlugModule:
		return anySlug(s.modules, slug, func(item entities.Module) string { return item.Slug }), nil
	case ports.SlugLesson:
		return anySlug(s.lessons, slug, func(item entities.Lesson) string { return item.Slug }), nil
	default:
		return false, fmt.Errorf("unknown slug kind %q", kind)
	}
}

func (s *Store) ListLessons(_ context.Context, filter ports.LessonFilter) ([]entities.Lesson, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Lesson, 0)
	for _, item := range s.sortedLessons() {
		if filter.ModuleID != nil && item.ModuleID != *filter.ModuleID {
			continue
		}
		if filter.MediaType != "" && item.MediaType != filter.MediaType {
			continue
		}
		if filter.IsIntro != nil && item.IsIntro != *filter.IsIntro {
			continue
		}
		if !contains(s.modules[item.ModuleID].Name, filter.Search) {
			continue
		}
		items = append(items, item)
	}
	page, total := paginate(items, filter.Page)
	return page, total, nil
}

func (s *Store) ListLessonsByModules(_ context.Context, moduleIDs []int64) ([]entities.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := idSet(moduleIDs)
	items := make([]entities.Lesson, 0)
	for _, item := range s.sortedLessons() {
		if wanted[item.ModuleID] {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Store) ListLatestLessons(_ context.Context, limit int) ([]entities.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Lesson, 0, len(s.lessons))
	for _, item := range s.lessons {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) GetLessonBySlug(_ context.Context, slug string) (entities.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.lessons {
		if item.Slug == slug {
			return item, nil
		}
	}
	return entities.Lesson{}, domainerrors.ErrLessonNotFound
}

func (s *Store) ModuleHasIntro(_ context.Context, moduleID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.lessons {
		if item.ModuleID == moduleID && item.IsIntro {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) MaxLessonOrder(_ context.Context, moduleID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maxOrder := 0
	for _, item := range s.lessons {
		if item.ModuleID == moduleID && item.Order > maxOrder {
			maxOrder = item.Order
		}
	}
	return maxOrder, nil
}

func (s *Store) CreateLessonWithOutbox(_ context.Context, lesson entities.Lesson, build func(entities.Lesson) (contractsv1.Envelope, error)) (entities.Lesson, error) {
	s.mu.Lock()
	for _, item := range s.lessons {
		if item.Slug == lesson.Slug {
			s.mu.Unlock()
			return entities.Lesson{}, domainerrors.ErrSlugConflict
		}
		if item.ModuleID == lesson.ModuleID && item.Order == lesson.Order && item.IsIntro == lesson.IsIntro {
			s.mu.Unlock()
			return entities.Lesson{}, domainerrors.ErrLessonOrderConflict
		}
	}
	s.nextID++
	lesson.ID = s.nextID
	s.lessons[lesson.ID] = lesson
	s.mu.Unlock()

	// build reads the catalog back through the store, so it runs unlocked.
	envelope, err := build(lesson)
	if err == nil {
		err = s.Append(envelope)
	}
	if err != nil {
		s.mu.Lock()
		delete(s.lessons, lesson.ID)
		s.mu.Unlock()
		return entities.Lesson{}, err
	}
	return lesson, nil
}

func (s *Store) ReorderLessons(_ context.Context, updates []entities.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, update := range updates {
		if item, ok := s.lessons[update.ID]; ok {
			item.Order = update.Order
			s.lessons[item.ID] = item
		}
	}
	return nil
}

func (s *Store) ListCommentsByLessons(_ context.Context, lessonIDs []int64) ([]entities.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := idSet(lessonIDs)
	items := make([]entities.Comment, 0)
	for _, id := range sortedKeys(s.comments) {
		if item := s.comments[id]; wanted[item.LessonID] {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Store) CreateComment(_ context.Context, comment entities.Comment) (entities.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[comment.LessonID]; !ok {
		return entities.Comment{}, domainerrors.ErrLessonNotFound
	}
	s.nextID++
	comment.ID = s.nextID
	s.comments[comment.ID] = comment
	return comment, nil
}

func (s *Store) IncrementHelpful(_ context.Context, lessonID int64, commentID int64) (entities.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.comments[commentID]
	if !ok || item.LessonID != lessonID {
		return entities.Comment{}, domainerrors.ErrCommentNotFound
	}
	item.HelpfulCount++
	s.comments[commentID] = item
	return item, nil
}

func (s *Store) ApproveComments(_ context.Context, commentIDs []int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for _, id := range commentIDs {
		if item, ok := s.comments[id]; ok {
			item.IsModerated = true
			s.comments[id] = item
			updated++
		}
	}
	return updated, nil
}

func (s *Store) UpsertProgress(_ context.Context, progress entities.LessonProgress) (entities.LessonProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[progressKey(progress.LessonID, progress.DeviceHash)] = progress
	return progress, nil
}

func (s *Store) GetProgress(_ context.Context, lessonID int64, deviceHash string) (entities.LessonProgress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.progress[progressKey(lessonID, deviceHash)]
	if !ok {
		return entities.LessonProgress{LessonID: lessonID, DeviceHash: deviceHash}, false, nil
	}
	return item, true, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("lesson-evt-%d", value), nil
}

// RandomSuffix returns lowercase alphanumerics.
func (s *Store) RandomSuffix(length int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(out)
}

func (s *Store) sortedModules() []entities.Module {
	items := make([]entities.Module, 0, len(s.modules))
	for _, item := range s.modules {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].ID < items[j].ID
	})
	return items
}

// sortedLessons orders by module, intro first, then position.
func (s *Store) sortedLessons() []entities.Lesson {
	items := make([]entities.Lesson, 0, len(s.lessons))
	for _, item := range s.lessons {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ModuleID != b.ModuleID {
			return a.ModuleID < b.ModuleID
		}
		if a.IsIntro != b.IsIntro {
			return a.IsIntro
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return items
}

func sortedKeys[T any](items map[int64]T) []int64 {
	ids := make([]int64, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func anySlug[T any](items map[int64]T, slug string, get func(T) string) bool {
	for _, item := range items {
		if get(item) == slug {
			return true
		}
	}
	return false
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func contains(value string, search string) bool {
	search = strings.TrimSpace(search)
	return search == "" || strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

func paginate[T any](items []T, page ports.Page) ([]T, int) {
	total := len(items)
	if page.Offset >= total {
		return []T{}, total
	}
	items = items[page.Offset:]
	if page.Limit > 0 && len(items) > page.Limit {
		items = items[:page.Limit]
	}
	return items, total
}

func progressKey(lessonID int64, deviceHash string) string {
	return fmt.Sprintf("%d:%s", lessonID, deviceHash)
}
