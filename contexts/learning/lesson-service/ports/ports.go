package ports

import (
	"context"
	"time"

	"hanafiyah/contexts/learning/lesson-service/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

// Page is an offset window over a list.
type Page struct {
	Offset int
	Limit  int
}

type CategoryFilter struct {
	Search string
	Page   Page
}

type TopicFilter struct {
	CategoryID *int64
	Search     string
	Page       Page
}

type ModuleFilter struct {
	TopicID *int64
	Search  string
	Page    Page
}

// LessonFilter searches on the owning module name.
type LessonFilter struct {
	ModuleID  *int64
	MediaType entities.MediaType
	IsIntro   *bool
	Search    string
	Page      Page
}

type SlugKind string

const (
	SlugCategory SlugKind = "category"
	SlugTopic    SlugKind = "topic"
	SlugModule   SlugKind = "module"
	SlugLesson   SlugKind = "lesson"
)

type ProfileRepository interface {
	GetUstazProfile(ctx context.Context) (entities.UstazProfile, error)
	// SaveUstazProfile inserts the singleton profile or updates the existing one.
	SaveUstazProfile(ctx context.Context, profile entities.UstazProfile) (entities.UstazProfile, error)
	AddGalleryPhoto(ctx context.Context, photo entities.GalleryPhoto) (entities.GalleryPhoto, error)
}

type CatalogRepository interface {
	ListCategories(ctx context.Context, filter CategoryFilter) ([]entities.Category, int, error)
	GetCategory(ctx context.Context, categoryID int64) (entities.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (entities.Category, error)
	CreateCategory(ctx context.Context, category entities.Category) (entities.Category, error)

	ListTopics(ctx context.Context, filter TopicFilter) ([]entities.Topic, int, error)
	ListTopicsByCategories(ctx context.Context, categoryIDs []int64) ([]entities.Topic, error)
	GetTopic(ctx context.Context, topicID int64) (entities.Topic, error)
	GetTopicBySlug(ctx context.Context, slug string) (entities.Topic, error)
	CreateTopic(ctx context.Context, topic entities.Topic) (entities.Topic, error)

	ListModules(ctx context.Context, filter ModuleFilter) ([]entities.Module, int, error)
	ListModulesByTopics(ctx context.Context, topicIDs []int64) ([]entities.Module, error)
	GetModule(ctx context.Context, moduleID int64) (entities.Module, error)
	GetModuleBySlug(ctx context.Context, slug string) (entities.Module, error)
	CreateModule(ctx context.Context, module entities.Module) (entities.Module, error)
	ReorderModules(ctx context.Context, updates []entities.OrderUpdate) error

	SlugTaken(ctx context.Context, kind SlugKind, slug string) (bool, error)
}

type LessonRepository interface {
	ListLessons(ctx context.Context, filter LessonFilter) ([]entities.Lesson, int, error)
	ListLessonsByModules(ctx context.Context, moduleIDs []int64) ([]entities.Lesson, error)
	// ListLatestLessons orders by creation time, newest first. limit <= 0 means all.
	ListLatestLessons(ctx context.Context, limit int) ([]entities.Lesson, error)
	GetLessonBySlug(ctx context.Context, slug string) (entities.Lesson, error)
	ModuleHasIntro(ctx context.Context, moduleID int64) (bool, error)
	MaxLessonOrder(ctx context.Context, moduleID int64) (int, error)
	// CreateLessonWithOutbox must atomically persist the lesson and its event.
	CreateLessonWithOutbox(ctx context.Context, lesson entities.Lesson, build func(entities.Lesson) (contractsv1.Envelope, error)) (entities.Lesson, error)
	ReorderLessons(ctx context.Context, updates []entities.OrderUpdate) error
}

type CommentRepository interface {
	ListCommentsByLessons(ctx context.Context, lessonIDs []int64) ([]entities.Comment, error)
	CreateComment(ctx context.Context, comment entities.Comment) (entities.Comment, error)
	IncrementHelpful(ctx context.Context, lessonID int64, commentID int64) (entities.Comment, error)
	ApproveComments(ctx context.Context, commentIDs []int64) (int, error)
}

type ProgressRepository interface {
	UpsertProgress(ctx context.Context, progress entities.LessonProgress) (entities.LessonProgress, error)
	GetProgress(ctx context.Context, lessonID int64, deviceHash string) (entities.LessonProgress, bool, error)
}

type Slugger interface {
	Make(value string) string
}

// SuffixGenerator yields short random suffixes for colliding category slugs.
type SuffixGenerator interface {
	RandomSuffix(length int) string
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type UpsertProfileInput struct {
	Name         string
	Biography    string
	Achievements string
}

type CreateLessonInput struct {
	ModuleID  int64
	MediaType string
	MediaFile string
	Thumbnail string
	IsIntro   bool
	Order     *int
}

type AddCommentInput struct {
	Content  string
	Telegram string
}
