package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hanafiyah/contexts/learning/lesson-service/domain/entities"
	domainerrors "hanafiyah/contexts/learning/lesson-service/domain/errors"
	"hanafiyah/contexts/learning/lesson-service/ports"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
	"hanafiyah/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Models lists the gorm rows owned by this module for migrations.
func Models() []any {
	return []any{
		&profileModel{},
		&galleryPhotoModel{},
		&categoryModel{},
		&topicModel{},
		&moduleModel{},
		&lessonModel{},
		&commentModel{},
		&progressModel{},
	}
}

func (r *Repository) GetUstazProfile(ctx context.Context) (entities.UstazProfile, error) {
	var row profileModel
	err := r.db.WithContext(ctx).Order("id ASC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.UstazProfile{}, domainerrors.ErrProfileNotFound
		}
		return entities.UstazProfile{}, err
	}
	var photos []galleryPhotoModel
	if err := r.db.WithContext(ctx).Where("profile_id = ?", row.ID).Order("id ASC").Find(&photos).Error; err != nil {
		return entities.UstazProfile{}, err
	}
	profile := row.toEntity()
	profile.Photos = make([]entities.GalleryPhoto, 0, len(photos))
	for _, photo := range photos {
		profile.Photos = append(profile.Photos, photo.toEntity())
	}
	return profile, nil
}

// SaveUstazProfile relies on the singleton key column so a concurrent first
// save cannot produce a second profile.
func (r *Repository) SaveUstazProfile(ctx context.Context, profile entities.UstazProfile) (entities.UstazProfile, error) {
	row := profileModel{
		Singleton:    true,
		Name:         profile.Name,
		Biography:    profile.Biography,
		Achievements: profile.Achievements,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "biography", "achievements"}),
		}).
		Create(&row).
		Error
	if err != nil {
		return entities.UstazProfile{}, err
	}
	return r.GetUstazProfile(ctx)
}

func (r *Repository) AddGalleryPhoto(ctx context.Context, photo entities.GalleryPhoto) (entities.GalleryPhoto, error) {
	row := galleryPhotoModel{
		ProfileID:   photo.ProfileID,
		Image:       photo.Image,
		Thumbnail:   photo.Thumbnail,
		Description: photo.Description,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.GalleryPhoto{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCategories(ctx context.Context, filter ports.CategoryFilter) ([]entities.Category, int, error) {
	query := r.db.WithContext(ctx).Model(&categoryModel{})
	query = searchName(query, "name", filter.Search)
	var rows []categoryModel
	total, err := pageOf(query, filter.Page, "id ASC", &rows)
	if err != nil {
		return nil, 0, err
	}
	items := make([]entities.Category, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, total, nil
}

func (r *Repository) GetCategory(ctx context.Context, categoryID int64) (entities.Category, error) {
	var row categoryModel
	if err := firstOr(r.db.WithContext(ctx).Where("id = ?", categoryID), &row, domainerrors.ErrCategoryNotFound); err != nil {
		return entities.Category{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (entities.Category, error) {
	var row categoryModel
	if err := firstOr(r.db.WithContext(ctx).Where("slug = ?", slug), &row, domainerrors.ErrCategoryNotFound); err != nil {
		return entities.Category{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateCategory(ctx context.Context, category entities.Category) (entities.Category, error) {
	row := categoryModel{Name: category.Name, Slug: category.Slug}
	if err := r.create(ctx, &row); err != nil {
		return entities.Category{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTopics(ctx context.Context, filter ports.TopicFilter) ([]entities.Topic, int, error) {
	query := r.db.WithContext(ctx).Model(&topicModel{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	query = searchName(query, "name", filter.Search)
	var rows []topicModel
	total, err := pageOf(query, filter.Page, "id ASC", &rows)
	if err != nil {
		return nil, 0, err
	}
	return topicsFromRows(rows), total, nil
}

func (r *Repository) ListTopicsByCategories(ctx context.Context, categoryIDs []int64) ([]entities.Topic, error) {
	if len(categoryIDs) == 0 {
		return []entities.Topic{}, nil
	}
	var rows []topicModel
	if err := r.db.WithContext(ctx).Where("category_id IN ?", categoryIDs).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return topicsFromRows(rows), nil
}

func (r *Repository) GetTopic(ctx context.Context, topicID int64) (entities.Topic, error) {
	var row topicModel
	if err := firstOr(r.db.WithContext(ctx).Where("id = ?", topicID), &row, domainerrors.ErrTopicNotFound); err != nil {
		return entities.Topic{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetTopicBySlug(ctx context.Context, slug string) (entities.Topic, error) {
	var row topicModel
	if err := firstOr(r.db.WithContext(ctx).Where("slug = ?", slug), &row, domainerrors.ErrTopicNotFound); err != nil {
		return entities.Topic{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateTopic(ctx context.Context, topic entities.Topic) (entities.Topic, error) {
	row := topicModel{Name: topic.Name, CategoryID: topic.CategoryID, Slug: topic.Slug}
	if err := r.create(ctx, &row); err != nil {
		return entities.Topic{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListModules(ctx context.Context, filter ports.ModuleFilter) ([]entities.Module, int, error) {
	query := r.db.WithContext(ctx).Model(&moduleModel{})
	if filter.TopicID != nil {
		query = query.Where("topic_id = ?", *filter.TopicID)
	}
	query = searchName(query, "name", filter.Search)
	var rows []moduleModel
	total, err := pageOf(query, filter.Page, `"order" ASC, id ASC`, &rows)
	if err != nil {
		return nil, 0, err
	}
	return modulesFromRows(rows), total, nil
}

func (r *Repository) ListModulesByTopics(ctx context.Context, topicIDs []int64) ([]entities.Module, error) {
	if len(topicIDs) == 0 {
		return []entities.Module{}, nil
	}
	var rows []moduleModel
	if err := r.db.WithContext(ctx).Where("topic_id IN ?", topicIDs).Order(`"order" ASC, id ASC`).Find(&rows).Error; err != nil {
		return nil, err
	}
	return modulesFromRows(rows), nil
}

func (r *Repository) GetModule(ctx context.Context, moduleID int64) (entities.Module, error) {
	var row moduleModel
	if err := firstOr(r.db.WithContext(ctx).Where("id = ?", moduleID), &row, domainerrors.ErrModuleNotFound); err != nil {
		return entities.Module{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetModuleBySlug(ctx context.Context, slug string) (entities.Module, error) {
	var row moduleModel
	if err := firstOr(r.db.WithContext(ctx).Where("slug = ?", slug), &row, domainerrors.ErrModuleNotFound); err != nil {
		return entities.Module{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateModule(ctx context.Context, module entities.Module) (entities.Module, error) {
	row := moduleModel{Name: module.Name, TopicID: module.TopicID, Slug: module.Slug, Order: module.Order}
	if err := r.create(ctx, &row); err != nil {
		return entities.Module{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ReorderModules(ctx context.Context, updates []entities.OrderUpdate) error {
	return r.reorder(ctx, &moduleModel{}, updates)
}

func (r *Repository) SlugTaken(ctx context.Context, kind ports.SlugKind, slug string) (bool, error) {
	var model any
	switch kind {
	case ports.SlugCategory:
		model = &categoryModel{}
	case ports.SlugTopic:
		model = &topicModel{}
	case ports.SlugModule:
		model = &moduleModel{}
	case ports.SlugLesson:
		model = &lessonModel{}
	default:
		return false, fmt.Errorf("unknown slug kind %q", kind)
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListLessons(ctx context.Context, filter ports.LessonFilter) ([]entities.Lesson, int, error) {
	query := r.db.WithContext(ctx).Model(&lessonModel{})
	if filter.ModuleID != nil {
		query = query.Where("lessons.module_id = ?", *filter.ModuleID)
	}
	if filter.MediaType != "" {
		query = query.Where("lessons.media_type = ?", string(filter.MediaType))
	}
	if filter.IsIntro != nil {
		query = query.Where("lessons.is_intro = ?", *filter.IsIntro)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.
			Joins("JOIN lesson_modules ON lesson_modules.id = lessons.module_id").
			Where("lesson_modules.name ILIKE ?", "%"+search+"%")
	}
	var rows []lessonModel
	total, err := pageOf(query.Select("lessons.*"), filter.Page, lessonOrdering, &rows)
	if err != nil {
		return nil, 0, err
	}
	return lessonsFromRows(rows), total, nil
}

func (r *Repository) ListLessonsByModules(ctx context.Context, moduleIDs []int64) ([]entities.Lesson, error) {
	if len(moduleIDs) == 0 {
		return []entities.Lesson{}, nil
	}
	var rows []lessonModel
	if err := r.db.WithContext(ctx).Where("module_id IN ?", moduleIDs).Order(lessonOrdering).Find(&rows).Error; err != nil {
		return nil, err
	}
	return lessonsFromRows(rows), nil
}

func (r *Repository) ListLatestLessons(ctx context.Context, limit int) ([]entities.Lesson, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []lessonModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return lessonsFromRows(rows), nil
}

func (r *Repository) GetLessonBySlug(ctx context.Context, slug string) (entities.Lesson, error) {
	var row lessonModel
	if err := firstOr(r.db.WithContext(ctx).Where("slug = ?", slug), &row, domainerrors.ErrLessonNotFound); err != nil {
		return entities.Lesson{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ModuleHasIntro(ctx context.Context, moduleID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&lessonModel{}).
		Where("module_id = ? AND is_intro = ?", moduleID, true).
		Count(&count).
		Error
	return count > 0, err
}

func (r *Repository) MaxLessonOrder(ctx context.Context, moduleID int64) (int, error) {
	var maxOrder *int
	err := r.db.WithContext(ctx).
		Model(&lessonModel{}).
		Where("module_id = ?", moduleID).
		Select(`MAX("order")`).
		Scan(&maxOrder).
		Error
	if err != nil || maxOrder == nil {
		return 0, err
	}
	return *maxOrder, nil
}

func (r *Repository) CreateLessonWithOutbox(ctx context.Context, lesson entities.Lesson, build func(entities.Lesson) (contractsv1.Envelope, error)) (entities.Lesson, error) {
	row := lessonModelFromEntity(lesson)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				if strings.Contains(err.Error(), "slug") {
					return domainerrors.ErrSlugConflict
				}
				return domainerrors.ErrLessonOrderConflict
			}
			return err
		}
		envelope, err := build(row.toEntity())
		if err != nil {
			return err
		}
		return outbox.Append(tx, envelope)
	})
	if err != nil {
		return entities.Lesson{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ReorderLessons(ctx context.Context, updates []entities.OrderUpdate) error {
	return r.reorder(ctx, &lessonModel{}, updates)
}

func (r *Repository) ListCommentsByLessons(ctx context.Context, lessonIDs []int64) ([]entities.Comment, error) {
	if len(lessonIDs) == 0 {
		return []entities.Comment{}, nil
	}
	var rows []commentModel
	if err := r.db.WithContext(ctx).Where("lesson_id IN ?", lessonIDs).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Comment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateComment(ctx context.Context, comment entities.Comment) (entities.Comment, error) {
	row := commentModel{
		LessonID:     comment.LessonID,
		Content:      comment.Content,
		Telegram:     comment.Telegram,
		HelpfulCount: comment.HelpfulCount,
		IsModerated:  comment.IsModerated,
		CreatedAt:    comment.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Comment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) IncrementHelpful(ctx context.Context, lessonID int64, commentID int64) (entities.Comment, error) {
	result := r.db.WithContext(ctx).
		Model(&commentModel{}).
		Where("id = ? AND lesson_id = ?", commentID, lessonID).
		UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1"))
	if result.Error != nil {
		return entities.Comment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Comment{}, domainerrors.ErrCommentNotFound
	}
	var row commentModel
	if err := firstOr(r.db.WithContext(ctx).Where("id = ?", commentID), &row, domainerrors.ErrCommentNotFound); err != nil {
		return entities.Comment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ApproveComments(ctx context.Context, commentIDs []int64) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&commentModel{}).
		Where("id IN ?", commentIDs).
		Update("is_moderated", true)
	return int(result.RowsAffected), result.Error
}

func (r *Repository) UpsertProgress(ctx context.Context, progress entities.LessonProgress) (entities.LessonProgress, error) {
	row := progressModel{
		LessonID:   progress.LessonID,
		DeviceHash: progress.DeviceHash,
		Timestamp:  progress.Timestamp,
		LastViewed: progress.LastViewed.UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lesson_id"}, {Name: "device_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"timestamp", "last_viewed"}),
		}).
		Create(&row).
		Error
	if err != nil {
		return entities.LessonProgress{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetProgress(ctx context.Context, lessonID int64, deviceHash string) (entities.LessonProgress, bool, error) {
	var row progressModel
	err := r.db.WithContext(ctx).Where("lesson_id = ? AND device_hash = ?", lessonID, deviceHash).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.LessonProgress{LessonID: lessonID, DeviceHash: deviceHash}, false, nil
		}
		return entities.LessonProgress{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) create(ctx context.Context, row any) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrSlugConflict
		}
		return err
	}
	return nil
}

func (r *Repository) reorder(ctx context.Context, model any, updates []entities.OrderUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			if err := tx.Model(model).Where("id = ?", update.ID).Update("order", update.Order).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrLessonOrderConflict
				}
				return err
			}
		}
		return nil
	})
}

// lessonOrdering puts the intro lesson of each module first.
const lessonOrdering = `lessons.module_id ASC, lessons.is_intro DESC, lessons."order" ASC, lessons.id ASC`

func searchName(query *gorm.DB, column string, search string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return query
	}
	return query.Where(column+" ILIKE ?", "%"+search+"%")
}

func pageOf(query *gorm.DB, page ports.Page, order string, dest any) (int, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	query = query.Order(order).Offset(page.Offset)
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if err := query.Find(dest).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func firstOr(query *gorm.DB, dest any, notFound error) error {
	if err := query.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type profileModel struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Singleton    bool   `gorm:"column:singleton;uniqueIndex:ustaz_profiles_singleton_key;default:true"`
	Name         string `gorm:"column:name;size:200"`
	Biography    string `gorm:"column:biography"`
	Achievements string `gorm:"column:achievements"`
}

func (profileModel) TableName() string {
	return "ustaz_profiles"
}

func (m profileModel) toEntity() entities.UstazProfile {
	return entities.UstazProfile{ID: m.ID, Name: m.Name, Biography: m.Biography, Achievements: m.Achievements}
}

type galleryPhotoModel struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ProfileID   int64  `gorm:"column:profile_id;index"`
	Image       string `gorm:"column:image"`
	Thumbnail   string `gorm:"column:thumbnail"`
	Description string `gorm:"column:description;size:200"`
}

func (galleryPhotoModel) TableName() string {
	return "ustaz_gallery"
}

func (m galleryPhotoModel) toEntity() entities.GalleryPhoto {
	return entities.GalleryPhoto{
		ID:          m.ID,
		ProfileID:   m.ProfileID,
		Image:       m.Image,
		Thumbnail:   m.Thumbnail,
		Description: m.Description,
	}
}

type categoryModel struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:200"`
	Slug string `gorm:"column:slug;uniqueIndex:lesson_categories_slug_key"`
}

func (categoryModel) TableName() string {
	return "lesson_categories"
}

func (m categoryModel) toEntity() entities.Category {
	return entities.Category{ID: m.ID, Name: m.Name, Slug: m.Slug}
}

type topicModel struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string `gorm:"column:name;size:200"`
	CategoryID int64  `gorm:"column:category_id;index"`
	Slug       string `gorm:"column:slug;uniqueIndex:lesson_topics_slug_key"`
}

func (topicModel) TableName() string {
	return "lesson_topics"
}

func (m topicModel) toEntity() entities.Topic {
	return entities.Topic{ID: m.ID, Name: m.Name, CategoryID: m.CategoryID, Slug: m.Slug}
}

func topicsFromRows(rows []topicModel) []entities.Topic {
	items := make([]entities.Topic, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type moduleModel struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name    string `gorm:"column:name;size:200"`
	TopicID int64  `gorm:"column:topic_id;index"`
	Slug    string `gorm:"column:slug;uniqueIndex:lesson_modules_slug_key"`
	Order   int    `gorm:"column:order"`
}

func (moduleModel) TableName() string {
	return "lesson_modules"
}

func (m moduleModel) toEntity() entities.Module {
	return entities.Module{ID: m.ID, Name: m.Name, TopicID: m.TopicID, Slug: m.Slug, Order: m.Order}
}

func modulesFromRows(rows []moduleModel) []entities.Module {
	items := make([]entities.Module, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type lessonModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ModuleID  int64     `gorm:"column:module_id;uniqueIndex:lessons_module_order_intro_key,priority:1"`
	MediaType string    `gorm:"column:media_type;size:5"`
	MediaFile string    `gorm:"column:media_file"`
	Thumbnail string    `gorm:"column:thumbnail"`
	IsIntro   bool      `gorm:"column:is_intro;uniqueIndex:lessons_module_order_intro_key,priority:3"`
	Order     int       `gorm:"column:order;uniqueIndex:lessons_module_order_intro_key,priority:2"`
	Slug      string    `gorm:"column:slug;uniqueIndex:lessons_slug_key"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (lessonModel) TableName() string {
	return "lessons"
}

func lessonModelFromEntity(lesson entities.Lesson) lessonModel {
	return lessonModel{
		ID:        lesson.ID,
		ModuleID:  lesson.ModuleID,
		MediaType: string(lesson.MediaType),
		MediaFile: lesson.MediaFile,
		Thumbnail: lesson.Thumbnail,
		IsIntro:   lesson.IsIntro,
		Order:     lesson.Order,
		Slug:      lesson.Slug,
		CreatedAt: lesson.CreatedAt.UTC(),
		UpdatedAt: lesson.UpdatedAt.UTC(),
	}
}

func (m lessonModel) toEntity() entities.Lesson {
	return entities.Lesson{
		ID:        m.ID,
		ModuleID:  m.ModuleID,
		MediaType: entities.MediaType(m.MediaType),
		MediaFile: m.MediaFile,
		Thumbnail: m.Thumbnail,
		IsIntro:   m.IsIntro,
		Order:     m.Order,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func lessonsFromRows(rows []lessonModel) []entities.Lesson {
	items := make([]entities.Lesson, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type commentModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	LessonID     int64     `gorm:"column:lesson_id;index"`
	Content      string    `gorm:"column:content"`
	Telegram     string    `gorm:"column:telegram;size:100"`
	HelpfulCount int       `gorm:"column:helpful_count"`
	IsModerated  bool      `gorm:"column:is_moderated"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (commentModel) TableName() string {
	return "lesson_comments"
}

func (m commentModel) toEntity() entities.Comment {
	return entities.Comment{
		ID:           m.ID,
		LessonID:     m.LessonID,
		Content:      m.Content,
		Telegram:     m.Telegram,
		HelpfulCount: m.HelpfulCount,
		IsModerated:  m.IsModerated,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type progressModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	LessonID   int64     `gorm:"column:lesson_id;uniqueIndex:lesson_progress_device_key,priority:1"`
	DeviceHash string    `gorm:"column:device_hash;size:64;uniqueIndex:lesson_progress_device_key,priority:2"`
	Timestamp  int       `gorm:"column:timestamp"`
	LastViewed time.Time `gorm:"column:last_viewed"`
}

func (progressModel) TableName() string {
	return "lesson_progress"
}

func (m progressModel) toEntity() entities.LessonProgress {
	return entities.LessonProgress{
		LessonID:   m.LessonID,
		DeviceHash: m.DeviceHash,
		Timestamp:  m.Timestamp,
		LastViewed: m.LastViewed.UTC(),
	}
}
