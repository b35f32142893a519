package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hanafiyah/contexts/community/question-service/domain/entities"
	domainerrors "hanafiyah/contexts/community/question-service/domain/errors"
	"hanafiyah/contexts/community/question-service/ports"
	"hanafiyah/internal/shared/outbox"

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
	return []any{&questionModel{}, &answerModel{}}
}

func (r *Repository) ListQuestions(ctx context.Context, filter ports.QuestionFilter) ([]entities.Question, int, error) {
	query := r.db.WithContext(ctx).Model(&questionModel{})
	if filter.IsAnswered != nil {
		query = query.Where("is_answered = ?", *filter.IsAnswered)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("content ILIKE ?", "%"+search+"%")
	}
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("created_at DESC, id DESC").Offset(filter.Page.Offset)
	if filter.Page.Limit > 0 {
		query = query.Limit(filter.Page.Limit)
	}
	var rows []questionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	items, err := r.attachAnswers(ctx, rows)
	return items, int(total), err
}

func (r *Repository) GetQuestion(ctx context.Context, questionID int64) (entities.Question, error) {
	return r.getQuestion(r.db.WithContext(ctx), questionID)
}

func (r *Repository) FindAnsweredContaining(ctx context.Context, text string, excludeID int64, limit int) ([]entities.Question, error) {
	var rows []questionModel
	err := r.db.WithContext(ctx).
		Where("is_answered = ? AND id <> ? AND content ILIKE ?", true, excludeID, "%"+escapeLike(text)+"%").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return r.attachAnswers(ctx, rows)
}

func (r *Repository) CreateQuestionWithOutbox(ctx context.Context, question entities.Question, build ports.EnvelopeBuilder) (entities.Question, error) {
	row := questionModel{
		UserID:     question.UserID,
		Content:    question.Content,
		Telegram:   question.Telegram,
		IsAnswered: question.IsAnswered,
		CreatedAt:  question.CreatedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		envelope, err := build(row.toEntity())
		if err != nil {
			return err
		}
		return outbox.Append(tx, envelope)
	})
	if err != nil {
		return entities.Question{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveAnswerWithOutbox(ctx context.Context, answer entities.Answer, build ports.EnvelopeBuilder) (entities.Question, error) {
	var saved entities.Question
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := answerModel{
			QuestionID: answer.QuestionID,
			Content:    answer.Content,
			CreatedAt:  answer.CreatedAt.UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content"}),
		}).Create(&row).Error; err != nil {
			return err
		}
		result := tx.Model(&questionModel{}).Where("id = ?", answer.QuestionID).Update("is_answered", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrQuestionNotFound
		}
		question, err := r.getQuestion(tx, answer.QuestionID)
		if err != nil {
			return err
		}
		envelope, err := build(question)
		if err != nil {
			return err
		}
		saved = question
		return outbox.Append(tx, envelope)
	})
	if err != nil {
		return entities.Question{}, err
	}
	return saved, nil
}

func (r *Repository) getQuestion(db *gorm.DB, questionID int64) (entities.Question, error) {
	var row questionModel
	if err := db.Where("id = ?", questionID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Question{}, domainerrors.ErrQuestionNotFound
		}
		return entities.Question{}, err
	}
	question := row.toEntity()
	var answer answerModel
	err := db.Where("question_id = ?", questionID).First(&answer).Error
	switch {
	case err == nil:
		entity := answer.toEntity()
		question.Answer = &entity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return entities.Question{}, err
	}
	return question, nil
}

func (r *Repository) attachAnswers(ctx context.Context, rows []questionModel) ([]entities.Question, error) {
	items := make([]entities.Question, 0, len(rows))
	if len(rows) == 0 {
		return items, nil
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var answers []answerModel
	if err := r.db.WithContext(ctx).Where("question_id IN ?", ids).Find(&answers).Error; err != nil {
		return nil, err
	}
	byQuestion := make(map[int64]entities.Answer, len(answers))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = answer.toEntity()
	}
	for _, row := range rows {
		question := row.toEntity()
		if answer, ok := byQuestion[row.ID]; ok {
			question.Answer = &answer
		}
		items = append(items, question)
	}
	return items, nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

type questionModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     *int64    `gorm:"column:user_id;index"`
	Content    string    `gorm:"column:content"`
	Telegram   string    `gorm:"column:telegram;size:100"`
	IsAnswered bool      `gorm:"column:is_answered;index"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
}

func (questionModel) TableName() string {
	return "questions"
}

func (m questionModel) toEntity() entities.Question {
	return entities.Question{
		ID:         m.ID,
		UserID:     m.UserID,
		Content:    m.Content,
		Telegram:   m.Telegram,
		IsAnswered: m.IsAnswered,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type answerModel struct {
	ID                 int64     `gorm:"column:id;primaryKey;autoIncrement"`
	QuestionID         int64     `gorm:"column:question_id;uniqueIndex:answers_question_id_key"`
	Content            string    `gorm:"column:content"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	ConvertedToArticle bool      `gorm:"column:converted_to_article"`
}

func (answerModel) TableName() string {
	return "answers"
}

func (m answerModel) toEntity() entities.Answer {
	return entities.Answer{
		ID:                 m.ID,
		QuestionID:         m.QuestionID,
		Content:            m.Content,
		CreatedAt:          m.CreatedAt.UTC(),
		ConvertedToArticle: m.ConvertedToArticle,
	}
}
