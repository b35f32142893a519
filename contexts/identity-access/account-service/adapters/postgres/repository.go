package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hanafiyah/contexts/identity-access/account-service/domain/entities"
	domainerrors "hanafiyah/contexts/identity-access/account-service/domain/errors"

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
	return []any{&userModel{}, &revokedTokenModel{}}
}

func (r *Repository) CreateUser(ctx context.Context, user entities.User) (entities.User, error) {
	row := userModelFromEntity(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.User{}, domainerrors.ErrUsernameTaken
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUser(ctx context.Context, userID int64) (entities.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (entities.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *Repository) UpdateUser(ctx context.Context, user entities.User) (entities.User, error) {
	row := userModelFromEntity(user)
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"email":       row.Email,
			"first_name":  row.FirstName,
			"last_name":   row.LastName,
			"is_active":   row.IsActive,
			"is_staff":    row.IsStaff,
			"avatar":      row.Avatar,
			"telegram":    row.Telegram,
			"telegram_id": row.TelegramID,
			"is_ustaz":    row.IsUstaz,
		})
	if result.Error != nil {
		return entities.User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return r.GetUser(ctx, user.ID)
}

func (r *Repository) FindByTelegram(ctx context.Context, handle string) (entities.User, error) {
	return r.first(ctx, "LOWER(telegram) = LOWER(?) AND telegram <> ''", handle)
}

func (r *Repository) FindByTelegramID(ctx context.Context, telegramID int64) (entities.User, error) {
	return r.first(ctx, "telegram_id = ?", telegramID)
}

func (r *Repository) ListActiveUsers(ctx context.Context) ([]entities.User, error) {
	return r.list(ctx, "is_active = ?", true)
}

func (r *Repository) ListStaff(ctx context.Context) ([]entities.User, error) {
	return r.list(ctx, "is_active = ? AND is_staff = ?", true, true)
}

func (r *Repository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	row := revokedTokenModel{
		TokenID:   tokenID,
		ExpiresAt: expiresAt.UTC(),
		RevokedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&revokedTokenModel{}).
		Where("token_id = ?", tokenID).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpiredTokens drops blacklist rows whose tokens could no longer be used.
func (r *Repository) PurgeExpiredTokens(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now.UTC()).
		Delete(&revokedTokenModel{})
	return int(result.RowsAffected), result.Error
}

func (r *Repository) first(ctx context.Context, query string, args ...any) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).Where(query, args...).Order("id ASC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]entities.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string    `gorm:"column:username;uniqueIndex:users_username_key;size:150"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	IsActive     bool      `gorm:"column:is_active"`
	IsStaff      bool      `gorm:"column:is_staff"`
	DateJoined   time.Time `gorm:"column:date_joined"`
	Avatar       string    `gorm:"column:avatar"`
	Telegram     string    `gorm:"column:telegram;index"`
	TelegramID   *int64    `gorm:"column:telegram_id;index"`
	IsUstaz      bool      `gorm:"column:is_ustaz"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromEntity(user entities.User) userModel {
	return userModel{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsActive:     user.IsActive,
		IsStaff:      user.IsStaff,
		DateJoined:   user.DateJoined.UTC(),
		Avatar:       user.Profile.Avatar,
		Telegram:     user.Profile.Telegram,
		TelegramID:   user.Profile.TelegramID,
		IsUstaz:      user.Profile.IsUstaz,
	}
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		IsActive:     m.IsActive,
		IsStaff:      m.IsStaff,
		DateJoined:   m.DateJoined.UTC(),
		Profile: entities.Profile{
			Avatar:     m.Avatar,
			Telegram:   m.Telegram,
			TelegramID: m.TelegramID,
			IsUstaz:    m.IsUstaz,
		},
	}
}

type revokedTokenModel struct {
	TokenID   string    `gorm:"column:token_id;primaryKey"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	RevokedAt time.Time `gorm:"column:revoked_at"`
}

func (revokedTokenModel) TableName() string {
	return "revoked_tokens"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
