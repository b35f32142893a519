package ports

import (
	"context"
	"time"

	"hanafiyah/contexts/identity-access/account-service/domain/entities"
)

// UserRepository owns persistence of users and their profiles.
type UserRepository interface {
	CreateUser(ctx context.Context, user entities.User) (entities.User, error)
	GetUser(ctx context.Context, userID int64) (entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (entities.User, error)
	UpdateUser(ctx context.Context, user entities.User) (entities.User, error)
	FindByTelegram(ctx context.Context, handle string) (entities.User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (entities.User, error)
	ListActiveUsers(ctx context.Context) ([]entities.User, error)
	ListStaff(ctx context.Context) ([]entities.User, error)
}

// TokenBlacklist records refresh tokens revoked by logout.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

type TokenClaims struct {
	TokenID   string
	UserID    int64
	Kind      TokenKind
	IsStaff   bool
	IsUstaz   bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(claims TokenClaims) (string, error)
	Parse(token string) (TokenClaims, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID  int64
	IsStaff bool
	IsUstaz bool
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Telegram  string
}

// UpdateInput applies only the non-nil fields.
type UpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Avatar    *string
	Telegram  *string
}

type TokenPair struct {
	Access  string
	Refresh string
	User    entities.User
}
