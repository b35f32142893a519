package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"hanafiyah/contexts/identity-access/account-service/domain/entities"
	domainerrors "hanafiyah/contexts/identity-access/account-service/domain/errors"
	"hanafiyah/contexts/identity-access/account-service/domain/services"
	"hanafiyah/contexts/identity-access/account-service/ports"
)

type Service struct {
	Users      ports.UserRepository
	Blacklist  ports.TokenBlacklist
	Hasher     ports.PasswordHasher
	Tokens     ports.TokenIssuer
	Clock      ports.Clock
	IDs        ports.IDGenerator
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Logger     *slog.Logger
}

func (s Service) Register(ctx context.Context, input ports.RegisterInput) (entities.User, error) {
	if err := services.ValidateRegistration(input.Username, input.Email, input.Password); err != nil {
		return entities.User{}, err
	}
	hash, err := s.Hasher.Hash(input.Password)
	if err != nil {
		return entities.User{}, err
	}
	user, err := s.Users.CreateUser(ctx, entities.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     true,
		DateJoined:   s.now(),
		Profile: entities.Profile{
			Telegram: entities.NormalizeTelegram(input.Telegram),
		},
	})
	if err != nil {
		return entities.User{}, err
	}

	ResolveLogger(s.Logger).Info("user registered",
		"event", "account_user_registered",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", user.ID,
	)
	return user, nil
}

func (s Service) Login(ctx context.Context, username string, password string) (ports.TokenPair, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return ports.TokenPair{}, domainerrors.ErrInvalidRequest
	}
	user, err := s.Users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return ports.TokenPair{}, domainerrors.ErrInvalidCredentials
		}
		return ports.TokenPair{}, err
	}
	if err := s.Hasher.Compare(user.PasswordHash, password); err != nil {
		return ports.TokenPair{}, domainerrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return ports.TokenPair{}, domainerrors.ErrInactiveUser
	}

	access, err := s.issue(ctx, user, ports.TokenAccess, s.accessTTL())
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := s.issue(ctx, user, ports.TokenRefresh, s.refreshTTL())
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{Access: access, Refresh: refresh, User: user}, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return "", domainerrors.ErrInvalidToken
		}
		return "", err
	}
	if !user.IsActive {
		return "", domainerrors.ErrInactiveUser
	}
	return s.issue(ctx, user, ports.TokenAccess, s.accessTTL())
}

// Logout blacklists the refresh token until it would have expired anyway.
func (s Service) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return domainerrors.ErrRefreshRequired
	}
	claims, err := s.parseRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.Blacklist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("refresh token revoked",
		"event", "account_refresh_revoked",
		"module", "identity-access/account-service",
		"layer", "application",
		"user_id", claims.UserID,
	)
	return nil
}

// Authenticate resolves an access token to the calling principal.
func (s Service) Authenticate(ctx context.Context, accessToken string) (ports.Principal, error) {
	if strings.TrimSpace(accessToken) == "" {
		return ports.Principal{}, domainerrors.ErrUnauthorized
	}
	claims, err := s.Tokens.Parse(accessToken)
	if err != nil || claims.Kind != ports.TokenAccess {
		return ports.Principal{}, domainerrors.ErrInvalidToken
	}
	if !claims.ExpiresAt.IsZero() && !s.now().Before(claims.ExpiresAt) {
		return ports.Principal{}, domainerrors.ErrInvalidToken
	}
	user, err := s.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return ports.Principal{}, domainerrors.ErrInvalidToken
		}
		return ports.Principal{}, err
	}
	if !user.IsActive {
		return ports.Principal{}, domainerrors.ErrInactiveUser
	}
	return ports.Principal{UserID: user.ID, IsStaff: user.IsStaff, IsUstaz: user.Profile.IsUstaz}, nil
}

func (s Service) GetUser(ctx context.Context, userID int64) (entities.User, error) {
	if userID <= 0 {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return s.Users.GetUser(ctx, userID)
}

// GetPublicProfile returns only active users.
func (s Service) GetPublicProfile(ctx context.Context, userID int64) (entities.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return entities.User{}, err
	}
	if !user.IsActive {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s Service) UpdateMe(ctx context.Context, userID int64, input ports.UpdateInput) (entities.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return entities.User{}, err
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if err := services.ValidateRegistration(user.Username, email, strings.Repeat("x", services.MinPasswordLength)); err != nil {
			return entities.User{}, err
		}
		user.Email = email
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Avatar != nil {
		user.Profile.Avatar = strings.TrimSpace(*input.Avatar)
	}
	if input.Telegram != nil {
		handle := entities.NormalizeTelegram(*input.Telegram)
		if handle != user.Profile.Telegram {
			user.Profile.TelegramID = nil
		}
		user.Profile.Telegram = handle
	}
	return s.Users.UpdateUser(ctx, user)
}

func (s Service) FindByTelegram(ctx context.Context, handle string) (entities.User, error) {
	handle = entities.NormalizeTelegram(handle)
	if handle == "" {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return s.Users.FindByTelegram(ctx, handle)
}

func (s Service) FindByTelegramID(ctx context.Context, telegramID int64) (entities.User, error) {
	if telegramID == 0 {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return s.Users.FindByTelegramID(ctx, telegramID)
}

// LinkTelegram binds a chat id to the account whose profile names handle.
func (s Service) LinkTelegram(ctx context.Context, handle string, telegramID int64) (entities.User, error) {
	user, err := s.FindByTelegram(ctx, handle)
	if err != nil {
		return entities.User{}, err
	}
	user.Profile.TelegramID = &telegramID
	return s.Users.UpdateUser(ctx, user)
}

func (s Service) ListActiveUsers(ctx context.Context) ([]entities.User, error) {
	return s.Users.ListActiveUsers(ctx)
}

func (s Service) ListStaff(ctx context.Context) ([]entities.User, error) {
	return s.Users.ListStaff(ctx)
}

func (s Service) parseRefresh(ctx context.Context, refreshToken string) (ports.TokenClaims, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return ports.TokenClaims{}, domainerrors.ErrRefreshRequired
	}
	claims, err := s.Tokens.Parse(refreshToken)
	if err != nil || claims.Kind != ports.TokenRefresh {
		return ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}
	if !claims.ExpiresAt.IsZero() && !s.now().Before(claims.ExpiresAt) {
		return ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}
	revoked, err := s.Blacklist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	if revoked {
		return ports.TokenClaims{}, domainerrors.ErrTokenRevoked
	}
	return claims, nil
}

func (s Service) issue(ctx context.Context, user entities.User, kind ports.TokenKind, ttl time.Duration) (string, error) {
	tokenID, err := s.IDs.NewID(ctx)
	if err != nil {
		return "", err
	}
	now := s.now()
	return s.Tokens.Issue(ports.TokenClaims{
		TokenID:   tokenID,
		UserID:    user.ID,
		Kind:      kind,
		IsStaff:   user.IsStaff,
		IsUstaz:   user.Profile.IsUstaz,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	})
}

func (s Service) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return time.Hour
	}
	return s.AccessTTL
}

func (s Service) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return 24 * time.Hour
	}
	return s.RefreshTTL
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
