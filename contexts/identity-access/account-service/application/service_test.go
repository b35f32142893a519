package application_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	accountservice "hanafiyah/contexts/identity-access/account-service"
	"hanafiyah/contexts/identity-access/account-service/domain/entities"
	domainerrors "hanafiyah/contexts/identity-access/account-service/domain/errors"
	"hanafiyah/contexts/identity-access/account-service/ports"
)

func newModule() accountservice.Module {
	return accountservice.NewInMemoryModule([]entities.User{
		{ID: 1, Username: "ustaz", PasswordHash: accountservice.HashPassword("ustaz-pass"), IsActive: true, IsStaff: true,
			Profile: entities.Profile{Telegram: "ustaz_tg", IsUstaz: true}},
		{ID: 2, Username: "blocked", PasswordHash: accountservice.HashPassword("blocked-pass"), IsActive: false},
	}, slog.Default())
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	user, err := module.Service.Register(ctx, ports.RegisterInput{
		Username: "murid", Email: "murid@example.com", Password: "long-password", Telegram: "@murid",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Profile.Telegram != "murid" {
		t.Fatalf("expected telegram handle normalized, got %q", user.Profile.Telegram)
	}
	if _, err := module.Service.Register(ctx, ports.RegisterInput{Username: "murid", Password: "long-password"}); !errors.Is(err, domainerrors.ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}

	pair, err := module.Service.Login(ctx, "murid", "long-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	principal, err := module.Service.Authenticate(ctx, pair.Access)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.UserID != user.ID || principal.IsStaff {
		t.Fatalf("unexpected principal %+v", principal)
	}
	if _, err := module.Service.Authenticate(ctx, pair.Refresh); !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected refresh token rejected as access token, got %v", err)
	}
}

func TestLoginRejectsBadCredentialsAndInactiveUsers(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	if _, err := module.Service.Login(ctx, "ustaz", "wrong"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := module.Service.Login(ctx, "ghost", "whatever"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
	if _, err := module.Service.Login(ctx, "blocked", "blocked-pass"); !errors.Is(err, domainerrors.ErrInactiveUser) {
		t.Fatalf("expected inactive user, got %v", err)
	}
}

func TestLogoutBlacklistsRefreshToken(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	pair, err := module.Service.Login(ctx, "ustaz", "ustaz-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := module.Service.Refresh(ctx, pair.Refresh); err != nil {
		t.Fatalf("refresh before logout: %v", err)
	}
	if err := module.Service.Logout(ctx, pair.Refresh); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := module.Service.Refresh(ctx, pair.Refresh); !errors.Is(err, domainerrors.ErrTokenRevoked) {
		t.Fatalf("expected revoked refresh token, got %v", err)
	}
	if err := module.Service.Logout(ctx, ""); !errors.Is(err, domainerrors.ErrRefreshRequired) {
		t.Fatalf("expected refresh required, got %v", err)
	}
}

func TestLinkTelegramAndUpdateResetsChatID(t *testing.T) {
	ctx := context.Background()
	module := newModule()

	linked, err := module.Service.LinkTelegram(ctx, "@USTAZ_TG", 777)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if linked.Profile.TelegramID == nil || *linked.Profile.TelegramID != 777 {
		t.Fatalf("expected telegram id linked, got %+v", linked.Profile)
	}
	found, err := module.Service.FindByTelegramID(ctx, 777)
	if err != nil || found.ID != 1 {
		t.Fatalf("expected to find user 1 by chat id, got %+v err=%v", found, err)
	}

	handle := "new_handle"
	updated, err := module.Service.UpdateMe(ctx, 1, ports.UpdateInput{Telegram: &handle})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Profile.TelegramID != nil {
		t.Fatalf("expected chat id cleared after handle change")
	}
}

func TestListStaffSkipsInactive(t *testing.T) {
	module := newModule()
	staff, err := module.Service.ListStaff(context.Background())
	if err != nil {
		t.Fatalf("list staff: %v", err)
	}
	if len(staff) != 1 || staff[0].Username != "ustaz" {
		t.Fatalf("unexpected staff %+v", staff)
	}
}
