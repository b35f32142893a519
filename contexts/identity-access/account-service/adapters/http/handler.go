package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"hanafiyah/contexts/identity-access/account-service/application"
	"hanafiyah/contexts/identity-access/account-service/domain/entities"
	"hanafiyah/contexts/identity-access/account-service/ports"
	httptransport "hanafiyah/contexts/identity-access/account-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// RegisterHandler godoc
// @Summary Register an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body httptransport.RegisterRequest true "Account"
// @Success 201 {object} httptransport.UserDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/accounts/register [post]
func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.UserDTO, error) {
	user, err := h.Service.Register(ctx, ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Telegram:  req.Profile.Telegram,
	})
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return toUserDTO(user), nil
}

// LoginHandler godoc
// @Summary Obtain an access/refresh token pair
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body httptransport.LoginRequest true "Credentials"
// @Success 200 {object} httptransport.LoginResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/accounts/login [post]
func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	pair, err := h.Service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    toUserDTO(pair.User),
	}, nil
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new access token
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body httptransport.RefreshRequest true "Refresh token"
// @Success 200 {object} httptransport.RefreshResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/accounts/token/refresh [post]
func (h Handler) RefreshHandler(ctx context.Context, req httptransport.RefreshRequest) (httptransport.RefreshResponse, error) {
	access, err := h.Service.Refresh(ctx, req.Refresh)
	if err != nil {
		return httptransport.RefreshResponse{}, err
	}
	return httptransport.RefreshResponse{Access: access}, nil
}

// LogoutHandler godoc
// @Summary Blacklist a refresh token
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body httptransport.RefreshRequest true "Refresh token"
// @Success 200 {object} httptransport.DetailResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/accounts/logout [post]
func (h Handler) LogoutHandler(ctx context.Context, req httptransport.RefreshRequest) (httptransport.DetailResponse, error) {
	if err := h.Service.Logout(ctx, req.Refresh); err != nil {
		return httptransport.DetailResponse{}, err
	}
	return httptransport.DetailResponse{Detail: "Вы успешно вышли."}, nil
}

// GetMeHandler godoc
// @Summary Current user
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.UserDTO
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/accounts/me [get]
func (h Handler) GetMeHandler(ctx context.Context, userID int64) (httptransport.UserDTO, error) {
	user, err := h.Service.GetUser(ctx, userID)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return toUserDTO(user), nil
}

// UpdateMeHandler godoc
// @Summary Update the current user and nested profile
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.UpdateMeRequest true "Fields to change"
// @Success 200 {object} httptransport.UserDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /api/accounts/me [patch]
func (h Handler) UpdateMeHandler(ctx context.Context, userID int64, req httptransport.UpdateMeRequest) (httptransport.UserDTO, error) {
	input := ports.UpdateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Profile != nil {
		input.Avatar = req.Profile.Avatar
		input.Telegram = req.Profile.Telegram
	}
	user, err := h.Service.UpdateMe(ctx, userID, input)
	if err != nil {
		return httptransport.UserDTO{}, err
	}
	return toUserDTO(user), nil
}

// GetPublicProfileHandler godoc
// @Summary Public profile of a user
// @Tags accounts
// @Produce json
// @Param user_id path int true "User id"
// @Success 200 {object} httptransport.PublicUserDTO
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/accounts/users/{user_id} [get]
func (h Handler) GetPublicProfileHandler(ctx context.Context, userID int64) (httptransport.PublicUserDTO, error) {
	user, err := h.Service.GetPublicProfile(ctx, userID)
	if err != nil {
		return httptransport.PublicUserDTO{}, err
	}
	out := httptransport.PublicUserDTO{
		ID:         user.ID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		DateJoined: user.DateJoined.UTC().Format(time.RFC3339),
		Telegram:   &user.Profile.Telegram,
	}
	if user.Profile.Avatar != "" {
		avatar := user.Profile.Avatar
		out.Avatar = &avatar
	}
	return out, nil
}

func toUserDTO(user entities.User) httptransport.UserDTO {
	return httptransport.UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		DateJoined: user.DateJoined.UTC().Format(time.RFC3339),
		Profile: httptransport.ProfileDTO{
			Avatar:   user.Profile.Avatar,
			Telegram: user.Profile.Telegram,
			IsUstaz:  user.Profile.IsUstaz,
		},
	}
}
