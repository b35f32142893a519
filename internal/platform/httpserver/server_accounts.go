package httpserver

import (
	"errors"
	"net/http"

	accounterrors "hanafiyah/contexts/identity-access/account-service/domain/errors"
	accounthttp "hanafiyah/contexts/identity-access/account-service/transport/http"
)

func (s *Server) registerAccountRoutes() {
	s.mux.HandleFunc("POST /api/accounts/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/accounts/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/accounts/token/refresh", s.handleRefreshToken)
	s.mux.HandleFunc("POST /api/accounts/logout", s.handleLogout)
	s.mux.HandleFunc("GET /api/accounts/me", s.handleGetMe)
	s.mux.HandleFunc("PATCH /api/accounts/me", s.handleUpdateMe)
	s.mux.HandleFunc("GET /api/accounts/users/{user_id}", s.handleGetPublicProfile)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.accounts.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.accounts.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.accounts.Handler.RefreshHandler(r.Context(), req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleLogout reports a bad refresh token as a client error, not as a
// failed authentication.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.accounts.Handler.LogoutHandler(r.Context(), req)
	if err != nil {
		if errors.Is(err, accounterrors.ErrInvalidToken) || errors.Is(err, accounterrors.ErrTokenRevoked) {
			writeAccountError(w, http.StatusBadRequest, "invalid_token", err.Error())
			return
		}
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.accounts.Handler.GetMeHandler(r.Context(), principal.UserID)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req accounthttp.UpdateMeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.accounts.Handler.UpdateMeHandler(r.Context(), principal.UserID, req)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPublicProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}
	resp, err := s.accounts.Handler.GetPublicProfileHandler(r.Context(), userID)
	if err != nil {
		writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAccountDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrInvalidRequest),
		errors.Is(err, accounterrors.ErrWeakPassword),
		errors.Is(err, accounterrors.ErrRefreshRequired):
		writeAccountError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, accounterrors.ErrUsernameTaken):
		writeAccountError(w, http.StatusConflict, "username_taken", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidCredentials),
		errors.Is(err, accounterrors.ErrInactiveUser):
		writeAccountError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, accounterrors.ErrInvalidToken),
		errors.Is(err, accounterrors.ErrTokenRevoked):
		writeAccountError(w, http.StatusUnauthorized, "token_not_valid", err.Error())
	case errors.Is(err, accounterrors.ErrUnauthorized):
		writeAccountError(w, http.StatusUnauthorized, "not_authenticated", err.Error())
	case errors.Is(err, accounterrors.ErrUserNotFound):
		writeAccountError(w, http.StatusNotFound, "user_not_found", err.Error())
	default:
		writeAccountError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAccountError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accounthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
