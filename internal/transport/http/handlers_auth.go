package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docket/internal/auth"
	"docket/internal/user"
	"docket/pkg/platform/httputil"
)

// UserService covers the account operations the auth endpoints need.
type UserService interface {
	Register(ctx context.Context, email, name, password string) (*user.User, *auth.TokenPair, error)
	Login(ctx context.Context, email, password string) (*user.User, *auth.TokenPair, error)
}

// TokenService covers rotation and revocation.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
}

// AuthHandler wires the account and token endpoints.
type AuthHandler struct {
	users  UserService
	tokens TokenService
	logger *slog.Logger
}

func NewAuthHandler(users UserService, tokens TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

// Register mounts the auth endpoints.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/refresh", h.handleRefresh)
	r.Post("/auth/logout", h.handleLogout)
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type sessionResponse struct {
	User   userResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[registerRequest](w, r, h.logger)
	if !ok {
		return
	}

	u, pair, err := h.users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sessionResponse{
		User:   userResponse{ID: u.ID, Email: u.Email, Name: u.Name},
		Tokens: pair,
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[loginRequest](w, r, h.logger)
	if !ok {
		return
	}

	u, pair, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		User:   userResponse{ID: u.ID, Email: u.Email, Name: u.Name},
		Tokens: pair,
	})
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[refreshRequest](w, r, h.logger)
	if !ok {
		return
	}

	pair, err := h.tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[refreshRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.tokens.Revoke(r.Context(), req.RefreshToken); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
