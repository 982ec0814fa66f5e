package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/auth"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	auth   Authenticator
	logger logging.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(a Authenticator, logger logging.Logger) *AuthHandler {
	return &AuthHandler{auth: a, logger: logger}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the identity it stands for.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Identity  common.Identity `json:"identity"`
}

// RegisterRoutes mounts the auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Get("/auth/me", h.Me)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeAppError(w, h.logger, errors.NewValidationError("email", "email and password are required"))
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Identity:  res.Identity,
	})
}

// Me handles GET /auth/me, echoing the identity resolved from the request.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, authorFrom(r))
}

//Personal.AI order the ending
