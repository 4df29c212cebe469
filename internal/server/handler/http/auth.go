// Package http provides the HTTP handlers and routing of the UserNotepad API.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/UserNotepad/internal/middleware"
	"github.com/atinyakov/UserNotepad/internal/models"
	"github.com/atinyakov/UserNotepad/internal/validation"
)

// AuthService defines the operator operations required by the HTTP handlers.
type AuthService interface {
	// Register creates an operator or returns models.ErrConflict.
	Register(ctx context.Context, in models.RegisterInput) error
	// Login verifies credentials or returns models.ErrUnauthorized.
	Login(ctx context.Context, in models.LoginInput) (models.LoginResult, error)
	// Me returns the profile of the named operator.
	Me(ctx context.Context, username string) (models.Me, error)
}

// AuthHandler handles operator registration, login and profile requests.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Validator   *validation.Validator
	Logger      *zap.Logger
}

// Register handles POST /api/register. The payload is validated before the
// username is checked for uniqueness.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if err := h.Validator.Register(req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	if err := h.AuthService.Register(r.Context(), req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Login handles POST /api/login and responds with a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if err := h.Validator.Login(req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Me handles GET /api/me for the operator behind the session token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetOperatorFromContext(r.Context())
	if username == "" {
		writeError(w, r, h.Logger, models.ErrUnauthorized)
		return
	}

	me, err := h.AuthService.Me(r.Context(), username)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, me)
}
