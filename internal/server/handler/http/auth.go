// Package http provides the HTTP handlers and router of the registry service.
package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/WargaKeeper/internal/metrics"
	"github.com/atinyakov/WargaKeeper/internal/middleware"
	"github.com/atinyakov/WargaKeeper/internal/models"
	"github.com/atinyakov/WargaKeeper/internal/session"
	"go.uber.org/zap"
)

// CredentialService defines the credential operations
// required by the HTTP handlers.
type CredentialService interface {
	// Register stores a new user with role "user".
	Register(ctx context.Context, username, password string) (models.User, error)
	// Authenticate verifies a username and password.
	Authenticate(ctx context.Context, username, password string) (models.Identity, error)
}

// SessionIssuer starts and ends sessions.
type SessionIssuer interface {
	Issue(identity models.Identity) (string, session.Session, error)
	Revoke(ctx context.Context, s session.Session) error
}

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	// CredentialService performs the underlying credential operations.
	CredentialService CredentialService
	// Sessions issues and revokes session tokens.
	Sessions SessionIssuer
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// CredentialsRequest represents the JSON payload for registration and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the session it encodes.
type LoginResponse struct {
	Token   string          `json:"token"`
	Session session.Session `json:"session"`
}

// Register handles POST /api/register.
// It responds 201 with the created user; the password hash is never returned.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDecodeError(w, err, "invalid request")
		return
	}

	user, err := h.CredentialService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.Log, "register", err)
		return
	}
	h.Metrics.IncrementUsersRegistered()

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/login.
// On success it returns a bearer token valid until the session expires.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDecodeError(w, err, "invalid request")
		return
	}

	identity, err := h.CredentialService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.Metrics.ObserveLogin(false)
		writeError(w, h.Log, "login", err)
		return
	}

	token, s, err := h.Sessions.Issue(identity)
	if err != nil {
		h.Metrics.ObserveLogin(false)
		writeError(w, h.Log, "issue session", err)
		return
	}
	h.Metrics.ObserveLogin(true)

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Session: s})
}

// Logout handles POST /api/logout. The presented token stops working.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}

	if err := h.Sessions.Revoke(r.Context(), s); err != nil {
		writeError(w, h.Log, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/session and echoes the caller's session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
