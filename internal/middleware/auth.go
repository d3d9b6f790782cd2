// Package middleware provides HTTP middlewares for session authentication and logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/WargaKeeper/internal/models"
	"github.com/atinyakov/WargaKeeper/internal/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionParser verifies a bearer token and returns its session.
type SessionParser interface {
	Parse(ctx context.Context, token string) (session.Session, error)
}

// SessionAuth rejects requests that do not carry a valid
// "Authorization: Bearer <token>" header.
//
// On success the parsed session is stored in the request context, where
// handlers retrieve it with SessionFromContext.
func SessionAuth(parser SessionParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "missing session token", http.StatusUnauthorized)
				return
			}

			s, err := parser.Parse(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, session.ErrInvalidToken):
				http.Error(w, "invalid session", http.StatusUnauthorized)
				return
			case errors.Is(err, models.ErrStorageUnavailable):
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireAdmin lets only admin sessions through. It must run after SessionAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			http.Error(w, "missing session token", http.StatusUnauthorized)
			return
		}
		if !s.IsAdmin() {
			http.Error(w, "admin role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext extracts the session stored by SessionAuth.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(session.Session)
	return s, ok
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
