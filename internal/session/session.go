// Package session issues and verifies the signed tokens that carry a
// caller's authenticated identity between requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/WargaKeeper/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that are malformed, signed with
// another key, issued by someone else, expired or revoked.
var ErrInvalidToken = errors.New("invalid session token")

// Session is the authenticated state of one login.
type Session struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	IssuedAt  time.Time   `json:"issued_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Identity returns the username and role the session was issued for.
func (s Session) Identity() models.Identity {
	return models.Identity{Username: s.Username, Role: s.Role}
}

// IsAdmin reports whether the session may edit and delete records.
func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// RevocationStore remembers logged-out sessions until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, id string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

type claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs session tokens with an HMAC secret.
type Manager struct {
	secret      []byte
	issuer      string
	ttl         time.Duration
	revocations RevocationStore
	now         func() time.Time
}

// NewManager creates a Manager. Tokens expire ttl after issue.
func NewManager(secret, issuer string, ttl time.Duration, revocations RevocationStore) *Manager {
	return &Manager{
		secret:      []byte(secret),
		issuer:      issuer,
		ttl:         ttl,
		revocations: revocations,
		now:         time.Now,
	}
}

// Issue starts a new session for identity and returns its signed token.
func (m *Manager) Issue(identity models.Identity) (string, Session, error) {
	// JWT numeric dates carry whole seconds.
	now := m.now().Truncate(time.Second)
	s := Session{
		ID:        uuid.NewString(),
		Username:  identity.Username,
		Role:      identity.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   s.Username,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			NotBefore: jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, s, nil
}

// Parse verifies token and returns the session it carries. Any token
// problem is reported as ErrInvalidToken; revocation lookup failures are
// returned as they are.
func (m *Manager) Parse(ctx context.Context, token string) (Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.ID == "" || c.Subject == "" || !c.Role.Valid() || c.IssuedAt == nil {
		return Session{}, fmt.Errorf("%w: incomplete claims", ErrInvalidToken)
	}

	revoked, err := m.revocations.IsRevoked(ctx, c.ID)
	if err != nil {
		return Session{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Session{}, fmt.Errorf("%w: session revoked", ErrInvalidToken)
	}

	return Session{
		ID:        c.ID,
		Username:  c.Subject,
		Role:      c.Role,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// Revoke ends s. Its token is rejected by Parse from now on.
func (m *Manager) Revoke(ctx context.Context, s Session) error {
	if err := m.revocations.Revoke(ctx, s.ID, s.ExpiresAt); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
