// Package service holds the credential and registry business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/atinyakov/WargaKeeper/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordRunes = 6
	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

// UserRepository defines the persistence operations
// required by the credential service.
type UserRepository interface {
	// CreateUser inserts user and returns it with its id assigned.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindByUsername returns models.ErrNotFound for unknown usernames.
	FindByUsername(ctx context.Context, username string) (models.User, error)
	// EnsureUser inserts user unless the username is taken.
	EnsureUser(ctx context.Context, user models.User) (bool, error)
}

// CredentialService registers and authenticates users.
type CredentialService struct {
	// repo performs the data-layer operations.
	repo UserRepository
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewCredentialService constructs a CredentialService using the provided repository.
func NewCredentialService(repo UserRepository) *CredentialService {
	return &CredentialService{repo: repo, cost: bcrypt.DefaultCost}
}

// Register validates the credentials and stores a new user with role "user".
func (s *CredentialService) Register(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.newUser(username, password, models.RoleUser)
	if err != nil {
		return models.User{}, err
	}
	return s.repo.CreateUser(ctx, user)
}

// Authenticate checks password against the stored hash for username.
// Unknown users and wrong passwords both yield models.ErrInvalidCredentials.
// The username is trimmed the same way Register trims it.
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (models.Identity, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, models.ErrNotFound) {
		// Burn the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return models.Identity{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Identity{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.Identity{}, models.ErrInvalidCredentials
	}
	return models.Identity{Username: user.Username, Role: user.Role}, nil
}

// EnsureAdmin creates an admin account unless the username already exists.
// An existing user keeps its password and role.
func (s *CredentialService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	user, err := s.newUser(username, password, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	return s.repo.EnsureUser(ctx, user)
}

func (s *CredentialService) newUser(username, password string, role models.Role) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	if utf8.RuneCountInString(password) < minPasswordRunes {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordRunes)
	}
	if len(password) > maxPasswordBytes {
		return models.User{}, fmt.Errorf("%w: password must be at most %d bytes", models.ErrValidation, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	return models.User{Username: username, PasswordHash: string(hash), Role: role}, nil
}

func (s *CredentialService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("wargakeeper-dummy-password"), s.cost)
	})
	return s.dummyHash
}
