// Package repository provides persistence implementations for users,
// resident records and session revocations.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/WargaKeeper/internal/db"
	"github.com/atinyakov/WargaKeeper/internal/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository stores user identities.
type UserRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewUserRepository creates a new UserRepository with the given database connection.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser inserts a new user row and returns it with its assigned id.
// A username collision is reported as models.ErrDuplicateUsername.
func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := r.DB.Rebind(`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?) RETURNING id`)

	err := db.InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.Role).Scan(&user.ID)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("create user %q: %w", user.Username, models.ErrDuplicateUsername)
		}
		return models.User{}, db.Wrap("create user", err)
	}
	return user, nil
}

// FindByUsername fetches a user by exact username.
// It returns models.ErrNotFound when no such user exists.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	query := r.DB.Rebind(`SELECT id, username, password_hash, role FROM users WHERE username = ?`)

	var user models.User
	err := db.InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &user, query, username)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, db.Wrap("find user", err)
	}
	return user, nil
}

// EnsureUser inserts user unless the username is already taken, in which
// case the existing row is left untouched and created is false.
func (r *UserRepository) EnsureUser(ctx context.Context, user models.User) (created bool, err error) {
	query := r.DB.Rebind(`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)
		ON CONFLICT (username) DO NOTHING`)

	err = db.InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, user.Username, user.PasswordHash, user.Role)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		created = n > 0
		return nil
	})
	if err != nil {
		return false, db.Wrap("ensure user", err)
	}
	return created, nil
}
