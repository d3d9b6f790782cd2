package repository

import (
	"context"
	"time"

	"github.com/atinyakov/WargaKeeper/internal/db"
	"github.com/jmoiron/sqlx"
)

// RevocationRepository records session ids that were logged out before
// their expiry.
type RevocationRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewRevocationRepository creates a new RevocationRepository.
func NewRevocationRepository(db *sqlx.DB) *RevocationRepository {
	return &RevocationRepository{DB: db}
}

// Revoke stores id until expiresAt. Revoking an id twice is not an error.
func (r *RevocationRepository) Revoke(ctx context.Context, id string, expiresAt time.Time) error {
	query := r.DB.Rebind(`INSERT INTO revoked_sessions (session_id, expires_at) VALUES (?, ?)
		ON CONFLICT (session_id) DO NOTHING`)

	err := db.InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query, id, expiresAt.Unix())
		return err
	})
	return db.Wrap("revoke session", err)
}

// IsRevoked checks whether id has been revoked.
func (r *RevocationRepository) IsRevoked(ctx context.Context, id string) (bool, error) {
	query := r.DB.Rebind(`SELECT EXISTS(SELECT 1 FROM revoked_sessions WHERE session_id = ?)`)

	var revoked bool
	err := db.InTx(ctx, r.DB, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query, id).Scan(&revoked)
	})
	if err != nil {
		return false, db.Wrap("check session revocation", err)
	}
	return revoked, nil
}
