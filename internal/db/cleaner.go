package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// StartRevocationCleaner purges expired session revocations every interval
// until ctx is cancelled. A revocation is only needed while the token it
// blocks could still be presented.
func StartRevocationCleaner(
	ctx context.Context,
	db *sqlx.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	query := db.Rebind(`DELETE FROM revoked_sessions WHERE expires_at < ?`)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, query, time.Now().Unix())
				if err != nil {
					log.Error("failed to clean expired session revocations", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired session revocations", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
