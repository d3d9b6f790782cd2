package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/WargaKeeper/internal/db"
	"github.com/atinyakov/WargaKeeper/internal/models"
	"github.com/jmoiron/sqlx"
)

// selectResidents reads every column; mandatory text columns are coalesced
// because the schema allows NULL there for rows written by older tools.
const selectResidents = `SELECT id,
	COALESCE(household_number, '') AS household_number,
	COALESCE(national_id, '') AS national_id,
	COALESCE(full_name, '') AS full_name,
	sex, birth_date, religion, education, occupation, blood_type,
	marital_status, marriage_date, father_name, mother_name,
	head_of_household_name, address, rt, rw, date_issued
	FROM residents`

// ResidentRepository stores resident records.
type ResidentRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sqlx.DB
}

// NewResidentRepository creates a new ResidentRepository using the provided handle.
func NewResidentRepository(db *sqlx.DB) *ResidentRepository {
	return &ResidentRepository{DB: db}
}

// Create inserts the full field set of r and returns the assigned id.
// A national id collision is reported as models.ErrDuplicateNationalID.
func (s *ResidentRepository) Create(ctx context.Context, r models.Resident) (int64, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(models.ResidentColumns)), ", ")
	query := s.DB.Rebind(fmt.Sprintf(
		`INSERT INTO residents (%s) VALUES (%s) RETURNING id`,
		strings.Join(models.ResidentColumns, ", "), placeholders,
	))

	var id int64
	err := db.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		return tx.QueryRowxContext(ctx, query, r.Values()...).Scan(&id)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("create resident %q: %w", r.NationalID, models.ErrDuplicateNationalID)
		}
		return 0, db.Wrap("create resident", err)
	}
	return id, nil
}

// List returns every resident, most recently created first.
func (s *ResidentRepository) List(ctx context.Context) ([]models.Resident, error) {
	residents := []models.Resident{}
	err := db.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &residents, selectResidents+` ORDER BY id DESC`)
	})
	if err != nil {
		return nil, db.Wrap("list residents", err)
	}
	return residents, nil
}

// GetByID fetches a single resident. It returns models.ErrNotFound when
// the id does not exist.
func (s *ResidentRepository) GetByID(ctx context.Context, id int64) (models.Resident, error) {
	query := s.DB.Rebind(selectResidents + ` WHERE id = ?`)

	var r models.Resident
	err := db.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &r, query, id)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Resident{}, models.ErrNotFound
		}
		return models.Resident{}, db.Wrap("get resident", err)
	}
	return r, nil
}

// Update overwrites only the fields supplied in patch.
// It returns models.ErrNotFound for an unknown id and
// models.ErrDuplicateNationalID when the new national id is taken.
func (s *ResidentRepository) Update(ctx context.Context, id int64, patch models.ResidentPatch) error {
	assignments := patch.Assignments()

	err := db.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		if len(assignments) == 0 {
			var exists bool
			if err := tx.QueryRowxContext(ctx, s.DB.Rebind(`SELECT EXISTS(SELECT 1 FROM residents WHERE id = ?)`), id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return models.ErrNotFound
			}
			return nil
		}

		sets := make([]string, 0, len(assignments))
		args := make([]any, 0, len(assignments)+1)
		for _, a := range assignments {
			sets = append(sets, a.Column+" = ?")
			args = append(args, a.Value)
		}
		args = append(args, id)

		query := s.DB.Rebind(`UPDATE residents SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("update resident %d: %w", id, models.ErrNotFound)
	case db.IsUniqueViolation(err):
		return fmt.Errorf("update resident %d: %w", id, models.ErrDuplicateNationalID)
	default:
		return db.Wrap("update resident", err)
	}
}

// Delete permanently removes the resident with the given id.
func (s *ResidentRepository) Delete(ctx context.Context, id int64) error {
	query := s.DB.Rebind(`DELETE FROM residents WHERE id = ?`)

	err := db.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("delete resident %d: %w", id, models.ErrNotFound)
	}
	return db.Wrap("delete resident", err)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
