package repository

import (
	"context"
	"errors"
	"net"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/WargaKeeper/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func setupAuthMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	return NewUserRepository(db), mock
}

const insertUser = `INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)`

func TestCreateUser_Success(t *testing.T) {
	repo, mock := setupAuthMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertUser + ` RETURNING id`)).
		WithArgs("alice", "hash", "user").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectCommit()

	user, err := repo.CreateUser(context.Background(), models.User{Username: "alice", PasswordHash: "hash", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 7 || user.Username != "alice" || user.Role != models.RoleUser {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	repo, mock := setupAuthMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertUser)).
		WithArgs("alice", "hash", "user").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
	mock.ExpectRollback()

	_, err := repo.CreateUser(context.Background(), models.User{Username: "alice", PasswordHash: "hash", Role: models.RoleUser})
	if !errors.Is(err, models.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindByUsername_Found(t *testing.T) {
	repo, mock := setupAuthMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, role FROM users WHERE username = $1`)).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role"}).
			AddRow(int64(2), "bob", "$2a$10$hash", "admin"))
	mock.ExpectCommit()

	user, err := repo.FindByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 2 || user.Role != models.RoleAdmin || user.PasswordHash != "$2a$10$hash" {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindByUsername_NotFound(t *testing.T) {
	repo, mock := setupAuthMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, role FROM users`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role"}))
	mock.ExpectRollback()

	_, err := repo.FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindByUsername_StorageUnavailable(t *testing.T) {
	repo, mock := setupAuthMock(t)

	mock.ExpectBegin().WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})

	_, err := repo.FindByUsername(context.Background(), "bob")
	if !errors.Is(err, models.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestEnsureUser(t *testing.T) {
	tests := []struct {
		name        string
		affected    int64
		wantCreated bool
	}{
		{"inserted", 1, true},
		{"already present", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupAuthMock(t)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(insertUser)).
				WithArgs("root", "hash", "admin").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			created, err := repo.EnsureUser(context.Background(), models.User{Username: "root", PasswordHash: "hash", Role: models.RoleAdmin})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created != tt.wantCreated {
				t.Errorf("created = %v; want %v", created, tt.wantCreated)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestEnsureUser_Error(t *testing.T) {
	repo, mock := setupAuthMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertUser)).
		WithArgs("root", "hash", "admin").
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	_, err := repo.EnsureUser(context.Background(), models.User{Username: "root", PasswordHash: "hash", Role: models.RoleAdmin})
	if err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
