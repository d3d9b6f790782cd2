package db_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/atinyakov/WargaKeeper/internal/db"
)

func TestOpen_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		driver     string
		dsn        string
		wantSubstr string
	}{
		{"invalid DSN", db.DriverPostgres, "host=127.0.0.1 port=1 sslmode=disable connect_timeout=1", "ping postgres"},
		{"unsupported driver", "mysql", "root@/registry", "unsupported database driver"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.Open(tc.driver, tc.dsn)
			if err == nil {
				t.Fatalf("Open(%q, %q) did not return error", tc.driver, tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("Open(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}

func TestOpen_SQLiteCreatesSchema(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "registry.db")

	database, err := db.Open(db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer database.Close()

	for _, table := range []string{"users", "residents", "revoked_sessions"} {
		var n int
		err := database.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s not created", table)
		}
	}

	// Re-opening an existing file must be idempotent.
	again, err := db.Open(db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	_ = again.Close()
}

func TestSchema_PerDriver(t *testing.T) {
	pg, err := db.Schema(db.DriverPGX)
	if err != nil {
		t.Fatalf("Schema(pgx): %v", err)
	}
	if !strings.Contains(pg[1], "SERIAL PRIMARY KEY") {
		t.Errorf("postgres residents DDL should use SERIAL: %s", pg[1])
	}

	lite, err := db.Schema(db.DriverSQLite)
	if err != nil {
		t.Fatalf("Schema(sqlite): %v", err)
	}
	if !strings.Contains(lite[1], "AUTOINCREMENT") {
		t.Errorf("sqlite residents DDL should use AUTOINCREMENT: %s", lite[1])
	}
	for _, stmt := range append(pg, lite...) {
		if strings.Contains(stmt, "national_id") && !strings.Contains(stmt, "national_id TEXT UNIQUE") {
			t.Errorf("national_id must be UNIQUE: %s", stmt)
		}
	}
}

func TestOpen_SQLiteBusyTimeout(t *testing.T) {
	database, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "busy.db"))
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer database.Close()

	var timeout int
	if err := database.Get(&timeout, `PRAGMA busy_timeout`); err != nil {
		t.Fatalf("read busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d; want 5000", timeout)
	}
}
