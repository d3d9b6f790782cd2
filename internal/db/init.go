// Package db opens the relational store behind the registry, applies its
// schema and classifies driver errors. The engine is chosen by driver name:
// embedded SQLite or networked PostgreSQL through lib/pq or pgx.
package db

import (
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

const postgresUsers = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user'
)`

const sqliteUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user'
)`

const residentColumns = `
    household_number TEXT,
    national_id TEXT UNIQUE,
    full_name TEXT,
    sex TEXT,
    birth_date DATE,
    religion TEXT,
    education TEXT,
    occupation TEXT,
    blood_type TEXT,
    marital_status TEXT,
    marriage_date DATE,
    father_name TEXT,
    mother_name TEXT,
    head_of_household_name TEXT,
    address TEXT,
    rt TEXT,
    rw TEXT,
    date_issued DATE
)`

const revokedSessions = `
CREATE TABLE IF NOT EXISTS revoked_sessions (
    session_id TEXT PRIMARY KEY,
    expires_at BIGINT NOT NULL
)`

// Schema returns the DDL statements for driver, in execution order.
func Schema(driver string) ([]string, error) {
	switch driver {
	case DriverPostgres, DriverPGX:
		return []string{
			postgresUsers,
			"\nCREATE TABLE IF NOT EXISTS residents (\n    id SERIAL PRIMARY KEY," + residentColumns,
			revokedSessions,
		}, nil
	case DriverSQLite:
		return []string{
			sqliteUsers,
			"\nCREATE TABLE IF NOT EXISTS residents (\n    id INTEGER PRIMARY KEY AUTOINCREMENT," + residentColumns,
			revokedSessions,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects to the store, verifies the connection and creates the schema.
func Open(driver, dsn string) (*sqlx.DB, error) {
	stmts, err := Schema(driver)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		dsn = withBusyTimeout(dsn)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// One writer at a time; concurrent callers queue on the pool.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, Wrap("ping "+driver, err)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return db, nil
}

// withBusyTimeout makes SQLite wait for locks held by other processes
// instead of failing with SQLITE_BUSY.
func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}
