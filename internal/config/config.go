// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON file, a .env file
// and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address defines the server's listening address (ip:port).
	Address string `json:"server_address"`

	// DatabaseDSN holds the database connection string for the application.
	DatabaseDSN string `json:"database_dsn"`

	// DatabaseDriver selects the engine: "sqlite", "postgres" or "pgx".
	DatabaseDriver string `json:"database_driver"`

	// SessionSecret signs session tokens.
	SessionSecret string `json:"session_secret"`

	// SessionTTL is the session lifetime as a Go duration string.
	SessionTTL string `json:"session_ttl"`

	// AdminUsername and AdminPassword, when both set, make startup ensure
	// an admin account exists.
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`

	// LogLevel is the minimum zap level.
	LogLevel string `json:"log_level"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// SessionLifetime is SessionTTL parsed.
	SessionLifetime time.Duration `json:"-"`
}

// Parse loads .env (when present), then reads flags from os.Args, the
// config file and the environment, in that order of precedence from
// lowest to highest.
func Parse() (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Load(os.Args[1:], os.Getenv)
}

// Load builds Options from args, the JSON config file and getenv.
func Load(args []string, getenv func(string) string) (*Options, error) {
	options := &Options{
		DatabaseDriver: "sqlite",
		SessionTTL:     "24h",
		LogLevel:       "info",
	}

	fset := flag.NewFlagSet("wargakeeper", flag.ContinueOnError)
	fset.StringVar(&options.Address, "a", "localhost:8080", "run on ip:port server")
	fset.StringVar(&options.DatabaseDSN, "d", "", "database DSN")
	fset.StringVar(&options.DatabaseDriver, "driver", options.DatabaseDriver, "database driver: sqlite, postgres or pgx")
	fset.StringVar(&options.Config, "config", "config.json", "path to config file")
	fset.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	if configPath := getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		data, err := os.ReadFile(options.Config)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	for env, field := range map[string]*string{
		"SERVER_ADDRESS":  &options.Address,
		"DATABASE_DSN":    &options.DatabaseDSN,
		"DATABASE_DRIVER": &options.DatabaseDriver,
		"SESSION_SECRET":  &options.SessionSecret,
		"SESSION_TTL":     &options.SessionTTL,
		"ADMIN_USERNAME":  &options.AdminUsername,
		"ADMIN_PASSWORD":  &options.AdminPassword,
		"LOG_LEVEL":       &options.LogLevel,
		"TLS_CERT":        &options.TLSCert,
		"TLS_KEY":         &options.TLSKey,
	} {
		if v := getenv(env); v != "" {
			*field = v
		}
	}

	if err := options.validate(); err != nil {
		return nil, err
	}
	return options, nil
}

func (o *Options) validate() error {
	if o.DatabaseDSN == "" {
		return errors.New("database DSN is required")
	}
	switch o.DatabaseDriver {
	case "sqlite", "postgres", "pgx":
	default:
		return fmt.Errorf("unsupported database driver %q", o.DatabaseDriver)
	}
	if o.SessionSecret == "" {
		return errors.New("session secret is required")
	}

	ttl, err := time.ParseDuration(o.SessionTTL)
	if err != nil {
		return fmt.Errorf("invalid session TTL: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", ttl)
	}
	o.SessionLifetime = ttl

	if (o.AdminUsername == "") != (o.AdminPassword == "") {
		return errors.New("admin username and password must be set together")
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		return errors.New("TLS certificate and key must be set together")
	}
	return nil
}

// BootstrapAdmin reports whether an admin account is configured.
func (o *Options) BootstrapAdmin() bool {
	return o.AdminUsername != ""
}

// TLSEnabled reports whether the server should serve HTTPS.
func (o *Options) TLSEnabled() bool {
	return o.TLSCert != ""
}
