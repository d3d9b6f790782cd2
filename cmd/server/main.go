// Package main initializes and starts the WargaKeeper registry server,
// setting up configuration, logging, storage, repositories, services,
// handlers and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/WargaKeeper/internal/certgen"
	"github.com/atinyakov/WargaKeeper/internal/config"
	"github.com/atinyakov/WargaKeeper/internal/db"
	"github.com/atinyakov/WargaKeeper/internal/logger"
	"github.com/atinyakov/WargaKeeper/internal/metrics"
	"github.com/atinyakov/WargaKeeper/internal/repository"
	"github.com/atinyakov/WargaKeeper/internal/server/handler/http"
	"github.com/atinyakov/WargaKeeper/internal/service"
	"github.com/atinyakov/WargaKeeper/internal/session"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const (
	sessionIssuer   = "wargakeeper"
	cleanInterval   = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Parse .env, flags, config file and environment.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	if err := run(options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(options *config.Options, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open storage and apply the schema.
	database, err := db.Open(options.DatabaseDriver, options.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("cannot init database: %w", err)
	}
	defer database.Close()
	zapLogger.Info("storage ready", zap.String("driver", options.DatabaseDriver))

	// Initialize repositories.
	userRepo := repository.NewUserRepository(database)
	residentRepo := repository.NewResidentRepository(database)
	revocationRepo := repository.NewRevocationRepository(database)

	// Initialize business-logic services.
	credentialService := service.NewCredentialService(userRepo)
	registryService := service.NewRegistryService(residentRepo)
	sessions := session.NewManager(options.SessionSecret, sessionIssuer, options.SessionLifetime, revocationRepo)

	if options.BootstrapAdmin() {
		created, err := credentialService.EnsureAdmin(ctx, options.AdminUsername, options.AdminPassword)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		zapLogger.Info("admin account checked",
			zap.String("username", options.AdminUsername),
			zap.Bool("created", created),
		)
	}

	m := metrics.New()

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Auth: &http.AuthHandler{
			CredentialService: credentialService,
			Sessions:          sessions,
			Metrics:           m,
			Log:               zapLogger,
		},
		Residents: &http.ResidentHandler{RegistryService: registryService, Metrics: m, Log: zapLogger},
		Health:    &http.HealthHandler{DB: database, Log: zapLogger},
		Metrics:   m.Handler(),
		Sessions:  sessions,
	}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if options.TLSEnabled() {
		server.TLSConfig, err = certgen.ServerTLSConfig(options.TLSCert, options.TLSKey)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	// Purge expired session revocations until shutdown.
	db.StartRevocationCleaner(gctx, database, cleanInterval, zapLogger)

	g.Go(func() error {
		zapLogger.Info("starting server",
			zap.String("addr", options.Address),
			zap.Bool("tls", options.TLSEnabled()),
		)
		var err error
		if options.TLSEnabled() {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
