// Package main initializes and starts the UserNotepad HTTP(S) server,
// setting up configuration, logging, database connections, repositories,
// services and handlers.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/UserNotepad/internal/config"
	"github.com/atinyakov/UserNotepad/internal/db"
	"github.com/atinyakov/UserNotepad/internal/logger"
	"github.com/atinyakov/UserNotepad/internal/report"
	"github.com/atinyakov/UserNotepad/internal/repository"
	"github.com/atinyakov/UserNotepad/internal/server/handler/http"
	"github.com/atinyakov/UserNotepad/internal/service"
	"github.com/atinyakov/UserNotepad/internal/token"
	"github.com/atinyakov/UserNotepad/internal/validation"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// Parse command-line, config file and environment configuration.
	options, err := config.Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	zl := logger.New()
	if err := zl.Init(options.LogLevel); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	zapLogger := zl.Log
	defer func() { _ = zapLogger.Sync() }()

	// Initialize PostgreSQL connection and apply migrations.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	tokens := token.NewJWT(options.JWT.Secret, options.JWT.Issuer, options.JWT.Audience, options.JWT.TTL())
	validator := validation.New(validation.WithPasswordMinLength(options.PasswordMinLength))

	// Initialize repositories and business-logic services.
	operatorRepo := repository.NewPostgresOperatorRepository(postgresDB)
	personRepo := repository.NewPostgresPersonRepository(postgresDB)

	authService := service.NewAuthService(operatorRepo, tokens, zapLogger)
	personService := service.NewPersonService(personRepo, report.NewRenderer(), zapLogger)

	if options.Seed {
		if err := service.Seed(ctx, authService, personService, zapLogger); err != nil {
			zapLogger.Fatal("failed to seed database", zap.Error(err))
		}
	}

	// Create HTTP handlers and build the router.
	authHandler := &http.AuthHandler{AuthService: authService, Validator: validator, Logger: zapLogger}
	userHandler := &http.UserHandler{Persons: personService, Validator: validator, Logger: zapLogger, Now: time.Now}
	router := http.NewRouter(authHandler, userHandler, tokens, options.CORSOrigins, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if options.TLSEnabled() {
			server.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address))
			serveErr <- server.ListenAndServeTLS(options.TLSCertFile, options.TLSKeyFile)
			return
		}
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("received interruption signal, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("error during server shutdown", zap.Error(err))
	}
	zapLogger.Info("shutdown complete")
}
