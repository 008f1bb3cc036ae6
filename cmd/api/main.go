package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumeon/visage/internal/api"
	"github.com/lumeon/visage/internal/audit"
	"github.com/lumeon/visage/internal/config"
	"github.com/lumeon/visage/internal/face"
	"github.com/lumeon/visage/internal/match"
	"github.com/lumeon/visage/internal/provider"
	"github.com/lumeon/visage/internal/quality"
	"github.com/lumeon/visage/internal/repository"
	"github.com/lumeon/visage/internal/service"
	"github.com/lumeon/visage/internal/storage"
	"github.com/lumeon/visage/internal/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Visage API",
		slog.String("environment", cfg.Environment),
		slog.String("provider", cfg.ProviderType),
		slog.Int("port", cfg.Port),
	)

	ctx := context.Background()

	// Database pool
	db, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create database pool: %w", err)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := db.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Face provider (deepface, rekognition or mock)
	faceProvider, err := face.NewFaceProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create face provider: %w", err)
	}

	// Repositories
	identityRepo := repository.NewIdentityRepository(db)
	encodingRepo := repository.NewEncodingRepository(db, cfg.MaxFacesPerUser)
	authLogRepo := repository.NewAuthLogRepository(db)

	// Core services
	gate := quality.NewGate(faceProvider)
	extractor := provider.NewExtractor(faceProvider)
	artifacts := storage.NewImageStore(cfg.FaceImagesDir)
	threshold := match.NewThreshold(cfg.MatchThreshold)
	auditLogger := audit.NewSlogLogger(logger)
	jwtService := token.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiresIn)

	authService := service.NewAuthService(
		identityRepo,
		encodingRepo,
		authLogRepo,
		gate,
		extractor,
		artifacts,
		threshold,
		auditLogger,
		logger,
	).WithProviderName(cfg.ProviderType).WithScanTimeout(cfg.ScanTimeout)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		AuthService: authService,
		JWTService:  jwtService,
	})
	router.Setup()

	// Graceful shutdown
	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-signalCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
