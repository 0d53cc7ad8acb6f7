package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sportsfilio/tournament-hub/config"
	"github.com/sportsfilio/tournament-hub/db"
	"github.com/sportsfilio/tournament-hub/handlers"
	"github.com/sportsfilio/tournament-hub/realtime"
	"github.com/sportsfilio/tournament-hub/repositories"
	"github.com/sportsfilio/tournament-hub/routes"
	"github.com/sportsfilio/tournament-hub/services"
	"github.com/sportsfilio/tournament-hub/storage"
)

const (
	dbConnectTimeout = 10 * time.Second
	shutdownTimeout  = 15 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL, dbConnectTimeout)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.Close()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize file uploader", slog.Any("error", err))
		os.Exit(1)
	}

	hub := realtime.NewHub(logger)
	go hub.Run()

	profileRepo := repositories.NewPostgresProfileRepository(database)
	tournamentRepo := repositories.NewPostgresTournamentRepository(database)
	participantRepo := repositories.NewPostgresParticipantRepository(database)
	actionRepo := repositories.NewPostgresOrganizerActionRepository(database)
	notificationRepo := repositories.NewPostgresNotificationRepository(database)

	profileService := services.NewProfileService(profileRepo)
	notificationService := services.NewNotificationService(notificationRepo, hub, logger)
	authService := services.NewAuthService(profileRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, participantRepo, profileService, uploader, logger)
	registrationService := services.NewRegistrationService(participantRepo, tournamentRepo, profileService, uploader, notificationService, logger)
	approvalService := services.NewApprovalService(participantRepo, tournamentRepo, actionRepo, notificationService, logger)

	jwtSecret := []byte(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, jwtSecret)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	participantHandler := handlers.NewParticipantHandler(registrationService, approvalService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWebSocketHandler(hub, jwtSecret, logger)

	router := routes.SetupRoutes(authHandler, tournamentHandler, participantHandler, notificationHandler, wsHandler, jwtSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		logger.Info("shutting down server", slog.String("signal", s.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info("starting server", slog.Int("port", cfg.ServerPort))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}

	if err := <-shutdownErr; err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
