package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/sports-api/config"
	"github.com/Dosada05/sports-api/db"
	"github.com/Dosada05/sports-api/events"
	"github.com/Dosada05/sports-api/handlers"
	"github.com/Dosada05/sports-api/repositories"
	api "github.com/Dosada05/sports-api/routes"
	"github.com/Dosada05/sports-api/services"
	"github.com/Dosada05/sports-api/storage"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// @title        Sports API
// @version      1.0
// @description  CRUD API for sports.
// @BasePath     /
func main() {
	if err := run(); err != nil {
		slog.Error("application failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("application exited")
}

func run() error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("database_driver", cfg.DatabaseDriver),
		slog.Bool("auth_enabled", cfg.JWTSecretKey != ""),
		slog.Bool("logo_storage_enabled", cfg.R2Enabled()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище видов спорта
	sportRepo, dbConn, err := openSportRepository(ctx, cfg)
	if err != nil {
		return err
	}
	if dbConn != nil {
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
	}

	// Инициализация загрузчика файлов (Cloudflare R2), если настроен
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	hub := events.NewHub(logger)
	sportService := services.NewSportService(sportRepo, uploader, hub, logger)

	var pinger handlers.Pinger
	if dbConn != nil {
		pinger = dbConn
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		Logger:           logger,
		SportHandler:     handlers.NewSportHandler(sportService),
		WebSocketHandler: handlers.NewWebSocketHandler(hub, cfg.CORSAllowedOrigins),
		HealthHandler:    handlers.NewHealthHandler(pinger),
		JWTSecret:        []byte(cfg.JWTSecretKey),
		AllowedOrigins:   cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		logger.Info("websocket hub stopped")
		return nil
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server shutdown complete")
		return nil
	})

	return g.Wait()
}

// openSportRepository returns the store for cfg.DatabaseDriver. The *sql.DB is
// nil for the in-memory store.
func openSportRepository(ctx context.Context, cfg *config.Config) (repositories.SportRepository, *sql.DB, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		slog.Warn("using in-memory sport store; data is lost on restart")
		return repositories.NewMemorySportRepository(), nil, nil
	}

	dbConn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(ctx, dbConn, cfg.DatabaseDriver); err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	slog.Info("database connection established")

	if cfg.DatabaseDriver == config.DriverSQLite {
		return repositories.NewSQLiteSportRepository(dbConn), dbConn, nil
	}
	return repositories.NewPostgresSportRepository(dbConn), dbConn, nil
}
