package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ishow/feedback-backend/internal/config"
	"github.com/ishow/feedback-backend/internal/database"
	"github.com/ishow/feedback-backend/internal/handlers"
	"github.com/ishow/feedback-backend/internal/logging"
	"github.com/ishow/feedback-backend/internal/middleware"
	"github.com/ishow/feedback-backend/internal/repository"
	"github.com/ishow/feedback-backend/internal/routes"
	"github.com/ishow/feedback-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("failed to read .env file")
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("failed to open feedback store")
	}

	// Redis is optional: admin sessions and cross-instance feed fan-out
	var redisClient *redis.Client
	if cfg.RedisURI != "" {
		logger.WithField("uri", database.MaskURI(cfg.RedisURI)).Info("connecting to Redis")
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to Redis")
		}
	}

	var uploader services.Uploader
	if cfg.CloudinaryConfigured() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, services.CloudinaryOptions{
			Folder:      cfg.UploadFolder,
			Timeout:     cfg.UploadTimeout,
			Concurrency: cfg.UploadConcurrency,
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to initialize Cloudinary")
		}
		uploader = cld
		logger.WithField("folder", cfg.UploadFolder).Info("Cloudinary uploads enabled")
	} else {
		logger.Warn("Cloudinary credentials not found; submissions with an image will fail")
	}

	if cfg.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD not set; every admin login will be rejected")
	}

	feed := services.NewFeedbackFeed(redisClient, logging.Component(logger, "feed"))
	go feed.Run(ctx)

	var sessions *services.AdminSessions
	if redisClient != nil {
		sessions = services.NewAdminSessions(redisClient)
	}

	h := handlers.New(handlers.Deps{
		Feedback:       services.NewFeedbackService(store, uploader, feed, logging.Component(logger, "feedback")),
		Auth:           services.NewAdminAuth(cfg.AdminPassword),
		Sessions:       sessions,
		Feed:           feed,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Log:            logging.Component(logger, "http"),
	})

	opts := routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		Log:            logging.Component(logger, "http"),
	}
	if cfg.RequireAdminSession {
		opts.AdminGate = middleware.RequireAdminSession(sessions, logging.Component(logger, "admin"))
		logger.Info("admin routes require a session token")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(h, opts),
		ReadHeaderTimeout: 10 * time.Second,
		// Uploads to Cloudinary happen inside the request.
		WriteTimeout: cfg.UploadTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":  cfg.Port,
			"env":   cfg.Environment,
			"store": cfg.StoreDriver,
		}).Info("ISHOW feedback API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to close feedback store")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.WithError(err).Error("failed to close Redis client")
		}
	}
}

// openStore connects the configured backend and prepares its indexes or tables.
func openStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.FeedbackStore, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		logger.WithField("uri", database.MaskURI(cfg.PostgresURI)).Info("connecting to PostgreSQL")
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI)
		if err != nil {
			return nil, err
		}
		if err := database.InitPostgresTables(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return repository.NewPostgresStore(db), nil

	case config.StoreMemory:
		logger.Warn("using the in-memory store; feedback is lost on restart")
		return repository.NewMemoryStore(), nil

	default:
		dbName := cfg.MongoDBName
		if dbName == "" {
			dbName = database.DatabaseNameFromURI(cfg.MongoURI)
		}
		logger.WithFields(logrus.Fields{
			"uri":      database.MaskURI(cfg.MongoURI),
			"database": dbName,
		}).Info("connecting to MongoDB")

		client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, dbName)
		if err != nil {
			return nil, err
		}
		store := repository.NewMongoStore(client, db)
		if err := store.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("failed to ensure MongoDB indexes")
		}
		return store, nil
	}
}
