package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/socialgraph/backend/internal/auth"
	"github.com/anonto42/socialgraph/backend/internal/logging"
	"github.com/anonto42/socialgraph/backend/internal/migrations"
	"github.com/anonto42/socialgraph/backend/internal/ratelimit"
	"github.com/anonto42/socialgraph/backend/internal/router"
	"github.com/anonto42/socialgraph/backend/internal/storage"
	"github.com/anonto42/socialgraph/backend/pkg/config"
	"github.com/anonto42/socialgraph/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.Env)

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if cfg.RunMigrations {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			return err
		}
		if err := migrations.Up(ctx, sqlDB); err != nil {
			return err
		}
		log.Info(ctx, "migrations applied")
	}

	store, uploadDir, err := newStore(ctx, cfg, db)
	if err != nil {
		return err
	}

	deps := router.Deps{
		DB:           db.Postgres,
		Logger:       log,
		Tokens:       auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Store:        store,
		UploadDir:    uploadDir,
		FeedPageSize: cfg.FeedPageSize,
	}

	// Initialize Firebase
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case err == nil:
		deps.Verifier = auth.NewFirebaseVerifier(firebaseApp.AuthClient)
	case errors.Is(err, firebase.ErrNotConfigured):
		log.Warn(ctx, "firebase login disabled")
	default:
		return err
	}

	if client := config.NewRedisClient(ctx, cfg, log); client != nil {
		defer client.Close()
		if limiter := ratelimit.NewRedisLimiter(client, cfg.RateLimit, cfg.RateLimitWindow); limiter != nil {
			deps.Limiter = limiter
		}
	}

	e := echo.New()
	router.SetupMiddleware(e, log)
	router.SetupRoutes(e, deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newStore builds the image store selected by STORAGE_DRIVER. The returned
// directory is non-empty only for disk storage.
func newStore(ctx context.Context, cfg *config.Config, db *config.DB) (storage.Store, string, error) {
	switch cfg.StorageDriver {
	case "gridfs":
		store, err := storage.NewGridFSStore(db.Mongo.Database(cfg.MongoDatabase), cfg.PublicBaseURL)
		return store, "", err
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		return store, "", err
	default:
		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			return nil, "", fmt.Errorf("create upload dir: %w", err)
		}
		return storage.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL), cfg.UploadDir, nil
	}
}
