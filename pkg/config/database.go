package config

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/socialgraph/backend/internal/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connections
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client // nil unless images are kept in GridFS

	log logging.Logger
}

// InitDB opens PostgreSQL and, for GridFS storage, MongoDB.
func InitDB(ctx context.Context, cfg *Config, log logging.Logger) (*DB, error) {
	postgresDB, err := initPostgres(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info(ctx, "connected to PostgreSQL", "max_open_conns", cfg.DBMaxOpenConns)

	db := &DB{Postgres: postgresDB, log: log}
	if cfg.StorageDriver == "gridfs" {
		if db.Mongo, err = initMongo(ctx, cfg.MongoURI); err != nil {
			db.CloseDB()
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		log.Info(ctx, "connected to MongoDB")
	}
	return db, nil
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(withStatementTimeout(cfg.PostgresUrl, cfg.DBStatementTimeout)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// withStatementTimeout adds a server side statement_timeout to the DSN so no
// query can hold a pooled connection indefinitely. Both URL and keyword/value
// DSNs are supported.
func withStatementTimeout(dsn string, timeout time.Duration) string {
	if timeout <= 0 {
		return dsn
	}
	ms := strconv.FormatInt(timeout.Milliseconds(), 10)

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		if q.Get("statement_timeout") == "" {
			q.Set("statement_timeout", ms)
		}
		u.RawQuery = q.Encode()
		return u.String()
	}

	if strings.Contains(dsn, "statement_timeout=") {
		return dsn
	}
	return strings.TrimSpace(dsn + " statement_timeout=" + ms)
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	ctx := context.Background()

	if db.Postgres != nil {
		if sqlDB, err := db.Postgres.DB(); err != nil {
			db.log.Error(ctx, "get sql db from gorm", "error", err)
		} else if err := sqlDB.Close(); err != nil {
			db.log.Error(ctx, "close PostgreSQL", "error", err)
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.log.Error(ctx, "close MongoDB", "error", err)
		}
	}
}
