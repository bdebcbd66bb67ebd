// Package migrations owns the relational schema: versioned PostgreSQL DDL
// applied with goose, and a gorm AutoMigrate path for embedded databases.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/anonto42/socialgraph/backend/internal/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var Migrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func setup() error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Up applies every pending PostgreSQL migration.
func Up(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "sql"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, "sql"); err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}
	return nil
}

// Status logs the applied state of every migration through goose's logger.
func Status(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, db, "sql"); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// Tables lists the persisted models in dependency order.
func Tables() []any {
	return []any{
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
	}
}

// AutoMigrate creates the schema from the gorm models. The model tags carry
// the same keys, checks and cascades as the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Tables()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
