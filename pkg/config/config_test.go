package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("TOKEN_TTL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "disk", cfg.StorageDriver)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("POSTGRES_URL", "postgres://u:p@db:5432/app")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_STATEMENT_TIMEOUT", "250ms")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 7, cfg.DBMaxOpenConns)
	assert.Equal(t, 250*time.Millisecond, cfg.DBStatementTimeout)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, "s3", cfg.StorageDriver)
	assert.Equal(t, 60, cfg.RateLimit)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:           "development",
			PostgresUrl:   "postgres://localhost/app",
			JWTSecret:     defaultJWTSecret,
			TokenTTL:      time.Hour,
			StorageDriver: "disk",
			UploadDir:     "./uploads",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing postgres", func(c *Config) { c.PostgresUrl = "" }, "POSTGRES_URL"},
		{"default secret in production", func(c *Config) { c.Env = "production" }, "JWT_SECRET"},
		{"gridfs without mongo", func(c *Config) { c.StorageDriver = "gridfs" }, "MONGO_URI"},
		{"s3 without bucket", func(c *Config) { c.StorageDriver = "s3" }, "S3_BUCKET"},
		{"unknown driver", func(c *Config) { c.StorageDriver = "ftp" }, "STORAGE_DRIVER"},
		{"non-positive ttl", func(c *Config) { c.TokenTTL = 0 }, "TOKEN_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestWithStatementTimeout(t *testing.T) {
	assert.Equal(t,
		"postgres://u:p@db:5432/app?sslmode=disable&statement_timeout=5000",
		withStatementTimeout("postgres://u:p@db:5432/app?sslmode=disable", 5*time.Second))
	assert.Equal(t,
		"host=db dbname=app statement_timeout=1500",
		withStatementTimeout("host=db dbname=app", 1500*time.Millisecond))
	assert.Equal(t,
		"postgres://db/app?statement_timeout=10",
		withStatementTimeout("postgres://db/app?statement_timeout=10", time.Second))
	assert.Equal(t, "postgres://db/app", withStatementTimeout("postgres://db/app", 0))
}
