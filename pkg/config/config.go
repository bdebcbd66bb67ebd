package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "supersecretjwtkey"

type Config struct {
	Port     string
	Env      string
	LogLevel string

	PostgresUrl        string
	DBMaxOpenConns     int
	DBStatementTimeout time.Duration
	RunMigrations      bool

	JWTSecret               string
	TokenTTL                time.Duration
	FirebaseCredentialsPath string

	StorageDriver string // disk, gridfs or s3
	UploadDir     string
	PublicBaseURL string
	MongoURI      string
	MongoDatabase string
	S3Endpoint    string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
	S3PublicURL   string

	RedisAddr       string
	RedisPassword   string
	RateLimit       int
	RateLimitWindow time.Duration

	FeedPageSize int
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if one exists.
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	return &Config{
		Port:     port,
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		PostgresUrl:        getEnv("POSTGRES_URL", ""),
		DBMaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBStatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 5*time.Second),
		RunMigrations:      getEnvAsBool("RUN_MIGRATIONS", true),

		JWTSecret:               getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:                getEnvAsDuration("TOKEN_TTL", 72*time.Hour),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "disk")),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "socialgraph"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
		S3PublicURL:   getEnv("S3_PUBLIC_URL", ""),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 60),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),

		FeedPageSize: getEnvAsInt("FEED_PAGE_SIZE", 10),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate reports every setting that would keep the server from starting.
func (c *Config) Validate() error {
	var errs []error

	if c.PostgresUrl == "" {
		errs = append(errs, errors.New("POSTGRES_URL is required"))
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	switch c.StorageDriver {
	case "disk":
		if c.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for disk storage"))
		}
	case "gridfs":
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for gridfs storage"))
		}
	case "s3":
		if c.S3Bucket == "" || c.S3PublicURL == "" {
			errs = append(errs, errors.New("S3_BUCKET and S3_PUBLIC_URL are required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
