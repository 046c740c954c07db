package config

import (
	"fmt"
	"time"

	"eduportal-backend/internal/database"
	"eduportal-backend/pkg/env"
)

// Config holds all service configuration loaded from the environment
type Config struct {
	Env  string
	Port string

	JWTSecret         string
	AccessTokenExpiry time.Duration

	Firestore database.FirestoreConfig
	Postgres  database.PostgresConfig
	Redis     database.RedisConfig

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOBucket    string
}

// Load reads configuration from environment variables, with Docker secret
// support for credentials via the _FILE convention
func Load() (*Config, error) {
	cfg := &Config{
		Env:  env.GetString("ENV", "development"),
		Port: env.GetString("PORT", "8080"),

		JWTSecret:         env.GetStringFromFile("JWT_SECRET", ""),
		AccessTokenExpiry: env.GetDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),

		Firestore: database.FirestoreConfig{
			ProjectID:       env.GetString("FIRESTORE_PROJECT_ID", ""),
			CredentialsPath: env.GetString("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},

		Postgres: database.PostgresConfig{
			Host:     env.GetString("POSTGRES_HOST", "localhost"),
			Port:     env.GetInt("POSTGRES_PORT", 5432),
			User:     env.GetString("POSTGRES_USER", "eduportal"),
			Password: env.GetStringFromFile("POSTGRES_PASSWORD", ""),
			Database: env.GetString("POSTGRES_DATABASE", "eduportal_db"),
			SSLMode:  env.GetString("POSTGRES_SSLMODE", "disable"),
		},

		Redis: database.RedisConfig{
			Host:     env.GetString("REDIS_HOST", "localhost"),
			Port:     env.GetInt("REDIS_PORT", 6379),
			Password: env.GetStringFromFile("REDIS_PASSWORD", ""),
			DB:       env.GetInt("REDIS_DB", 0),
			PoolSize: env.GetInt("REDIS_POOL_SIZE", 10),
			Timeout:  env.GetDuration("REDIS_TIMEOUT", 5*time.Second),
		},

		MinIOEndpoint:  env.GetString("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: env.GetStringFromFile("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: env.GetStringFromFile("MINIO_SECRET_KEY", "minioadmin"),
		MinIOUseSSL:    env.GetBool("MINIO_USE_SSL", false),
		MinIOBucket:    env.GetString("MINIO_BUCKET", "eduportal-attachments"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if cfg.Firestore.ProjectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID environment variable is required")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
