package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (optional; enables rate limiting when set)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Image storage: when S3Bucket is set images go to S3, otherwise to
	// MediaDir on local disk.
	S3Bucket  string
	AWSRegion string
	MediaDir  string
}

// LoadConfig creates a new Config instance. Every value is read from the
// environment first and falls back to a Docker secret of the lowercased
// name under SECRETS_DIR.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:    getValue("SERVER_PORT", "8000"),
		ServerHost:    getValue("SERVER_HOST", "0.0.0.0"),
		DBHost:        getValue("DB_HOST", "localhost"),
		DBPort:        getValue("DB_PORT", "5432"),
		DBUser:        getValue("DB_USER", ""),
		DBPassword:    getValue("DB_PASSWORD", ""),
		DBName:        getValue("DB_NAME", ""),
		DBSSLMode:     getValue("DB_SSL_MODE", "disable"),
		RedisHost:     getValue("REDIS_HOST", ""),
		RedisPort:     getValue("REDIS_PORT", "6379"),
		RedisPassword: getValue("REDIS_PASSWORD", ""),
		RedisDB:       0,
		JWTSecret:     getValue("JWT_SECRET", ""),
		S3Bucket:      getValue("S3_BUCKET_NAME", ""),
		AWSRegion:     getValue("AWS_REGION", ""),
		MediaDir:      getValue("MEDIA_DIR", "media"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getValue reads an environment variable, falling back to the Docker
// secret of the same (lowercased) name, then to the default.
func getValue(envKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if v := readSecret(strings.ToLower(envKey)); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// ValidateConfig checks that the values a running server cannot do
// without are present.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if cfg.DBPassword == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}
	if cfg.DBName == "" {
		errs = append(errs, "DB_NAME is required")
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errs = append(errs, "AWS_REGION is required when S3_BUCKET_NAME is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
