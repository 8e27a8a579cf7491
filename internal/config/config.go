package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	ServerPort   string
	DatabaseType string // sqlite (default), postgres, mysql
	DatabasePath string // for sqlite
	DatabaseURL  string // for postgres/mysql

	// Admin gate for destructive operations; disabled when the hash is empty
	AdminPasswordHash string
	AdminTokenSecret  string
	AdminTokenTTL     time.Duration

	// Practice digest email (disabled when FromEmail is empty)
	AWSRegion       string
	DigestFromEmail string
	DigestFromName  string
	DigestToEmail   string
	DigestHour      int

	// Client
	ServerURL      string
	CacheDir       string
	StaticMode     bool // skip the network entirely, cache only
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:   getEnv("PORT", "8080"),
		DatabaseType: getEnv("DB_TYPE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "./scalecoach.db"),
		DatabaseURL:  getEnv("DB_URL", ""),

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminTokenSecret:  getEnv("ADMIN_TOKEN_SECRET", ""),
		AdminTokenTTL:     24 * time.Hour,

		AWSRegion:       getEnv("AWS_REGION", "eu-west-1"),
		DigestFromEmail: getEnv("SES_FROM_EMAIL", ""),
		DigestFromName:  getEnv("SES_FROM_NAME", "Scale Coach"),
		DigestToEmail:   getEnv("DIGEST_TO_EMAIL", ""),
		DigestHour:      getEnvInt("DIGEST_HOUR", 7),

		ServerURL:      getEnv("SERVER_URL", "http://localhost:8080"),
		CacheDir:       getEnv("CACHE_DIR", defaultCacheDir()),
		StaticMode:     getEnvBool("STATIC_MODE", false),
		RequestTimeout: 10 * time.Second,
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scalecoach"
	}
	return home + "/.scalecoach"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
