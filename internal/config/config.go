// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	DatabaseURL string
	Port        string
	LogLevel    string

	// Embedding inference endpoint (OpenAI-compatible) and credentials.
	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string

	// Similarity tunables passed through to the match_members procedure.
	// The 0.2 default threshold is inherited configuration, not a verified
	// business rule; treat it as tunable.
	MatchThreshold    float64
	MatchDefaultCount int

	// Deadlines on external calls. The model endpoint and the similarity
	// procedure would otherwise hang a request indefinitely.
	EmbedTimeout  time.Duration
	SearchTimeout time.Duration

	// Max encode calls per second during batch reindexing; 0 disables limiting.
	EmbeddingRateLimit float64

	// Request body cap for the HTTP entrypoint; 0 disables the cap.
	MaxRequestBodyBytes int64
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// Load reads configuration from environment variables and returns a Config struct.
// It automatically loads a .env file if one exists. DATABASE_URL is required and
// Load returns an error before any request is served when it is missing.
func Load() (*Config, error) {
	// Load .env file if it exists. Skip logging when absent (e.g. env from secrets store).
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required but not set")
	}

	matchThreshold := getEnvAsFloat("MATCH_THRESHOLD", 0.2)
	if matchThreshold < 0 || matchThreshold > 1 {
		return nil, errors.New("MATCH_THRESHOLD must be in [0,1]")
	}

	matchDefaultCount := getEnvAsInt("MATCH_DEFAULT_COUNT", 5)
	if matchDefaultCount <= 0 {
		return nil, errors.New("MATCH_DEFAULT_COUNT must be a positive integer")
	}

	cfg := &Config{
		DatabaseURL: databaseURL,
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "http://localhost:8003/v1"),
		EmbeddingAPIKey:  getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "sentence-transformers/all-MiniLM-L6-v2"),

		MatchThreshold:    matchThreshold,
		MatchDefaultCount: matchDefaultCount,

		EmbedTimeout:  time.Duration(getEnvAsInt("EMBED_TIMEOUT_SECONDS", 30)) * time.Second,
		SearchTimeout: time.Duration(getEnvAsInt("SEARCH_TIMEOUT_SECONDS", 10)) * time.Second,

		EmbeddingRateLimit:  getEnvAsFloat("EMBEDDING_RATE_LIMIT", 0),
		MaxRequestBodyBytes: int64(getEnvAsInt("MAX_REQUEST_BODY_BYTES", 1<<20)),
	}

	return cfg, nil
}
