package config

import (
	"os"
	"strconv"
	"time"

	"github.com/helpdesk-labs/support-agent/internal/vectorstore"
)

// Config carries all environment-driven settings for the service.
type Config struct {
	Environment string
	LogLevel    string
	APIPort     string

	AWSRegion         string
	ClaudeModelID     string
	ClaudeMiniModelID string
	EmbeddingModelID  string

	RedisAddr     string
	RedisPassword string
	RedisTTL      time.Duration

	VectorDB vectorstore.Config

	ConnectMaxRetries   int
	RetrievalConfigPath string
}

// Load reads configuration from the environment with sensible defaults.
// Call godotenv.Load first if a .env file should be honored.
func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		APIPort:     getEnv("API_PORT", "8080"),

		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:     getEnv("CLAUDE_MODEL_ID", ""),
		ClaudeMiniModelID: getEnv("CLAUDE_MINI_MODEL_ID", ""),
		EmbeddingModelID:  getEnv("EMBEDDING_MODEL_ID", "amazon.titan-embed-text-v2:0"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTTL:      getEnvDuration("REDIS_TTL", 30*time.Minute),

		VectorDB: vectorstore.Config{
			Host:     getEnv("VECTOR_DB_HOST", "localhost"),
			Port:     getEnv("VECTOR_DB_PORT", "5432"),
			User:     getEnv("VECTOR_DB_USER", "postgres"),
			Password: getEnv("VECTOR_DB_PASSWORD", "postgres"),
			Database: getEnv("VECTOR_DB_DATABASE", "support_agent"),
			SSLMode:  getEnv("VECTOR_DB_SSLMODE", "disable"),
		},

		ConnectMaxRetries:   getEnvInt("CONNECT_MAX_RETRIES", 5),
		RetrievalConfigPath: getEnv("RETRIEVAL_CONFIG_PATH", "configs/retrieval.yaml"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
