package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	// defaultAPIToken is only accepted when ENV is development
	defaultAPIToken = "dev-token"
	defaultGRPCAddr = ":8080"
)

// Config holds the process settings read from the environment
type Config struct {
	GRPCAddr string
	APIToken string
	Env      string

	// DBConnStr selects Postgres storage; empty means in-memory storage
	DBConnStr string

	// RedisAddr enables the exchange rate cache when set
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateCacheTTL  time.Duration
}

// Load reads an optional .env file and returns the Config
func Load(logger *zap.Logger) (*Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, relying on environment variables")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("RATE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_CACHE_TTL: %w", err)
	}

	env := getEnv("ENV", "development")
	apiToken := os.Getenv("API_TOKEN")
	if apiToken == "" {
		if env != "development" {
			return nil, fmt.Errorf("API_TOKEN is required when ENV=%s", env)
		}
		apiToken = defaultAPIToken
		logger.Warn("API_TOKEN not set, using the development token")
	}

	return &Config{
		GRPCAddr:      getEnv("GRPC_ADDR", defaultGRPCAddr),
		APIToken:      apiToken,
		Env:           env,
		DBConnStr:     databaseConnString(),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RateCacheTTL:  ttl,
	}, nil
}

// databaseConnString prefers DB_CONN_STR and otherwise builds one from DB_HOST
// and friends. Returns "" when neither is configured.
func databaseConnString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host,
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "ledger"),
	)
}

// getEnv treats an empty variable as unset
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
