package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	RedisAddr string
	RedisDB   int

	CatalogBaseURL string
	OrderBaseURL   string
	OrderTimeout   time.Duration

	JWTSecret string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),

		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "http://localhost:8081"),
		OrderBaseURL:   getEnv("ORDER_BASE_URL", "http://localhost:8082"),
		OrderTimeout:   getEnvDuration("ORDER_TIMEOUT", 15*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
