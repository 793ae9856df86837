// Package config reads the storefront's settings from the environment. A
// .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
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

	HTTPAddr        string
	ShutdownTimeout time.Duration

	ProductsFile string

	// CartStorage selects the slot backend: memory, redis or sqlite.
	CartStorage  string
	RedisAddr    string
	CartTTL      time.Duration
	CartDBPath   string
	OpenSessions int

	OTelEnabled bool
	ServiceName string
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:          getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		ProductsFile:    getEnv("PRODUCTS_FILE", "data/products.json"),
		CartStorage:     getEnv("CART_STORAGE", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		CartTTL:         getEnvDuration("CART_TTL", 30*24*time.Hour),
		CartDBPath:      getEnv("CART_DB_PATH", "data/cart.db"),
		OpenSessions:    getEnvInt("CART_OPEN_SESSIONS", 4096),
		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		ServiceName:     getEnv("OTEL_SERVICE_NAME", "catalog-server"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return d
}
