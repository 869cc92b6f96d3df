package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/unidesk/crmbot/pkg/jwtx"
)

type Config struct {
	AccessSecret  string // Required: HMAC secret for access tokens
	RefreshSecret string // Required: HMAC secret for refresh tokens, must differ from AccessSecret

	AccessTTL  time.Duration // Optional: access token lifetime (default: 24h)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 30 days)

	SessionBackend string // Optional: session registry backend (memory, redis) (default: memory)
	RedisAddr      string // Optional: redis address, required when SessionBackend is redis

	AdminUsername string // Optional: seed an ADMIN account with this username on first run
	AdminPassword string // Optional: password for the seeded admin, required when AdminUsername is set

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./crm.db)
	PepperFile          string        // Optional: path to password hashing pepper file (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

var (
	ErrMissingSecrets      = errors.New("CRM_ACCESS_SECRET and CRM_REFRESH_SECRET must be set")
	ErrMissingRedisAddr    = errors.New("CRM_REDIS_ADDR must be set when CRM_SESSION_BACKEND is redis")
	ErrUnknownSessionStore = errors.New("CRM_SESSION_BACKEND must be memory or redis")
	ErrMissingAdminSeed    = errors.New("CRM_ADMIN_PASSWORD must be set when CRM_ADMIN_USERNAME is set")
)

func LoadConfig() (Config, error) {
	cfg := Config{
		AccessSecret:  os.Getenv("CRM_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("CRM_REFRESH_SECRET"),

		AccessTTL:  getEnvDurationOrDefault("CRM_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("CRM_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		SessionBackend: getEnvOrDefault("CRM_SESSION_BACKEND", "memory"),
		RedisAddr:      os.Getenv("CRM_REDIS_ADDR"),

		AdminUsername: os.Getenv("CRM_ADMIN_USERNAME"),
		AdminPassword: os.Getenv("CRM_ADMIN_PASSWORD"),

		DatabaseFile:        getEnvOrDefault("CRM_DATABASE_FILE", "crm.db"),
		PepperFile:          getEnvOrDefault("CRM_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// Fail fast on a misconfigured deployment rather than serving tokens
	// that can't round-trip.
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return Config{}, ErrMissingSecrets
	}

	switch cfg.SessionBackend {
	case "memory":
	case "redis":
		if cfg.RedisAddr == "" {
			return Config{}, ErrMissingRedisAddr
		}
	default:
		return Config{}, ErrUnknownSessionStore
	}

	if cfg.AdminUsername != "" && cfg.AdminPassword == "" {
		return Config{}, ErrMissingAdminSeed
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
