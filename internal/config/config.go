package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	DBPath         string
	SessionSecret  string
	SessionBackend string
	SessionTTL     time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	AdminUsername  string
	AdminPassword  string
	SecureCookies  bool
	LogLevel       string
	LogFile        string
	LogFormat      string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("SESSION_BACKEND", "memory"))
	if backend != "memory" && backend != "redis" {
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", backend)
	}

	return &Config{
		ListenAddr:     listenAddr(),
		DBPath:         getEnv("DB_PATH", getEnv("DATABASE_URL", "festadmin.db")),
		SessionSecret:  getEnv("SESSION_SECRET", "college-fest-secret"),
		SessionBackend: backend,
		SessionTTL:     ttl,
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        redisDB,
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		SecureCookies:  getBool("SECURE_COOKIES"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}, nil
}

func listenAddr() string {
	if addr, ok := os.LookupEnv("LISTEN_ADDR"); ok && addr != "" {
		return addr
	}
	return ":" + getEnv("PORT", "3000")
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}
