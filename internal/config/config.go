package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken     string
	AdminUserIDs []int64
	Database     DatabaseConfig
	Session      SessionConfig
	Limits       LimitsConfig
	RateLimit    RateLimitConfig
	Pro          ProConfig
	AdminHTTP    AdminHTTPConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// SessionConfig selects the session store backend
type SessionConfig struct {
	Store    string // "postgres" or "bolt"
	BoltPath string
}

// LimitsConfig caps the free tier
type LimitsConfig struct {
	FreeMaxBanks             int
	FreeMaxCategoriesPerBank int
}

// RateLimitConfig bounds per-user request budgets within a rolling window
type RateLimitConfig struct {
	Window       time.Duration
	FreeRequests int
	ProRequests  int
}

// ProConfig describes the Pro subscription offer
type ProConfig struct {
	PriceStars   int
	DurationDays int
}

// AdminHTTPConfig configures the administrative HTTP server; an empty Addr
// disables it
type AdminHTTPConfig struct {
	Addr     string
	Username string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "cashbackhelp"),
			User:     getEnv("DB_USER", "cashbackhelp"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Session: SessionConfig{
			Store:    getEnv("SESSION_STORE", "postgres"),
			BoltPath: getEnv("BOLT_PATH", "sessions.db"),
		},
		Limits: LimitsConfig{
			FreeMaxBanks:             getEnvInt("FREE_MAX_BANKS", 4),
			FreeMaxCategoriesPerBank: getEnvInt("FREE_MAX_CATEGORIES_PER_BANK", 4),
		},
		RateLimit: RateLimitConfig{
			Window:       time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
			FreeRequests: getEnvInt("RATE_LIMIT_FREE_REQUESTS", 10),
			ProRequests:  getEnvInt("RATE_LIMIT_PRO_REQUESTS", 50),
		},
		Pro: ProConfig{
			PriceStars:   getEnvInt("PRO_PRICE_STARS", 300),
			DurationDays: getEnvInt("PRO_DURATION_DAYS", 30),
		},
		AdminHTTP: AdminHTTPConfig{
			Addr:     os.Getenv("ADMIN_HTTP_ADDR"),
			Username: getEnv("ADMIN_HTTP_USER", "admin"),
			Password: os.Getenv("ADMIN_HTTP_PASSWORD"),
		},
	}

	ids, err := parseAdminIDs(os.Getenv("ADMIN_USER_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.AdminUserIDs = ids

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Session.Store != "postgres" && cfg.Session.Store != "bolt" {
		return nil, fmt.Errorf("SESSION_STORE must be postgres or bolt, got %q", cfg.Session.Store)
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.AdminHTTP.Addr != "" && cfg.AdminHTTP.Password == "" {
		return nil, fmt.Errorf("ADMIN_HTTP_PASSWORD is required when ADMIN_HTTP_ADDR is set")
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func parseAdminIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
