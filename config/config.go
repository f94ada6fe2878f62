package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// WebhookPath is the fixed callback path appended to WEBHOOK_URL.
const WebhookPath = "/webhook"

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
	StorageMongo  = "mongo"
)

// Config holds the application configuration.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	Version  string `env:"VERSION" envDefault:"dev"`
	BotToken string `env:"TELEGRAM_BOT_TOKEN"`
	Language string `env:"BOT_LANGUAGE" envDefault:"en"`

	Port          int    `env:"PORT" envDefault:"3000"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	AdminIDsRaw   string `env:"ADMIN_IDS"`
	AdminIDs      []int64

	SentryDSN string `env:"SENTRY_DSN"`

	StorageDriver   string `env:"STORAGE_DRIVER" envDefault:"json"`
	UsersFile       string `env:"USERS_FILE" envDefault:"users.json"`
	SQLitePath      string `env:"SQLITE_PATH" envDefault:"users.db"`
	MongoDBURI      string `env:"MONGODB_URI"`
	MongoDBDatabase string `env:"MONGODB_DATABASE"`

	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"10s"`
	RateLimitMax      int           `env:"RATE_LIMIT_MAX" envDefault:"5"`
	RateLimitCapacity int           `env:"RATE_LIMIT_CAPACITY" envDefault:"10000"`
	UpdatesPerSecond  int           `env:"UPDATES_PER_SECOND" envDefault:"20"`
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finalize applies aliases, parses derived fields and validates the result.
func (c *Config) finalize() error {
	if c.BotToken == "" {
		// Older deployments use the shorter name.
		c.BotToken = os.Getenv("BOT_TOKEN")
	}
	if c.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	ids, err := ParseAdminIDs(c.AdminIDsRaw)
	if err != nil {
		return err
	}
	c.AdminIDs = ids

	c.WebhookURL = strings.TrimRight(strings.TrimSpace(c.WebhookURL), "/")
	if c.WebhookURL == "" {
		log.Println("Warning: WEBHOOK_URL is not set. Updates will only arrive once a webhook is registered manually.")
	}
	if c.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}
	if len(c.AdminIDs) == 0 {
		log.Println("Warning: ADMIN_IDS is empty. Admin-only commands are disabled.")
	}

	switch c.StorageDriver {
	case StorageJSON, StorageSQLite:
	case StorageMongo:
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required when STORAGE_DRIVER=mongo")
		}
		if c.MongoDBDatabase == "" {
			return fmt.Errorf("MONGODB_DATABASE is required when STORAGE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimitCapacity <= 0 {
		return fmt.Errorf("RATE_LIMIT_CAPACITY must be positive")
	}
	if c.UpdatesPerSecond <= 0 {
		c.UpdatesPerSecond = 20
	}
	return nil
}

// WebhookEndpoint returns the full URL Telegram should deliver updates to,
// or an empty string when WEBHOOK_URL is not configured.
func (c *Config) WebhookEndpoint() string {
	if c.WebhookURL == "" {
		return ""
	}
	return c.WebhookURL + WebhookPath
}

// ParseAdminIDs parses a comma-separated list of numeric user IDs.
// Blank entries are skipped.
func ParseAdminIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
