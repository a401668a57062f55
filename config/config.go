package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hmdavis/whatsapp-diet/models"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"diet_tracker.db"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4-turbo-preview"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads .env if present, then parses the environment. A missing .env
// file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// OpenDB connects to the configured database and runs migrations. Postgres
// URLs and DSNs go through the postgres driver; anything else is treated as
// a sqlite path, which is also the default.
func OpenDB(cfg *Config) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch {
	case strings.HasPrefix(cfg.DatabaseURL, "postgres://"),
		strings.HasPrefix(cfg.DatabaseURL, "postgresql://"),
		strings.HasPrefix(cfg.DatabaseURL, "host="):
		dial = postgres.Open(cfg.DatabaseURL)
	default:
		dial = sqlite.Open(strings.TrimPrefix(cfg.DatabaseURL, "sqlite://"))
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.FoodLog{}); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}
	return db, nil
}
