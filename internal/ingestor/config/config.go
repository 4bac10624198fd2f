package config

import (
	"fmt"
	"time"

	"gaming-sentiment-tracker/internal/classifier"
	"gaming-sentiment-tracker/pkg/common"
	"gaming-sentiment-tracker/pkg/config"
)

// Reddit holds the comment source configuration.
type Reddit struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	UserAgent    string        `mapstructure:"user_agent"`
	Subreddit    string        `mapstructure:"subreddit"`
	Source       string        `mapstructure:"source"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PageSize     int           `mapstructure:"page_size"`
}

// Ingestor holds the ingestion loop configuration.
type Ingestor struct {
	ReconnectMaxAttempts int           `mapstructure:"reconnect_max_attempts"`
	ReconnectBaseBackoff time.Duration `mapstructure:"reconnect_base_backoff"`
	ReconnectMaxBackoff  time.Duration `mapstructure:"reconnect_max_backoff"`
}

// Digest holds the daily summary job configuration.
type Digest struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// Taxonomy holds the keyword taxonomy declaration. Order matters:
// category order and keyword order decide match priority.
type Taxonomy struct {
	Categories []classifier.Category `mapstructure:"categories"`
}

// Config holds the full configuration for the ingestor service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	Telegram config.Telegram `mapstructure:"telegram"`
	Reddit   Reddit          `mapstructure:"reddit"`
	Ingestor Ingestor        `mapstructure:"ingestor"`
	Digest   Digest          `mapstructure:"digest"`
	Taxonomy Taxonomy        `mapstructure:"taxonomy"`
}

// Load loads the ingestor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Reddit.Source == "" {
		c.Reddit.Source = common.SourceRedditAPI
	}
	if c.Reddit.Subreddit == "" {
		c.Reddit.Subreddit = "gaming"
	}
	if c.Reddit.PollInterval <= 0 {
		c.Reddit.PollInterval = 10 * time.Second
	}
	if c.Reddit.PageSize <= 0 {
		c.Reddit.PageSize = 100
	}
	if c.Ingestor.ReconnectMaxAttempts <= 0 {
		c.Ingestor.ReconnectMaxAttempts = 5
	}
	if c.Ingestor.ReconnectBaseBackoff <= 0 {
		c.Ingestor.ReconnectBaseBackoff = 2 * time.Second
	}
	if c.Ingestor.ReconnectMaxBackoff <= 0 {
		c.Ingestor.ReconnectMaxBackoff = 2 * time.Minute
	}
	if c.Digest.Cron == "" {
		c.Digest.Cron = "0 9 * * *"
	}
}

func (c *Config) validate() error {
	switch c.Reddit.Source {
	case common.SourceRedditAPI:
		if c.Reddit.ClientID == "" || c.Reddit.ClientSecret == "" {
			return fmt.Errorf("reddit client_id and client_secret are required for the api source")
		}
	case common.SourceRedditRSS:
	default:
		return fmt.Errorf("reddit source must be %q or %q", common.SourceRedditAPI, common.SourceRedditRSS)
	}

	if len(c.Taxonomy.Categories) == 0 {
		return fmt.Errorf("taxonomy must declare at least one category")
	}
	for _, cat := range c.Taxonomy.Categories {
		if cat.Name == "" {
			return fmt.Errorf("taxonomy category without a name")
		}
		if len(cat.Keywords) == 0 {
			return fmt.Errorf("taxonomy category %q has no keywords", cat.Name)
		}
	}

	return nil
}
