package config

import (
	"time"

	"gaming-sentiment-tracker/pkg/config"
)

// Cache holds the analytics response cache configuration.
type Cache struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	API      config.API      `mapstructure:"api"`
	Cache    Cache           `mapstructure:"cache"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	return &cfg, nil
}
