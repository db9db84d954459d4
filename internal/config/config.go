// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken  string `env:"CLIENT_TOKEN,required,notEmpty"`
	ApplicationID string `env:"CLIENT_ID"`
	DevGuildID    string `env:"LOCAL_DEV_GUILD_ID"`

	CommandsDir string `env:"COMMANDS_DIR"`
	StoragePath string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	MetricsAddr string `env:"METRICS_ADDR"`

	CommandCooldown time.Duration `env:"COMMAND_COOLDOWN" envDefault:"2s"`
	CommandBurst    int           `env:"COMMAND_BURST" envDefault:"3"`
}

// Load reads envFiles (if present) into the process environment and parses
// the configuration from it. A missing env file is not an error; loaded
// reports whether any file was read.
func Load(envFiles ...string) (cfg *Config, loaded bool, err error) {
	if len(envFiles) > 0 {
		switch err := godotenv.Load(envFiles...); {
		case err == nil:
			loaded = true
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, false, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err = Parse()
	return cfg, loaded, err
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CommandBurst < 1 {
		cfg.CommandBurst = 1
	}
	return &cfg, nil
}
