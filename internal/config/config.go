package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings
type Config struct {
	Port          string        `env:"DECK_PORT" envDefault:"8080"`
	FrontendURL   string        `env:"DECK_FRONTEND_URL" envDefault:"http://localhost:5173"`
	ShuffleDelay  time.Duration `env:"DECK_SHUFFLE_DELAY" envDefault:"1500ms"`
	TableIdleTTL  time.Duration `env:"DECK_TABLE_IDLE_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"DECK_SWEEP_INTERVAL" envDefault:"1m"`
}

// Load reads the optional .env files, then the environment
func Load(dotenvFiles ...string) (Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports settings that would leave the server unusable
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("invalid config: DECK_PORT is empty")
	}
	if c.ShuffleDelay <= 0 {
		return fmt.Errorf("invalid config: DECK_SHUFFLE_DELAY must be positive, got %s", c.ShuffleDelay)
	}
	if c.TableIdleTTL <= 0 || c.SweepInterval <= 0 {
		return errors.New("invalid config: DECK_TABLE_IDLE_TTL and DECK_SWEEP_INTERVAL must be positive")
	}
	return nil
}
