// Package config loads service configuration from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the web service configuration. Flags override environment
// values, which override the defaults below.
type Config struct {
	Addr            string        `env:"KNUCKLEBONES_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"KNUCKLEBONES_LOG_LEVEL" envDefault:"info"`
	Storage         string        `env:"KNUCKLEBONES_STORAGE" envDefault:"fs"`
	PersistPath     string        `env:"KNUCKLEBONES_PERSIST_PATH" envDefault:"./data"`
	SQLitePath      string        `env:"KNUCKLEBONES_SQLITE_PATH" envDefault:"./data/positions.db"`
	ShutdownTimeout time.Duration `env:"KNUCKLEBONES_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	WSPingInterval  time.Duration `env:"KNUCKLEBONES_WS_PING_INTERVAL" envDefault:"30s"`
	OTelEndpoint    string        `env:"KNUCKLEBONES_OTEL_ENDPOINT"`
	OTelEnabled     bool          `env:"KNUCKLEBONES_OTEL_ENABLED" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv reads KEY=VALUE files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Parse loads defaults from the environment and then parses flags.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "position storage: fs|sqlite|none")
	fs.StringVar(&cfg.PersistPath, "persist-path", cfg.PersistPath, "save directory for fs storage")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "database file for sqlite storage")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	fs.DurationVar(&cfg.WSPingInterval, "ws-ping", cfg.WSPingInterval, "idle websocket ping interval")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
