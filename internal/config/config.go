// Package config reads client settings from CONNECT4_* environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	ServerURL    string `env:"SERVER_URL" envDefault:"ws://localhost:8888"`
	PlayerName   string `env:"PLAYER_NAME,required"`
	ListenAddr   string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogDev       bool   `env:"LOG_DEV" envDefault:"false"`
	HistoryDSN   string `env:"HISTORY_DSN"`
	InvitePrompt string `env:"INVITE_PROMPT" envDefault:"Do you want to play Connect 4?"`

	OptimisticPairing bool          `env:"OPTIMISTIC_PAIRING" envDefault:"true"`
	PairingDelay      time.Duration `env:"PAIRING_DELAY" envDefault:"1s"`
	RejectionDelay    time.Duration `env:"REJECTION_DELAY" envDefault:"1500ms"`
	GoDelay           time.Duration `env:"GO_DELAY" envDefault:"1s"`
	FinishLinger      time.Duration `env:"FINISH_LINGER" envDefault:"3s"`

	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"10s"`
	EventBuffer  int           `env:"EVENT_BUFFER" envDefault:"32"`
}

const Prefix = "CONNECT4_"

// Load reads envFile (if it exists) into the process environment without
// overriding variables already set, then parses Config.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var err error
	if c.EventBuffer <= 0 {
		err = multierr.Append(err, fmt.Errorf("%sEVENT_BUFFER must be positive", Prefix))
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"PAIRING_DELAY", c.PairingDelay},
		{"REJECTION_DELAY", c.RejectionDelay},
		{"GO_DELAY", c.GoDelay},
		{"FINISH_LINGER", c.FinishLinger},
		{"WRITE_TIMEOUT", c.WriteTimeout},
		{"DIAL_TIMEOUT", c.DialTimeout},
	}
	for _, v := range durations {
		if v.d < 0 {
			err = multierr.Append(err, fmt.Errorf("%s%s must not be negative", Prefix, v.name))
		}
	}
	return err
}
