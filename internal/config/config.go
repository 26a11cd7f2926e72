package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrMissingToken means BOT_TOKEN was not provided.
var ErrMissingToken = errors.New("BOT_TOKEN not set")

type Config struct {
	BotToken    string        `env:"BOT_TOKEN"`
	PollTimeout time.Duration `env:"BOT_POLL_TIMEOUT" envDefault:"10s"`
	AuditDB     string        `env:"SPLITON_AUDIT_DB"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"text"`
}

// TokenSource yields the bot credential, if any.
type TokenSource interface {
	Token() (string, bool)
}

// Load reads Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom is Load over an explicit variable set.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Token() (string, bool) {
	t := strings.TrimSpace(c.BotToken)
	return t, t != ""
}

// RequireToken returns the token from src or ErrMissingToken.
func RequireToken(src TokenSource) (string, error) {
	token, ok := src.Token()
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
