// Package config loads the runtime settings of the long-running server.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Serve holds the settings of `mafia serve`. Storage selection lives in the
// viper-managed config.toml instead.
type Serve struct {
	ListenAddr      string        `env:"MAFIA_LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	AllowedOrigins  []string      `env:"MAFIA_ALLOWED_ORIGINS" envSeparator:","`
	RatePerSecond   float64       `env:"MAFIA_RATE_PER_SECOND" envDefault:"5"`
	RateBurst       int           `env:"MAFIA_RATE_BURST" envDefault:"10"`
	PollInterval    time.Duration `env:"MAFIA_POLL_INTERVAL" envDefault:"5s"`
	TickConcurrency int           `env:"MAFIA_TICK_CONCURRENCY" envDefault:"4"`
	NotifyTimeout   time.Duration `env:"MAFIA_NOTIFY_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"MAFIA_LOG_LEVEL" envDefault:"info"`
	LogJSON         bool          `env:"MAFIA_LOG_JSON"`
	OTelEndpoint    string        `env:"MAFIA_OTEL_ENDPOINT"`
}

func LoadServe() (Serve, error) {
	var cfg Serve
	if err := ParseEnv(&cfg); err != nil {
		return Serve{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Serve{}, err
	}
	return cfg, nil
}

func (c Serve) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address is empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.TickConcurrency < 1 {
		return fmt.Errorf("tick concurrency must be at least 1, got %d", c.TickConcurrency)
	}
	if c.RatePerSecond <= 0 || c.RateBurst < 1 {
		return errors.New("rate limit needs a positive rate and burst")
	}
	return nil
}

// ParseEnv loads target from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
