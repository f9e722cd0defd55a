// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/civicpulse/helpdesk/pkg/db"
	"github.com/civicpulse/helpdesk/pkg/logger"
)

var (
	ErrInvalidConfig   = errors.New("config: invalid configuration")
	ErrInvalidInterval = errors.New("config: invalid check interval")
)

// Interval is a check spacing given either as a Go duration ("5m") or as a
// constant-delay cron descriptor ("@every 5m").
type Interval time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Interval) UnmarshalText(text []byte) error {
	d, err := ParseInterval(string(text))
	if err != nil {
		return err
	}
	*i = Interval(d)
	return nil
}

// Duration returns the interval as a time.Duration.
func (i Interval) Duration() time.Duration { return time.Duration(i) }

// ParseInterval parses a Go duration or an "@every" descriptor. Both forms
// follow the same rules: the duration must be positive and is kept exactly.
// Calendar schedules such as "@hourly" or "*/5 * * * *" are rejected: the
// scheduler waits a fixed delay after each check completes and has no
// notion of wall-clock alignment.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidInterval)
	}

	if rest, ok := strings.CutPrefix(s, "@every "); ok {
		return parseDuration(strings.TrimSpace(rest))
	}
	if !strings.HasPrefix(s, "@") {
		return parseDuration(s)
	}

	// Any other descriptor is a calendar schedule; cron tells typos apart.
	if _, err := cron.ParseStandard(s); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	return 0, fmt.Errorf("%w: %q is not a constant delay, use @every", ErrInvalidInterval, s)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidInterval, d)
	}
	return d, nil
}

// SLA configures the escalation scheduler.
type SLA struct {
	Statement string `env:"SLA_CHECK_STATEMENT" envDefault:"SELECT check_sla_escalations()"`
	LockKey   string `env:"SLA_LOCK_KEY" envDefault:"civicpulse:sla-escalation:lock"`

	Interval Interval `env:"SLA_CHECK_INTERVAL" envDefault:"5m"`
	// Zero disables the per-check deadline.
	Timeout time.Duration `env:"SLA_CHECK_TIMEOUT" envDefault:"0s"`
	// Readiness fails when no check finished for this long. Zero means 3x Interval.
	StaleAfter time.Duration `env:"SLA_STALE_AFTER" envDefault:"0s"`
}

// Config is the full process configuration.
type Config struct {
	Sentry logger.SentryConfig
	DB     db.Config
	Log    logger.Config

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	// Empty disables the cluster lock.
	RedisURL string `env:"REDIS_URL"`

	SLA SLA

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads the optional dotenv files and parses the environment.
// Missing dotenv files are ignored; variables already set win.
func Load(dotenv ...string) (*Config, error) {
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
	}
	return Parse()
}

// Parse parses the current environment into a Config and validates it.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	if c.SLA.Interval <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive", ErrInvalidInterval))
	}
	if c.SLA.Timeout < 0 {
		errs = append(errs, fmt.Errorf("SLA_CHECK_TIMEOUT must not be negative, got %s", c.SLA.Timeout))
	}
	if c.SLA.StaleAfter < 0 {
		errs = append(errs, fmt.Errorf("SLA_STALE_AFTER must not be negative, got %s", c.SLA.StaleAfter))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// StaleAfterOrDefault returns the readiness silence bound.
func (s SLA) StaleAfterOrDefault() time.Duration {
	if s.StaleAfter > 0 {
		return s.StaleAfter
	}
	return 3 * s.Interval.Duration()
}
