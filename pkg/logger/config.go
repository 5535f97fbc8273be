package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrymomot/oauthgate/pkg/environment"
)

// Config holds logger settings loaded from the environment. Empty Level and
// Format fall back to the preset of Env.
type Config struct {
	Env    environment.Environment `env:"APP_ENV" envDefault:"development"`
	Level  string                  `env:"LOG_LEVEL"`
	Format string                  `env:"LOG_FORMAT"`
	File   string                  `env:"LOG_FILE"`
}

// Validate checks that the level and format are recognised.
func (c Config) Validate() error {
	var errs []error
	if c.Env != "" {
		if _, err := environment.Parse(string(c.Env)); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Level != "" {
		if _, err := ParseLevel(c.Level); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Format != "" {
		if _, err := ParseFormat(c.Format); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ParseLevel accepts slog level names in any case, plus "warning".
func ParseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return l, nil
}

// NewFromConfig builds a logger from cfg. When cfg.File is set the file is
// opened for appending and the returned close func must be called on
// shutdown; otherwise it is a no-op.
func NewFromConfig(cfg Config, service string, opts ...Option) (*slog.Logger, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	base := []Option{WithEnvironment(cfg.Env, service)}
	if cfg.Level != "" {
		l, _ := ParseLevel(cfg.Level)
		base = append(base, WithLevel(l))
	}
	if cfg.Format != "" {
		base = append(base, WithFormat(Format(cfg.Format)))
	}

	closer := func() error { return nil }
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, nil, errors.Join(ErrOpenFile, err)
		}
		base = append(base, WithFile(f))
		closer = closeFunc(f)
	}

	return New(append(base, opts...)...), closer, nil
}

func closeFunc(c io.Closer) func() error {
	return func() error { return c.Close() }
}
