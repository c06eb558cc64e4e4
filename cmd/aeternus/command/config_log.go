package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
)

type LogConfig struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

func (c *LogConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Format {
	case "", "text", "json":
	default:
		el.Add(fmt.Errorf("log.format must be text or json, got %q", c.Format))
	}

	var lvl slog.Level
	if c.Level != "" {
		if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
			el.Add(fmt.Errorf("log.level: %w", err))
		}
	}

	return el.Err()
}

// install makes the configured handler the slog default. An empty section
// keeps the logger chosen by the -loglevel and -logformat flags.
func (c *LogConfig) install() {
	if c.Format == "" && c.Level == "" {
		return
	}
	var lvl slog.Level
	if c.Level != "" {
		_ = lvl.UnmarshalText([]byte(c.Level))
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if c.Format == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}
