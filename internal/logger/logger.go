// Package logger builds the slog logger shared by every component.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultLogFile is used when Output is "file".
const DefaultLogFile = "codeinspector.log"

// Config holds the logger configuration.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Writer resolves the configured output. The returned close function is a
// no-op for the standard streams.
func (c Config) Writer() (io.Writer, func()) {
	switch c.Output {
	case "stderr":
		return os.Stderr, func() {}
	case "file":
		file, err := os.OpenFile(DefaultLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			return os.Stdout, func() {}
		}
		return file, func() { _ = file.Close() }
	default:
		return os.Stdout, func() {}
	}
}

// NewLogger initializes a new slog logger based on the provided configuration.
// A nil output falls back to the configured one.
func NewLogger(cfg Config, output io.Writer) *slog.Logger {
	if output == nil {
		output, _ = cfg.Writer()
	}

	level := new(slog.Level)
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		*level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
