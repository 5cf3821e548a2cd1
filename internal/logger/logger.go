// Package logger builds the operator logger used for governance diagnostics (internal errors,
// hook failures, startup problems). Application log events never go through it directly.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a configured zerolog.Logger. In development it uses a human-friendly console writer.
func New(appEnv string) zerolog.Logger {
	return NewWithWriter(appEnv, os.Stderr)
}

// NewWithWriter is New writing to w.
func NewWithWriter(appEnv string, w io.Writer) zerolog.Logger {
	if IsDevelopment(appEnv) {
		cw := zerolog.NewConsoleWriter(func(c *zerolog.ConsoleWriter) {
			c.Out = w
			c.TimeFormat = "2006-01-02 15:04:05"
		})
		return zerolog.New(cw).Level(zerolog.DebugLevel).With().Timestamp().Str("component", "governance").Logger()
	}
	return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Str("component", "governance").Logger()
}

// IsDevelopment reports whether appEnv names a development environment.
func IsDevelopment(appEnv string) bool {
	env := strings.ToLower(strings.TrimSpace(appEnv))
	return env == "development" || env == "dev"
}

// Nop returns a disabled logger, useful for tests.
func Nop() zerolog.Logger {
	return zerolog.New(io.Discard)
}
