// Package logging builds the slog logger used across hsk.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// Levels lists the accepted level names.
var Levels = []string{"trace", "debug", "info", "warn", "error"}

// ParseLevel maps a level name onto a charmbracelet/log level. "trace" is
// debug with caller and timestamp reporting turned on.
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "", "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want one of %s)", name, strings.Join(Levels, ", "))
	}
}

// NewHandler returns a human-readable slog handler writing to w (stderr when
// nil). Unknown level names fall back to DefaultLevel.
func NewHandler(level string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	name := strings.ToLower(strings.TrimSpace(level))

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: name == "trace" || name == "debug",
		ReportCaller:    name == "trace",
		Level:           lvl,
		Prefix:          "hsk",
	})
}

// New returns a logger backed by NewHandler.
func New(level string, w io.Writer) *slog.Logger {
	return slog.New(NewHandler(level, w))
}

// Setup installs a logger as the slog default and returns it.
func Setup(level string, w io.Writer) *slog.Logger {
	logger := New(level, w)
	slog.SetDefault(logger)
	return logger
}
