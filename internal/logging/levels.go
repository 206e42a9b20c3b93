package logging

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// ParseLevel accepts debug, info, warn (or warning) and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// levelOr returns the parsed level or fallback when s is empty or unknown.
func levelOr(s string, fallback slog.Level) slog.Level {
	if l, err := ParseLevel(s); err == nil {
		return l
	}
	return fallback
}

// levelName buckets custom levels into the four names used by the buffer.
func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	}
	return "debug"
}

func journalPriority(l slog.Level) journal.Priority {
	switch levelName(l) {
	case "error":
		return journal.PriErr
	case "warn":
		return journal.PriWarning
	case "info":
		return journal.PriInfo
	}
	return journal.PriDebug
}
