package led

import (
	"fmt"
	"log/slog"
)

// noop is used on boards without a known LED layout.
type noop struct {
	logger *slog.Logger
}

func newNoop(logger *slog.Logger) *noop {
	return &noop{logger: logger}
}

func (n *noop) Set(role string, on bool, pattern string) error {
	n.logger.Debug("Board LED control not available",
		"role", role,
		"on", on,
		"pattern", pattern)
	return fmt.Errorf("LED role %q not supported on this board", role)
}

func (n *noop) Available() []string { return []string{} }

func (n *noop) Patterns() []string { return []string{} }
