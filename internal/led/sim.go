package led

import (
	"log/slog"
	"sync"

	"github.com/smazurov/colornode/internal/colors"
)

// Sim is an in-memory strip for hosts without an SPI port.
type Sim struct {
	mu      sync.Mutex
	pending []colors.Color
	shown   []colors.Color
	shows   int
	logger  *slog.Logger
}

// NewSim creates a simulated strip with n pixels.
func NewSim(n int, logger *slog.Logger) *Sim {
	return &Sim{
		pending: make([]colors.Color, n),
		shown:   make([]colors.Color, n),
		logger:  logger,
	}
}

func (s *Sim) Len() int { return len(s.pending) }

func (s *Sim) SetPixel(i int, c colors.Color) error {
	if err := checkIndex(i, len(s.pending)); err != nil {
		return err
	}
	s.mu.Lock()
	s.pending[i] = c
	s.mu.Unlock()
	return nil
}

func (s *Sim) Show() error {
	s.mu.Lock()
	copy(s.shown, s.pending)
	s.shows++
	shows := s.shows
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("Simulated strip show", "pixels", len(s.shown), "shows", shows)
	}
	return nil
}

func (s *Sim) Close() error { return nil }

// Pixels returns a copy of what the last Show pushed.
func (s *Sim) Pixels() []colors.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]colors.Color, len(s.shown))
	copy(out, s.shown)
	return out
}

// Shows returns how many times Show was called.
func (s *Sim) Shows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shows
}
