package led

import (
	"fmt"
	"sync"

	"github.com/smazurov/colornode/internal/colors"
)

// Array owns a strip and applies whole-strip colors atomically.
type Array struct {
	mu      sync.RWMutex
	strip   Strip
	current colors.Color
}

// NewArray wraps strip. The recorded color starts as black.
func NewArray(strip Strip) *Array {
	return &Array{strip: strip}
}

// Len returns the number of positions.
func (a *Array) Len() int {
	return a.strip.Len()
}

// Apply writes c into every position and pushes once. On error the recorded
// color is left unchanged.
func (a *Array) Apply(c colors.Color) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.strip.Len() {
		if err := a.strip.SetPixel(i, c); err != nil {
			return fmt.Errorf("set pixel %d: %w", i, err)
		}
	}
	if err := a.strip.Show(); err != nil {
		return fmt.Errorf("show: %w", err)
	}
	a.current = c
	return nil
}

// Current returns the last successfully applied color.
func (a *Array) Current() colors.Color {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Close releases the strip.
func (a *Array) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.strip.Close()
}
