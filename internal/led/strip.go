// Package led drives the addressable LED strip and the board status indicator.
package led

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/smazurov/colornode/internal/colors"
)

// Strip drivers.
const (
	DriverSim = "sim"
	DriverSPI = "spi"
)

// ErrPixelRange is returned when a pixel index is outside the strip.
var ErrPixelRange = errors.New("pixel index out of range")

// Strip is an addressable LED device. SetPixel only buffers; Show pushes the
// buffered pixels to the hardware.
type Strip interface {
	Len() int
	SetPixel(i int, c colors.Color) error
	Show() error
	Close() error
}

// StripConfig selects and sizes the strip driver.
type StripConfig struct {
	Driver   string
	SPIPort  string
	LEDCount int
}

// NewStrip opens the configured driver. An spi strip whose port cannot be
// opened falls back to the simulated strip.
func NewStrip(cfg StripConfig, logger *slog.Logger) (Strip, error) {
	if cfg.LEDCount <= 0 {
		return nil, fmt.Errorf("led count must be positive, got %d", cfg.LEDCount)
	}
	switch cfg.Driver {
	case DriverSPI:
		strip, err := OpenNRZ(cfg)
		if err != nil {
			logger.Warn("SPI strip unavailable, using simulated strip",
				"port", cfg.SPIPort,
				"error", err)
			return NewSim(cfg.LEDCount, logger), nil
		}
		logger.Info("SPI strip opened", "port", cfg.SPIPort, "leds", cfg.LEDCount)
		return strip, nil
	case DriverSim, "":
		logger.Info("Using simulated strip", "leds", cfg.LEDCount)
		return NewSim(cfg.LEDCount, logger), nil
	default:
		return nil, fmt.Errorf("unknown strip driver %q", cfg.Driver)
	}
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrPixelRange, i, n)
	}
	return nil
}
