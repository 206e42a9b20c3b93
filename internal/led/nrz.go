package led

import (
	"errors"
	"fmt"
	"io"

	"github.com/smazurov/colornode/internal/colors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// pixelWriter is the part of *nrzled.Dev the strip uses.
type pixelWriter interface {
	Write(p []byte) (int, error)
	Halt() error
}

// NRZ drives a WS2812-style strip through an SPI port. Pixels are buffered
// as raw RGB and sent in a single write on Show.
type NRZ struct {
	dev  pixelWriter
	port io.Closer
	buf  []byte
}

// nrzFreq is the SPI clock nrzled requires: each 800kHz NRZ bit is sent
// as three SPI bits.
const nrzFreq = 2500 * physic.KiloHertz

// openPort is replaced in tests.
var openPort = func(name string) (spi.PortCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	return spireg.Open(name)
}

// OpenNRZ initializes the host drivers and opens the configured SPI port.
// An empty port name selects the first available port.
func OpenNRZ(cfg StripConfig) (*NRZ, error) {
	port, err := openPort(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", cfg.SPIPort, err)
	}
	strip, err := NewNRZ(port, cfg)
	if err != nil {
		port.Close()
		return nil, err
	}
	strip.port = port
	return strip, nil
}

// NewNRZ builds a strip on an already opened port. The caller keeps
// ownership of port.
func NewNRZ(port spi.Port, cfg StripConfig) (*NRZ, error) {
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: cfg.LEDCount,
		Channels:  colors.Channels,
		Freq:      nrzFreq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return newNRZ(dev, cfg.LEDCount), nil
}

func newNRZ(dev pixelWriter, n int) *NRZ {
	return &NRZ{dev: dev, buf: make([]byte, n*colors.Channels)}
}

func (s *NRZ) Len() int { return len(s.buf) / colors.Channels }

func (s *NRZ) SetPixel(i int, c colors.Color) error {
	if err := checkIndex(i, s.Len()); err != nil {
		return err
	}
	off := i * colors.Channels
	s.buf[off], s.buf[off+1], s.buf[off+2] = c.R, c.G, c.B
	return nil
}

func (s *NRZ) Show() error {
	n, err := s.dev.Write(s.buf)
	if err != nil {
		return err
	}
	if n != len(s.buf) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(s.buf))
	}
	return nil
}

// Close blanks the strip and releases the port if this strip opened it.
func (s *NRZ) Close() error {
	err := s.dev.Halt()
	if s.port != nil {
		err = errors.Join(err, s.port.Close())
	}
	return err
}
