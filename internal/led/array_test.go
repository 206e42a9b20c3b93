package led

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/smazurov/colornode/internal/colors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingStrip struct {
	pixels  []colors.Color
	sets    int
	shows   int
	failAt  int
	showErr error
}

func newRecordingStrip(n int) *recordingStrip {
	return &recordingStrip{pixels: make([]colors.Color, n), failAt: -1}
}

func (r *recordingStrip) Len() int { return len(r.pixels) }

func (r *recordingStrip) SetPixel(i int, c colors.Color) error {
	if i == r.failAt {
		return errors.New("bus error")
	}
	r.pixels[i] = c
	r.sets++
	return nil
}

func (r *recordingStrip) Show() error {
	if r.showErr != nil {
		return r.showErr
	}
	r.shows++
	return nil
}

func (r *recordingStrip) Close() error { return nil }

func TestArrayApplyWritesEveryPositionThenShowsOnce(t *testing.T) {
	strip := newRecordingStrip(8)
	arr := NewArray(strip)
	green := colors.Color{G: 255}

	require.NoError(t, arr.Apply(green))

	assert.Equal(t, 8, strip.sets)
	assert.Equal(t, 1, strip.shows)
	for i, px := range strip.pixels {
		assert.Equal(t, green, px, "pixel %d", i)
	}
	assert.Equal(t, green, arr.Current())
	assert.Equal(t, 8, arr.Len())
}

func TestArrayApplyFailureKeepsCurrent(t *testing.T) {
	strip := newRecordingStrip(4)
	arr := NewArray(strip)
	red := colors.Color{R: 255}
	require.NoError(t, arr.Apply(red))

	strip.failAt = 2
	err := arr.Apply(colors.Color{B: 255})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set pixel 2")
	assert.Equal(t, red, arr.Current())
	assert.Equal(t, 1, strip.shows)

	strip.failAt = -1
	strip.showErr = errors.New("spi tx failed")
	require.Error(t, arr.Apply(colors.Color{B: 255}))
	assert.Equal(t, red, arr.Current())
}

func TestArrayStartsBlack(t *testing.T) {
	arr := NewArray(newRecordingStrip(3))
	assert.Equal(t, colors.Black, arr.Current())
}

func TestArrayConcurrentApplyNeverMixes(t *testing.T) {
	sim := NewSim(32, discardLogger())
	arr := NewArray(sim)
	palette := []colors.Color{{R: 255}, {G: 255}, {B: 255}, {R: 1, G: 2, B: 3}}

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.NoError(t, arr.Apply(palette[w]))
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		px := sim.Pixels()
		for i := range px {
			if px[i] != px[0] {
				t.Fatalf("observed mixed strip: pixel 0 %v, pixel %d %v", px[0], i, px[i])
			}
		}
		select {
		case <-done:
			assert.Equal(t, 200, sim.Shows())
			assert.Contains(t, palette, arr.Current())
			return
		default:
		}
	}
}

func TestSimStrip(t *testing.T) {
	sim := NewSim(3, discardLogger())
	require.NoError(t, sim.SetPixel(1, colors.Color{R: 9}))

	// nothing is visible before Show
	assert.Equal(t, colors.Black, sim.Pixels()[1])

	require.NoError(t, sim.Show())
	assert.Equal(t, colors.Color{R: 9}, sim.Pixels()[1])
	assert.Equal(t, 1, sim.Shows())

	assert.ErrorIs(t, sim.SetPixel(3, colors.Black), ErrPixelRange)
	assert.ErrorIs(t, sim.SetPixel(-1, colors.Black), ErrPixelRange)
	assert.NoError(t, sim.Close())
}

func TestNewStrip(t *testing.T) {
	logger := discardLogger()

	s, err := NewStrip(StripConfig{Driver: DriverSim, LEDCount: 5}, logger)
	require.NoError(t, err)
	assert.IsType(t, &Sim{}, s)
	assert.Equal(t, 5, s.Len())

	s, err = NewStrip(StripConfig{LEDCount: 2}, logger)
	require.NoError(t, err)
	assert.IsType(t, &Sim{}, s)

	_, err = NewStrip(StripConfig{Driver: DriverSim}, logger)
	assert.Error(t, err)

	_, err = NewStrip(StripConfig{Driver: "dmx", LEDCount: 1}, logger)
	assert.Error(t, err)
}

func TestNewStripSPIFallsBackToSim(t *testing.T) {
	s, err := NewStrip(StripConfig{Driver: DriverSPI, SPIPort: "no-such-spi-port", LEDCount: 4}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &Sim{}, s)
	assert.Equal(t, 4, s.Len())
}
