// Package colors decodes and encodes the RGB color wire format used by the
// web form and the JSON API.
package colors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smazurov/colornode/internal/hex"
)

const (
	// Channels is the number of channels in a Color, in R, G, B order.
	Channels = 3
	// DigitsPerChannel is the number of hex digits encoding one 8-bit channel.
	DigitsPerChannel = 2
	// WireLength is the exact length of an encoded color.
	WireLength = Channels * DigitsPerChannel
)

// ErrMalformed is returned when an encoded color has the wrong length.
var ErrMalformed = errors.New("malformed color")

// Color is an 8-bit RGB value. The zero value is black.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Black turns every position off.
var Black = Color{}

// RGBA implements image/color.Color. Colors are always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xFFFF
}

// IsOff reports whether every channel is zero.
func (c Color) IsOff() bool {
	return c == Black
}

func (c Color) String() string {
	return Encode(c)
}

// Decode parses exactly WireLength hex digits into a Color. Any other length
// fails with ErrMalformed; a non-hex character fails with hex.ErrInvalidDigit.
func Decode(s string) (Color, error) {
	if len(s) != WireLength {
		return Color{}, fmt.Errorf("%w: want %d hex digits, got %d", ErrMalformed, WireLength, len(s))
	}

	var ch [Channels]uint8
	for i := range ch {
		part := s[i*DigitsPerChannel : (i+1)*DigitsPerChannel]
		v, err := hex.Decode(part)
		if err != nil {
			return Color{}, fmt.Errorf("channel %d: %w", i, err)
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// Encode formats c as WireLength uppercase hex digits.
func Encode(c Color) string {
	var sb strings.Builder
	sb.Grow(WireLength)
	for _, v := range [Channels]uint8{c.R, c.G, c.B} {
		sb.WriteString(hex.Encode(uint64(v), DigitsPerChannel))
	}
	return sb.String()
}

// Parse accepts the forms people type by hand: surrounding whitespace and an
// optional leading '#'. The remainder must be valid for Decode.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	return Decode(s)
}
