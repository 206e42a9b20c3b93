// Package hex converts between hexadecimal digit strings and unsigned integers.
package hex

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxDigits is the longest input Decode accepts; longer values overflow a uint64.
const MaxDigits = 16

var (
	// ErrInvalidDigit is returned when the input contains a character outside 0-9, a-f, A-F.
	ErrInvalidDigit = errors.New("invalid hex digit")
	// ErrOverflow is returned when the input has more than MaxDigits digits.
	ErrOverflow = errors.New("hex value overflows uint64")
)

// InvalidDigitError describes the offending character and the byte offset
// where it starts.
type InvalidDigitError struct {
	Char rune
	Pos  int
}

func (e *InvalidDigitError) Error() string {
	return fmt.Sprintf("invalid hex digit %q at position %d", e.Char, e.Pos)
}

// Unwrap lets errors.Is match ErrInvalidDigit.
func (e *InvalidDigitError) Unwrap() error {
	return ErrInvalidDigit
}

// Nibble returns the numeric value of a single hex digit.
func Nibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// Decode evaluates s as a base-16 number. The rightmost digit has weight 16^0.
// An empty string decodes to 0.
func Decode(s string) (uint64, error) {
	if len(s) > MaxDigits {
		return 0, fmt.Errorf("%w: %d digits", ErrOverflow, len(s))
	}

	var v uint64
	for i := 0; i < len(s); i++ {
		n, ok := Nibble(s[i])
		if !ok {
			r, _ := utf8.DecodeRuneInString(s[i:])
			return 0, &InvalidDigitError{Char: r, Pos: i}
		}
		v = v<<4 | uint64(n)
	}
	return v, nil
}

const digits = "0123456789ABCDEF"

// Encode formats v in uppercase hex, left-padded with zeros to width digits.
// Values wider than width are not truncated.
func Encode(v uint64, width int) string {
	var buf [MaxDigits]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xF]
		v >>= 4
	}
	out := string(buf[i:])
	if pad := width - len(out); pad > 0 {
		out = strings.Repeat("0", pad) + out
	}
	return out
}
