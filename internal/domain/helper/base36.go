package helper

import (
	"fmt"
	"math"
	"strings"

	"github.com/Gabrielunor/coordinator-backend/internal/domain/model"
)

const base36Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// EncodeBase36 renders a non-negative number in base 36 using digits 0-9 and
// uppercase A-Z. Zero encodes as "0".
func EncodeBase36(n int64) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: negative value %d", model.ErrInvalidInput, n)
	}
	if n == 0 {
		return "0", nil
	}
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = base36Digits[n%36]
		n /= 36
	}
	return string(buf[i:]), nil
}

// DecodeBase36 parses a base 36 string back into a number. Surrounding
// whitespace is trimmed and letters are accepted in either case. Empty
// strings, foreign characters and values that overflow int64 are rejected.
func DecodeBase36(s string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty identifier", model.ErrInvalidInput)
	}
	var n int64
	for _, c := range trimmed {
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case c >= 'A' && c <= 'Z':
			d = int64(c-'A') + 10
		default:
			return 0, fmt.Errorf("%w: character %q in %q", model.ErrInvalidInput, c, s)
		}
		if n > (math.MaxInt64-d)/36 {
			return 0, fmt.Errorf("%w: %q does not fit in 64 bits", model.ErrInvalidInput, s)
		}
		n = n*36 + d
	}
	return n, nil
}
