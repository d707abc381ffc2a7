package bigint

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Errors returned by [BigUint.SetHex] and [ParseHex].
var (
	ErrOddLength    = errors.New("bigint: hex string has odd length")
	ErrTooLong      = errors.New("bigint: hex string exceeds capacity")
	ErrInvalidDigit = errors.New("bigint: invalid hex digit")
)

// Hex encodes x big-endian over the full capacity, 2*Capacity lowercase
// digits. An overflowed value encodes as the empty string.
func (x *BigUint) Hex() string {
	if x.overflow {
		return ""
	}

	var be [Capacity]byte
	for i := range be {
		be[i] = x.digits[Capacity-1-i]
	}
	return hex.EncodeToString(be[:])
}

// HexDigits returns the rightmost n digits of [BigUint.Hex].
func (x *BigUint) HexDigits(n int) string {
	s := x.Hex()
	if n < 0 || n > len(s) {
		return s
	}
	return s[len(s)-n:]
}

// String returns x in minimal hex, mainly for diagnostics.
func (x *BigUint) String() string {
	if x.overflow {
		return "<overflow>"
	}
	s := strings.TrimLeft(x.Hex(), "0")
	if s == "" {
		return "0"
	}
	return s
}

// SetHex decodes the big-endian hex string s (either case, no prefix) into z.
// On error z is left untouched.
func (z *BigUint) SetHex(s string) error {
	if len(s)%2 != 0 {
		return ErrOddLength
	}
	if len(s) > 2*Capacity {
		return ErrTooLong
	}

	buf, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDigit, err)
	}

	var r BigUint
	for i, b := range buf {
		r.digits[len(buf)-1-i] = b
	}
	r.normalize(len(buf) - 1)
	*z = r
	return nil
}

// ParseHex is a convenience wrapper around [BigUint.SetHex].
func ParseHex(s string) (*BigUint, error) {
	z := new(BigUint)
	if err := z.SetHex(s); err != nil {
		return nil, err
	}
	return z, nil
}
