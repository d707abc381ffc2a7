package rsa

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks. Every error returned by this package
// wraps one of them together with a coded error carrying the details.
var (
	ErrUnsupportedSize = errors.New("rsa: unsupported key bit length")
	ErrOverflowSize    = errors.New("rsa: key too long: bit length exceeds the integer capacity")
	ErrMalformedImport = errors.New("rsa: malformed key import")
	ErrJoinBitLength   = errors.New("rsa: pub-priv join failed: bit lengths not compatible")
	ErrJoinModulus     = errors.New("rsa: pub-priv join failed: `n` not consistent")
	ErrNotPublic       = errors.New("rsa: key has no public exponent")
	ErrNotPrivate      = errors.New("rsa: key has no private exponent")
	ErrMessageRange    = errors.New("rsa: message out of range")
	ErrValueTooWide    = errors.New("rsa: value wider than the key bit length")
	ErrDER             = errors.New("rsa: malformed PKCS#1 public key")
)

// Error codes for rich error handling
const (
	ErrCodeUnsupportedSize = "RSA_UNSUPPORTED_SIZE"
	ErrCodeOverflowSize    = "RSA_OVERFLOW_SIZE"
	ErrCodeImportN         = "RSA_IMPORT_N"
	ErrCodeImportExp       = "RSA_IMPORT_EXP"
	ErrCodeJoinBitLength   = "RSA_JOIN_BIT_LENGTH"
	ErrCodeJoinN           = "RSA_JOIN_N"
	ErrCodeNotPublic       = "RSA_NOT_PUBLIC"
	ErrCodeNotPrivate      = "RSA_NOT_PRIVATE"
	ErrCodeMessageRange    = "RSA_MESSAGE_RANGE"
	ErrCodeValueTooWide    = "RSA_VALUE_TOO_WIDE"
	ErrCodeDER             = "RSA_DER"
)

// coded joins a sentinel with the coded error describing the failure.
func coded(sentinel error, rich error) error {
	return fmt.Errorf("%w: %w", sentinel, rich)
}
