// Package rsa implements textbook RSA on top of the fixed-capacity integers of
// package bigint: prime and key generation, the four exponentiation based
// operations and a line oriented text format to exchange keys.
//
// No padding scheme is applied. Messages are integers in [0, n) and callers
// own every convention on how bytes are mapped to them.
//
// Key sizes are limited to [SupportedBitLengths] and in any case to
// 8*bigint.Limit bits, since intermediate products need twice the key width.
package rsa

import (
	"fmt"
	"slices"

	goerrors "github.com/agilira/go-errors"
	"golang.org/x/crypto/blake2b"

	"github.com/wokdav/gorsa/engine/bigint"
	"github.com/wokdav/gorsa/engine/entropy"
	"github.com/wokdav/gorsa/engine/numtheory"
)

// DebugBitLength is a tiny key size, only accepted with [WithDebugSizes].
// It exists to exercise the machinery quickly in tests.
const DebugBitLength = 64

var supportedBitLengths = []int{1024, 2048, 3072, 4096, 8192}

// Key is an RSA key. It is public if E is non-zero and private if D is
// non-zero; keys produced by [GenerateKey] are both.
type Key struct {
	N         bigint.BigUint
	E         bigint.BigUint
	D         bigint.BigUint
	BitLength int
}

// IsPublic reports whether k carries a public exponent.
func (k *Key) IsPublic() bool {
	return !k.E.IsZero()
}

// IsPrivate reports whether k carries a private exponent.
func (k *Key) IsPrivate() bool {
	return !k.D.IsZero()
}

// Public returns a copy of k without the private exponent.
func (k *Key) Public() *Key {
	return &Key{N: k.N, E: k.E, BitLength: k.BitLength}
}

// Fingerprint identifies the public half of k: the first 8 bytes of the
// BLAKE2b-256 digest of n and e in the text format, as 16 hex characters.
// Keys without a public exponent have no fingerprint.
func (k *Key) Fingerprint() string {
	if !k.IsPublic() {
		return ""
	}

	line := fmt.Sprintf("%d %s %s", k.BitLength,
		k.N.HexDigits(k.BitLength/4), k.E.HexDigits(k.BitLength/4))
	sum := blake2b.Sum256([]byte(line))
	return fmt.Sprintf("%016x", sum[:8])
}

// SupportedBitLengths lists the accepted key sizes, smallest first. The
// debug size is included if debug is set. Sizes beyond the integer capacity
// are listed but rejected by [CheckBitLength].
func SupportedBitLengths(debug bool) []int {
	out := slices.Clone(supportedBitLengths)
	if debug {
		out = append([]int{DebugBitLength}, out...)
	}
	return out
}

// CheckBitLength validates a key size, returning ErrOverflowSize or
// ErrUnsupportedSize.
func CheckBitLength(bits int, debug bool) error {
	if bits > 8*bigint.Limit {
		return coded(ErrOverflowSize, goerrors.New(ErrCodeOverflowSize,
			fmt.Sprintf("bit length %d exceeds the limit of %d", bits, 8*bigint.Limit)))
	}

	if slices.Contains(SupportedBitLengths(debug), bits) {
		return nil
	}

	return coded(ErrUnsupportedSize, goerrors.New(ErrCodeUnsupportedSize,
		fmt.Sprintf("bit length %d is not one of %v", bits, SupportedBitLengths(debug))))
}

type options struct {
	source entropy.Source
	rounds int
	debug  bool
}

// Option configures key generation and import.
type Option func(*options)

// WithSource sets the random source. The default is [entropy.System].
func WithSource(src entropy.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithRounds sets the number of Miller-Rabin rounds per prime candidate.
// Values below 1 are ignored.
func WithRounds(rounds int) Option {
	return func(o *options) {
		if rounds > 0 {
			o.rounds = rounds
		}
	}
}

// WithDebugSizes additionally accepts [DebugBitLength].
func WithDebugSizes() Option {
	return func(o *options) {
		o.debug = true
	}
}

func newOptions(opts []Option) options {
	o := options{
		source: entropy.System(),
		rounds: numtheory.DefaultRounds,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
