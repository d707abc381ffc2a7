// Package bigint implements fixed-capacity unsigned integers in base 256 and
// the modular arithmetic the RSA key machinery is built on.
//
// A [BigUint] holds Capacity bytes, least significant byte first. Nothing ever
// grows: an operation whose result does not fit marks its destination as
// overflowed instead of truncating. The overflow flag is sticky, every
// operation reading an overflowed operand yields an overflowed result, and it
// can be inspected with [BigUint.Overflow] after any call.
//
// Methods follow the math/big convention: the receiver is the destination,
// it may alias any operand, and it is returned for chaining. The zero value is
// a valid zero.
//
// None of the algorithms here run in constant time.
package bigint

import (
	"errors"
	"math/bits"

	"github.com/wokdav/gorsa/engine/entropy"
)

const (
	// Capacity is the width of every BigUint in bytes.
	Capacity = 2 * Limit
	// Bits is the width of every BigUint in bits.
	Bits = 8 * Capacity
)

// ErrOverflow is reported when an overflowed value takes part in a
// comparison.
var ErrOverflow = errors.New("bigint: operand overflowed")

// BigUint is a fixed-capacity natural number.
type BigUint struct {
	digits [Capacity]byte

	// sticky fault; digits are meaningless once set
	overflow bool

	// valid while !overflow, maintained by normalize
	highByte int
	highBit  int
}

// NewUint64 allocates a BigUint set to n.
func NewUint64(n uint64) *BigUint {
	return new(BigUint).SetUint64(n)
}

func (z *BigUint) fault() *BigUint {
	*z = BigUint{overflow: true}
	return z
}

// normalize recomputes the significant width, scanning down from byte top.
// Bytes above top must already be zero.
func (z *BigUint) normalize(top int) {
	if z.overflow {
		return
	}
	if top >= Capacity {
		top = Capacity - 1
	}

	z.highByte = 0
	for i := top; i > 0; i-- {
		if z.digits[i] != 0 {
			z.highByte = i
			break
		}
	}

	z.highBit = 0
	if d := z.digits[z.highByte]; d != 0 {
		z.highBit = 8*z.highByte + bits.Len8(d) - 1
	}
}

// SetUint64 sets z to n.
func (z *BigUint) SetUint64(n uint64) *BigUint {
	*z = BigUint{}
	for i := 0; i < 8; i++ {
		z.digits[i] = byte(n)
		n >>= 8
	}
	z.normalize(7)
	return z
}

// Uint64 returns the low 64 bits of x.
func (x *BigUint) Uint64() uint64 {
	var n uint64
	for i := 7; i >= 0; i-- {
		n = n<<8 | uint64(x.digits[i])
	}
	return n
}

// Set copies x into z.
func (z *BigUint) Set(x *BigUint) *BigUint {
	*z = *x
	return z
}

// SetRandom sets z to maxBytes random low-order bytes drawn from src.
// Asking for more than Capacity bytes overflows z.
func (z *BigUint) SetRandom(src entropy.Source, maxBytes int) *BigUint {
	if maxBytes < 0 || maxBytes > Capacity {
		return z.fault()
	}

	*z = BigUint{}
	src.Fill(z.digits[:maxBytes])
	z.normalize(maxBytes - 1)
	return z
}

// SetBytes interprets buf as a big-endian number. Leading zero bytes are
// ignored; anything wider than Capacity overflows z.
func (z *BigUint) SetBytes(buf []byte) *BigUint {
	for len(buf) > 0 && buf[0] == 0 {
		buf = buf[1:]
	}
	if len(buf) > Capacity {
		return z.fault()
	}

	*z = BigUint{}
	for i, b := range buf {
		z.digits[len(buf)-1-i] = b
	}
	z.normalize(len(buf) - 1)
	return z
}

// Bytes returns x as a minimal big-endian byte slice; zero yields an empty
// slice and an overflowed value yields nil.
func (x *BigUint) Bytes() []byte {
	if x.overflow {
		return nil
	}
	if x.IsZero() {
		return []byte{}
	}

	out := make([]byte, x.highByte+1)
	for i := range out {
		out[i] = x.digits[x.highByte-i]
	}
	return out
}

// Overflow reports whether x carries the sticky fault.
func (x *BigUint) Overflow() bool {
	return x.overflow
}

// HighByte is the index of the most significant non-zero byte (0 for zero).
func (x *BigUint) HighByte() int {
	return x.highByte
}

// HighBit is the position of the most significant set bit (0 for zero).
func (x *BigUint) HighBit() int {
	return x.highBit
}

// BitLen returns the number of significant bits, 0 for zero and for an
// overflowed value.
func (x *BigUint) BitLen() int {
	if x.overflow || x.IsZero() {
		return 0
	}
	return x.highBit + 1
}

// IsZero reports whether x is a valid zero.
func (x *BigUint) IsZero() bool {
	return !x.overflow && x.highByte == 0 && x.highBit == 0 && x.digits[0] == 0
}

// IsEven reports whether the lowest bit of x is clear.
func (x *BigUint) IsEven() bool {
	return x.digits[0]&1 == 0
}

// cmp compares two valid values.
func (x *BigUint) cmp(y *BigUint) int {
	if x.highByte != y.highByte {
		if x.highByte > y.highByte {
			return 1
		}
		return -1
	}
	for i := x.highByte; i >= 0; i-- {
		if x.digits[i] != y.digits[i] {
			if x.digits[i] > y.digits[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Cmp compares x and y, returning -1, 0 or +1. Overflowed values are not
// ordered: if either operand is overflowed the result is 0 together with
// ErrOverflow.
func (x *BigUint) Cmp(y *BigUint) (int, error) {
	if x.overflow || y.overflow {
		return 0, ErrOverflow
	}
	return x.cmp(y), nil
}

// Equal reports whether x and y hold the same valid value. An overflowed
// value is equal to nothing, itself included.
func (x *BigUint) Equal(y *BigUint) bool {
	if x.overflow || y.overflow {
		return false
	}
	return x.cmp(y) == 0
}

// Bit returns the bit of x with weight 2^i. Out of range positions and
// overflowed values read as 0.
func (x *BigUint) Bit(i int) uint {
	if x.overflow || i < 0 || i >= Bits {
		return 0
	}
	return uint(x.digits[i>>3]>>(i&7)) & 1
}

// SetBit sets the bit of z with weight 2^i to b (0 or 1). A position beyond
// the capacity overflows z.
func (z *BigUint) SetBit(i int, b uint) *BigUint {
	if z.overflow {
		return z
	}
	if i < 0 || i >= Bits {
		return z.fault()
	}

	if b != 0 {
		z.digits[i>>3] |= 1 << (i & 7)
	} else {
		z.digits[i>>3] &^= 1 << (i & 7)
	}

	top := z.highByte
	if i>>3 > top {
		top = i >> 3
	}
	z.normalize(top)
	return z
}

// OnesCount returns the number of set bits in x, or -1 if x is overflowed.
func (x *BigUint) OnesCount() int {
	if x.overflow {
		return -1
	}

	n := 0
	for i := 0; i <= x.highByte; i++ {
		n += bits.OnesCount8(x.digits[i])
	}
	return n
}

// Complement sets z to the bitwise complement of x over the full capacity.
func (z *BigUint) Complement(x *BigUint) *BigUint {
	if x.overflow {
		return z.fault()
	}

	var r BigUint
	for i := range r.digits {
		r.digits[i] = ^x.digits[i]
	}
	r.normalize(Capacity - 1)
	*z = r
	return z
}
