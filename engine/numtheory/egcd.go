// Package numtheory holds the number theory the RSA key machinery needs: the
// extended Euclidean algorithm and Miller-Rabin primality testing.
package numtheory

import (
	"github.com/wokdav/gorsa/engine/bigint"
)

// ExtGCD runs the extended Euclidean algorithm on n and m, both non-zero.
//
// It returns gcd(n, m) and the Bezout coefficient t of the smaller operand,
// normalized into [0, max(n, m)): smaller*t = gcd (mod larger). The
// coefficient of the larger operand is never computed. If either operand is
// overflowed, both results are overflowed.
func ExtGCD(n, m *bigint.BigUint) (gcd, t *bigint.BigUint) {
	if n.Overflow() || m.Overflow() {
		var bad bigint.BigUint
		bad.SetBit(-1, 1)
		return &bad, new(bigint.BigUint).Set(&bad)
	}

	var r0, r1 bigint.BigUint
	if c, _ := n.Cmp(m); c > 0 {
		r0.Set(n)
		r1.Set(m)
	} else {
		r0.Set(m)
		r1.Set(n)
	}
	larger := bigint.NewSigned(&r0, 1)

	t0 := bigint.NewSigned(new(bigint.BigUint), 0)
	t1 := bigint.NewSigned(bigint.NewUint64(1), 1)

	var q, rem bigint.BigUint
	var qt, t2 bigint.Signed

	for !r1.IsZero() {
		q.QuoRem(&r0, &r1, &rem)
		r0, r1 = r1, rem

		qt.Mul(bigint.NewSigned(&q, 1), t1)
		t2.Sub(t0, &qt)
		*t0, *t1 = *t1, t2
	}

	for t0.Sign < 0 {
		t0.Add(t0, larger)
	}

	return &r0, &t0.Mag
}

// ModInverse returns a^-1 mod m, or false when gcd(a, m) != 1 or either
// operand is overflowed.
// a must be in (0, m).
func ModInverse(a, m *bigint.BigUint) (*bigint.BigUint, bool) {
	gcd, t := ExtGCD(a, m)
	if !gcd.Equal(bigint.NewUint64(1)) {
		return nil, false
	}
	return t, true
}
