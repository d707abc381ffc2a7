package numtheory

import (
	"github.com/wokdav/gorsa/engine/bigint"
	"github.com/wokdav/gorsa/engine/entropy"
)

// DefaultRounds is the number of Miller-Rabin witnesses drawn per candidate.
const DefaultRounds = 10

// MillerRabin reports whether n is probably prime, given n - 1 = 2^u * r with
// r odd. Each of the rounds draws a random witness a with 1 < a < n - 1; a
// composite survives a single round with probability at most 1/4.
//
// Candidates below 5 leave no room for a witness and are answered directly.
func MillerRabin(src entropy.Source, n *bigint.BigUint, u int, r *bigint.BigUint, rounds int) bool {
	if n.Overflow() || r.Overflow() {
		return false
	}
	if n.BitLen() <= 3 {
		v := n.Uint64()
		if v < 5 {
			return v == 2 || v == 3
		}
	}

	one := bigint.NewUint64(1)
	var nm1 bigint.BigUint
	nm1.Sub(n, one)

	var a, z bigint.BigUint
	for s := 0; s < rounds; s++ {
		witness(src, &a, &nm1)

		z.Exp(&a, r, n)
		if z.Equal(one) || z.Equal(&nm1) {
			continue
		}

		passed := false
		for i := 1; i < u; i++ {
			z.Square(&z)
			z.Mod(&z, n)

			if z.Equal(one) {
				return false
			}
			if z.Equal(&nm1) {
				passed = true
				break
			}
		}

		if !passed {
			return false
		}
	}

	return true
}

// witness draws a uniformly into (1, nm1) by rejection, sampling only as
// many bits as nm1 has.
func witness(src entropy.Source, a, nm1 *bigint.BigUint) {
	width := nm1.HighByte() + 1
	excess := 8*width - nm1.BitLen()
	two := bigint.NewUint64(2)

	for {
		a.SetRandom(src, width)
		a.Rsh(a, excess)

		if c, _ := a.Cmp(nm1); c < 0 {
			if c, _ := a.Cmp(two); c >= 0 {
				return
			}
		}
	}
}

// Decompose splits n - 1 into 2^u * r with r odd. n must be odd and > 1.
func Decompose(n *bigint.BigUint) (int, *bigint.BigUint) {
	var r bigint.BigUint
	r.Sub(n, bigint.NewUint64(1))

	u := 0
	for r.Bit(u) == 0 && u <= r.HighBit() {
		u++
	}
	r.Rsh(&r, u)
	return u, &r
}

// IsProbablePrime decomposes n and runs [MillerRabin] on it. Values below 2
// and even values above 2 are rejected without drawing randomness.
func IsProbablePrime(src entropy.Source, n *bigint.BigUint, rounds int) bool {
	if n.Overflow() {
		return false
	}
	if n.BitLen() <= 2 {
		v := n.Uint64()
		return v == 2 || v == 3
	}
	if n.IsEven() {
		return false
	}

	u, r := Decompose(n)
	return MillerRabin(src, n, u, r, rounds)
}
