package rsa

import (
	"encoding/binary"
	"fmt"

	goerrors "github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"

	"github.com/wokdav/gorsa/engine/bigint"
	"github.com/wokdav/gorsa/engine/entropy"
	"github.com/wokdav/gorsa/engine/numtheory"
	"github.com/wokdav/gorsa/logging"
)

// generatePrime returns a probable prime of exactly 8*byteLength bits.
//
// Candidates are built as N = R * 2^u + 1 with R odd and u random in
// [1, byteLength/2], so the decomposition of N - 1 that Miller-Rabin needs is
// known up front. R is trimmed to 8*byteLength - u bits with its two highest
// bits set, which keeps the product of two such primes at full length.
func generatePrime(src entropy.Source, byteLength, rounds int) (*bigint.BigUint, error) {
	if byteLength < 2 {
		return nil, coded(ErrUnsupportedSize, goerrors.New(ErrCodeUnsupportedSize,
			fmt.Sprintf("prime of %d bytes requested", byteLength)))
	}

	one := bigint.NewUint64(1)
	var r, n bigint.BigUint
	var draw [2]byte

	for tries := 1; ; tries++ {
		src.Fill(draw[:])
		u := 1 + int(binary.LittleEndian.Uint16(draw[:]))%(byteLength/2)
		width := 8*byteLength - u

		r.SetRandom(src, byteLength)
		r.Rsh(&r, u)
		r.SetBit(width-1, 1)
		r.SetBit(width-2, 1)
		r.SetBit(0, 1)

		n.Lsh(&r, u)
		n.Add(&n, one)

		if numtheory.MillerRabin(src, &n, u, &r, rounds) {
			logging.Debugf("rsa: %d-bit prime found after %d candidates", n.BitLen(), tries)
			return &n, nil
		}
	}
}

// selectExponents draws e with as many bytes as n until it lies in [3, phi)
// and is invertible mod phi. d is that inverse.
func selectExponents(src entropy.Source, n, phi *bigint.BigUint) (e, d *bigint.BigUint) {
	width := n.HighByte() + 1
	three := bigint.NewUint64(3)
	one := bigint.NewUint64(1)

	e = new(bigint.BigUint)
	for tries := 1; ; tries++ {
		e.SetRandom(src, width)
		if c, _ := e.Cmp(phi); c >= 0 {
			continue
		}
		if c, _ := e.Cmp(three); c < 0 {
			continue
		}

		gcd, t := numtheory.ExtGCD(e, phi)
		if gcd.Equal(one) {
			logging.Debugf("rsa: public exponent accepted after %d draws", tries)
			return e, t
		}
	}
}

// GenerateKey creates a full key with a modulus of exactly bits bits.
func GenerateKey(bits int, opts ...Option) (*Key, error) {
	o := newOptions(opts)
	if err := CheckBitLength(bits, o.debug); err != nil {
		return nil, err
	}

	start := timecache.CachedTime()
	byteLength := bits / 16
	one := bigint.NewUint64(1)

	var p, q *bigint.BigUint
	var err error
	for {
		if p, err = generatePrime(o.source, byteLength, o.rounds); err != nil {
			return nil, err
		}
		if q, err = generatePrime(o.source, byteLength, o.rounds); err != nil {
			return nil, err
		}
		if !p.Equal(q) {
			break
		}
		logging.Debug("rsa: drew the same prime twice, retrying")
	}

	k := &Key{BitLength: bits}
	k.N.Mul(p, q)

	var pm1, qm1, phi bigint.BigUint
	pm1.Sub(p, one)
	qm1.Sub(q, one)
	phi.Mul(&pm1, &qm1)

	if k.N.Overflow() || phi.Overflow() {
		return nil, coded(ErrOverflowSize, goerrors.New(ErrCodeOverflowSize,
			fmt.Sprintf("modulus of %d bits does not fit", bits)))
	}

	e, d := selectExponents(o.source, &k.N, &phi)
	k.E.Set(e)
	k.D.Set(d)

	logging.Debugf("rsa: generated %d-bit key in %v", bits, timecache.CachedTime().Sub(start))
	return k, nil
}
