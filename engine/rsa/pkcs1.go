package rsa

import (
	"math/big"

	goerrors "github.com/agilira/go-errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// MarshalPKCS1PublicKey encodes the public half of k as a PKCS #1
// RSAPublicKey, the DER body of a "RSA PUBLIC KEY" PEM block.
func MarshalPKCS1PublicKey(k *Key) ([]byte, error) {
	if !k.IsPublic() {
		return nil, coded(ErrNotPublic, goerrors.New(ErrCodeNotPublic, "cannot marshal public key"))
	}

	n := new(big.Int).SetBytes(k.N.Bytes())
	e := new(big.Int).SetBytes(k.E.Bytes())

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(n)
		b.AddASN1BigInt(e)
	})

	der, err := b.Bytes()
	if err != nil {
		return nil, coded(ErrDER, goerrors.Wrap(err, ErrCodeDER, "could not build RSAPublicKey"))
	}
	return der, nil
}

// ParsePKCS1PublicKey decodes a PKCS #1 RSAPublicKey. The key's bit length is
// the bit length of the modulus and must be supported.
func ParsePKCS1PublicKey(der []byte, opts ...Option) (*Key, error) {
	o := newOptions(opts)

	n, e := new(big.Int), new(big.Int)
	var inner cryptobyte.String
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(n) ||
		!inner.ReadASN1Integer(e) ||
		!inner.Empty() {
		return nil, coded(ErrDER, goerrors.New(ErrCodeDER, "invalid RSAPublicKey structure"))
	}

	if n.Sign() <= 0 || e.Sign() <= 0 {
		return nil, coded(ErrDER, goerrors.New(ErrCodeDER, "modulus and exponent must be positive"))
	}

	if err := CheckBitLength(n.BitLen(), o.debug); err != nil {
		return nil, err
	}

	if e.BitLen() > n.BitLen() {
		return nil, coded(ErrDER, goerrors.New(ErrCodeDER, "exponent wider than modulus"))
	}

	k := &Key{BitLength: n.BitLen()}
	k.N.SetBytes(n.Bytes())
	k.E.SetBytes(e.Bytes())
	if k.N.Overflow() || k.E.Overflow() {
		return nil, coded(ErrOverflowSize, goerrors.New(ErrCodeOverflowSize, "key exceeds the integer capacity"))
	}
	return k, nil
}
