package rsa

import (
	"fmt"

	goerrors "github.com/agilira/go-errors"

	"github.com/wokdav/gorsa/engine/bigint"
)

// Encrypt returns m^e mod n.
func Encrypt(m *bigint.BigUint, k *Key) (*bigint.BigUint, error) {
	if !k.IsPublic() {
		return nil, coded(ErrNotPublic, goerrors.New(ErrCodeNotPublic, "cannot encrypt"))
	}
	return apply(m, &k.E, k)
}

// Decrypt returns c^d mod n.
func Decrypt(c *bigint.BigUint, k *Key) (*bigint.BigUint, error) {
	if !k.IsPrivate() {
		return nil, coded(ErrNotPrivate, goerrors.New(ErrCodeNotPrivate, "cannot decrypt"))
	}
	return apply(c, &k.D, k)
}

// Sign returns m^d mod n.
func Sign(m *bigint.BigUint, k *Key) (*bigint.BigUint, error) {
	if !k.IsPrivate() {
		return nil, coded(ErrNotPrivate, goerrors.New(ErrCodeNotPrivate, "cannot sign"))
	}
	return apply(m, &k.D, k)
}

// Verify returns s^e mod n. Comparing the result with the expected message is
// left to the caller.
func Verify(s *bigint.BigUint, k *Key) (*bigint.BigUint, error) {
	if !k.IsPublic() {
		return nil, coded(ErrNotPublic, goerrors.New(ErrCodeNotPublic, "cannot verify"))
	}
	return apply(s, &k.E, k)
}

func apply(m, exp *bigint.BigUint, k *Key) (*bigint.BigUint, error) {
	if exp.Overflow() || k.N.Overflow() {
		return nil, coded(ErrOverflowSize, goerrors.New(ErrCodeOverflowSize, "key holds an overflowed value"))
	}
	if c, err := m.Cmp(&k.N); err != nil || c >= 0 {
		return nil, coded(ErrMessageRange, goerrors.New(ErrCodeMessageRange,
			fmt.Sprintf("message %v is not below the modulus", m)))
	}
	out := new(bigint.BigUint).Exp(m, exp, &k.N)
	if out.Overflow() {
		return nil, coded(ErrOverflowSize, goerrors.New(ErrCodeOverflowSize, "result overflowed"))
	}
	return out, nil
}
