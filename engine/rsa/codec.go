package rsa

import (
	"fmt"
	"io"

	goerrors "github.com/agilira/go-errors"

	"github.com/wokdav/gorsa/engine/bigint"
)

// ExportKey writes the public half of k to pub and the private half to priv,
// one line each: "<bit length> <n> <exponent>", both numbers as exactly
// BitLength/4 hex digits. Either writer may be nil to skip that half.
func ExportKey(k *Key, pub, priv io.Writer) error {
	if pub != nil {
		if !k.IsPublic() {
			return coded(ErrNotPublic, goerrors.New(ErrCodeNotPublic, "cannot export public half"))
		}
		if err := writeHalf(pub, k, &k.E); err != nil {
			return err
		}
	}

	if priv != nil {
		if !k.IsPrivate() {
			return coded(ErrNotPrivate, goerrors.New(ErrCodeNotPrivate, "cannot export private half"))
		}
		if err := writeHalf(priv, k, &k.D); err != nil {
			return err
		}
	}

	return nil
}

func writeHalf(w io.Writer, k *Key, exp *bigint.BigUint) error {
	for _, v := range []*bigint.BigUint{&k.N, exp} {
		if v.Overflow() || v.BitLen() > k.BitLength {
			return coded(ErrValueTooWide, goerrors.New(ErrCodeValueTooWide,
				fmt.Sprintf("value %v does not fit in %d bits", v, k.BitLength)))
		}
	}

	digits := k.BitLength / 4
	_, err := fmt.Fprintf(w, "%d %s %s\n", k.BitLength, k.N.HexDigits(digits), exp.HexDigits(digits))
	return err
}

type half struct {
	bits int
	n    bigint.BigUint
	exp  bigint.BigUint
}

func readHalf(r io.Reader, debug bool) (*half, error) {
	var h half
	var nHex, expHex string

	if _, err := fmt.Fscan(r, &h.bits); err != nil {
		return nil, coded(ErrMalformedImport, goerrors.Wrap(err, ErrCodeImportN, "could not read bit length"))
	}
	if err := CheckBitLength(h.bits, debug); err != nil {
		return nil, err
	}

	if _, err := fmt.Fscan(r, &nHex); err != nil {
		return nil, coded(ErrMalformedImport, goerrors.Wrap(err, ErrCodeImportN, "could not import `n`"))
	}
	if err := h.n.SetHex(nHex); err != nil {
		return nil, coded(ErrMalformedImport, goerrors.Wrap(err, ErrCodeImportN, "could not import `n`"))
	}

	if _, err := fmt.Fscan(r, &expHex); err != nil {
		return nil, coded(ErrMalformedImport, goerrors.Wrap(err, ErrCodeImportExp, "could not import exponent"))
	}
	if err := h.exp.SetHex(expHex); err != nil {
		return nil, coded(ErrMalformedImport, goerrors.Wrap(err, ErrCodeImportExp, "could not import exponent"))
	}

	if h.n.BitLen() > h.bits || h.exp.BitLen() > h.bits {
		return nil, coded(ErrValueTooWide, goerrors.New(ErrCodeValueTooWide,
			fmt.Sprintf("imported value exceeds %d bits", h.bits)))
	}

	return &h, nil
}

// ImportKey reads a key written by [ExportKey]. Either reader may be nil; if
// both are given, the halves must agree on bit length and modulus.
// [WithDebugSizes] is the only option that applies.
func ImportKey(pub, priv io.Reader, opts ...Option) (*Key, error) {
	o := newOptions(opts)
	k := new(Key)

	var pubHalf, privHalf *half
	var err error

	if pub != nil {
		if pubHalf, err = readHalf(pub, o.debug); err != nil {
			return nil, err
		}
		k.BitLength = pubHalf.bits
		k.N = pubHalf.n
		k.E = pubHalf.exp
	}

	if priv != nil {
		if privHalf, err = readHalf(priv, o.debug); err != nil {
			return nil, err
		}
		k.BitLength = privHalf.bits
		k.N = privHalf.n
		k.D = privHalf.exp
	}

	if pubHalf != nil && privHalf != nil {
		if pubHalf.bits != privHalf.bits {
			return nil, coded(ErrJoinBitLength, goerrors.New(ErrCodeJoinBitLength,
				fmt.Sprintf("public half has %d bits, private half %d", pubHalf.bits, privHalf.bits)))
		}
		if !pubHalf.n.Equal(&privHalf.n) {
			return nil, coded(ErrJoinModulus, goerrors.New(ErrCodeJoinN, "moduli differ"))
		}
	}

	return k, nil
}
