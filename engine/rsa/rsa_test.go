package rsa

import (
	"bytes"
	stdrsa "crypto/rsa"
	"crypto/x509"
	"io"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/wokdav/gorsa/engine/bigint"
	"github.com/wokdav/gorsa/engine/entropy"
)

func toBig(x *bigint.BigUint) *big.Int {
	return new(big.Int).SetBytes(x.Bytes())
}

func debugKey(t *testing.T, seed string) *Key {
	t.Helper()
	k, err := GenerateKey(DebugBitLength, WithDebugSizes(), WithSource(entropy.NewDeterministic([]byte(seed))))
	require.NoError(t, err)
	return k
}

func TestCheckBitLength(t *testing.T) {
	assert.NoError(t, CheckBitLength(1024, false))
	assert.NoError(t, CheckBitLength(2048, false))
	assert.NoError(t, CheckBitLength(64, true))

	assert.ErrorIs(t, CheckBitLength(64, false), ErrUnsupportedSize)
	assert.ErrorIs(t, CheckBitLength(1000, true), ErrUnsupportedSize)
	assert.ErrorIs(t, CheckBitLength(0, false), ErrUnsupportedSize)
	assert.ErrorIs(t, CheckBitLength(8*bigint.Limit+8, false), ErrOverflowSize)

	if 8192 > 8*bigint.Limit {
		assert.ErrorIs(t, CheckBitLength(8192, false), ErrOverflowSize)
	}
}

func TestSupportedBitLengths(t *testing.T) {
	assert.Equal(t, []int{1024, 2048, 3072, 4096, 8192}, SupportedBitLengths(false))
	assert.Equal(t, []int{64, 1024, 2048, 3072, 4096, 8192}, SupportedBitLengths(true))

	// callers must not be able to change the list
	SupportedBitLengths(false)[0] = 1
	assert.Equal(t, 1024, SupportedBitLengths(false)[0])
}

func TestGeneratePrime(t *testing.T) {
	src := entropy.NewDeterministic([]byte("primes"))

	for _, byteLength := range []int{2, 4, 8} {
		for i := 0; i < 5; i++ {
			p, err := generatePrime(src, byteLength, 20)
			require.NoError(t, err)
			assert.Equal(t, 8*byteLength, p.BitLen())
			assert.True(t, toBig(p).ProbablyPrime(20), "%v is not prime", p)
		}
	}

	_, err := generatePrime(src, 1, 20)
	assert.ErrorIs(t, err, ErrUnsupportedSize)
}

func TestSelectExponents(t *testing.T) {
	src := entropy.NewDeterministic([]byte("exponents"))

	for i := 0; i < 10; i++ {
		p, err := generatePrime(src, 4, 20)
		require.NoError(t, err)
		q, err := generatePrime(src, 4, 20)
		require.NoError(t, err)

		bp, bq := toBig(p), toBig(q)
		n := new(big.Int).Mul(bp, bq)
		phi := new(big.Int).Mul(new(big.Int).Sub(bp, big.NewInt(1)), new(big.Int).Sub(bq, big.NewInt(1)))

		var bn, bphi bigint.BigUint
		bn.SetBytes(n.Bytes())
		bphi.SetBytes(phi.Bytes())

		e, d := selectExponents(src, &bn, &bphi)
		be, bd := toBig(e), toBig(d)

		assert.True(t, be.Cmp(big.NewInt(3)) >= 0)
		assert.True(t, be.Cmp(phi) < 0)

		ed := new(big.Int).Mul(be, bd)
		assert.Zero(t, ed.Mod(ed, phi).Cmp(big.NewInt(1)), "e*d mod phi != 1")
	}
}

func TestGenerateKeyDebugSize(t *testing.T) {
	k := debugKey(t, "debug key")

	assert.True(t, k.IsPublic())
	assert.True(t, k.IsPrivate())
	assert.Equal(t, DebugBitLength, k.BitLength)
	assert.Equal(t, DebugBitLength, k.N.BitLen())

	trials := 100
	if testing.Short() {
		trials = 10
	}

	src := entropy.NewDeterministic([]byte("messages"))
	for i := 0; i < trials; i++ {
		var m bigint.BigUint
		for {
			m.SetRandom(src, 8)
			if c, _ := m.Cmp(&k.N); c < 0 {
				break
			}
		}

		c, err := Encrypt(&m, k)
		require.NoError(t, err)
		p, err := Decrypt(c, k)
		require.NoError(t, err)
		require.True(t, p.Equal(&m), "decrypt(encrypt(%v)) = %v", &m, p)

		s, err := Sign(&m, k)
		require.NoError(t, err)
		v, err := Verify(s, k)
		require.NoError(t, err)
		require.True(t, v.Equal(&m), "verify(sign(%v)) = %v", &m, v)
	}
}

func TestGenerateKeyIsDeterministicForSeed(t *testing.T) {
	a := debugKey(t, "same seed")
	b := debugKey(t, "same seed")
	assert.True(t, a.N.Equal(&b.N))
	assert.True(t, a.E.Equal(&b.E))
	assert.True(t, a.D.Equal(&b.D))
}

func TestGenerateKeyRejectsSizes(t *testing.T) {
	_, err := GenerateKey(64)
	assert.ErrorIs(t, err, ErrUnsupportedSize)

	_, err = GenerateKey(512, WithDebugSizes())
	assert.ErrorIs(t, err, ErrUnsupportedSize)

	_, err = GenerateKey(8*bigint.Limit + 1024)
	assert.ErrorIs(t, err, ErrOverflowSize)
}

func textbookKey() *Key {
	return &Key{
		N:         *bigint.NewUint64(3233),
		E:         *bigint.NewUint64(17),
		D:         *bigint.NewUint64(2753),
		BitLength: 64,
	}
}

func TestTextbookOperations(t *testing.T) {
	k := textbookKey()

	c, err := Encrypt(bigint.NewUint64(65), k)
	require.NoError(t, err)
	assert.Equal(t, uint64(2790), c.Uint64())

	m, err := Decrypt(c, k)
	require.NoError(t, err)
	assert.Equal(t, uint64(65), m.Uint64())
}

func TestOperationErrors(t *testing.T) {
	k := textbookKey()

	_, err := Encrypt(bigint.NewUint64(3233), k)
	assert.ErrorIs(t, err, ErrMessageRange)
	_, err = Sign(bigint.NewUint64(4000), k)
	assert.ErrorIs(t, err, ErrMessageRange)

	pub := k.Public()
	assert.False(t, pub.IsPrivate())
	_, err = Decrypt(bigint.NewUint64(5), pub)
	assert.ErrorIs(t, err, ErrNotPrivate)
	_, err = Sign(bigint.NewUint64(5), pub)
	assert.ErrorIs(t, err, ErrNotPrivate)

	priv := &Key{N: k.N, D: k.D, BitLength: k.BitLength}
	_, err = Encrypt(bigint.NewUint64(5), priv)
	assert.ErrorIs(t, err, ErrNotPublic)
	_, err = Verify(bigint.NewUint64(5), priv)
	assert.ErrorIs(t, err, ErrNotPublic)
}

func TestExportFormat(t *testing.T) {
	k := textbookKey()

	var pub, priv bytes.Buffer
	require.NoError(t, ExportKey(k, &pub, &priv))
	assert.Equal(t, "64 0000000000000ca1 0000000000000011\n", pub.String())
	assert.Equal(t, "64 0000000000000ca1 0000000000000ac1\n", priv.String())
}

func TestExportRoundTrip(t *testing.T) {
	src := entropy.NewDeterministic([]byte("round trip"))

	for _, bits := range SupportedBitLengths(true) {
		if bits > 8*bigint.Limit {
			continue
		}

		for i := 0; i < 5; i++ {
			k := &Key{BitLength: bits}
			k.N.SetRandom(src, bits/8)
			k.E.SetRandom(src, bits/8)
			k.D.SetRandom(src, bits/8)

			var pub, priv bytes.Buffer
			require.NoError(t, ExportKey(k, &pub, &priv))

			line := strings.Fields(pub.String())
			require.Len(t, line, 3)
			assert.Len(t, line[1], bits/4)
			assert.Len(t, line[2], bits/4)

			got, err := ImportKey(&pub, &priv, WithDebugSizes())
			require.NoError(t, err)
			assert.Equal(t, bits, got.BitLength)
			assert.True(t, got.N.Equal(&k.N))
			assert.True(t, got.E.Equal(&k.E))
			assert.True(t, got.D.Equal(&k.D))
		}
	}
}

func TestExportGeneratedKey(t *testing.T) {
	k := debugKey(t, "export")

	var pub, priv bytes.Buffer
	require.NoError(t, ExportKey(k, &pub, &priv))

	got, err := ImportKey(&pub, &priv, WithDebugSizes())
	require.NoError(t, err)
	assert.Equal(t, k.BitLength, got.BitLength)
	assert.True(t, got.N.Equal(&k.N))
	assert.True(t, got.E.Equal(&k.E))
	assert.True(t, got.D.Equal(&k.D))
	assert.Equal(t, k.Fingerprint(), got.Fingerprint())
}

func TestExportErrors(t *testing.T) {
	wide := &Key{BitLength: 64, E: *bigint.NewUint64(3)}
	wide.N.Lsh(bigint.NewUint64(1), 70)
	assert.ErrorIs(t, ExportKey(wide, new(bytes.Buffer), nil), ErrValueTooWide)

	pub := textbookKey().Public()
	assert.ErrorIs(t, ExportKey(pub, nil, new(bytes.Buffer)), ErrNotPrivate)
	assert.ErrorIs(t, ExportKey(&Key{BitLength: 64}, new(bytes.Buffer), nil), ErrNotPublic)
}

func TestImportHalves(t *testing.T) {
	k, err := ImportKey(strings.NewReader("64 0000000000000ca1 0000000000000011"), nil, WithDebugSizes())
	require.NoError(t, err)
	assert.True(t, k.IsPublic())
	assert.False(t, k.IsPrivate())
	assert.Equal(t, uint64(3233), k.N.Uint64())

	k, err = ImportKey(nil, strings.NewReader("64 0ca1 0ac1\n"), WithDebugSizes())
	require.NoError(t, err)
	assert.False(t, k.IsPublic())
	assert.True(t, k.IsPrivate())
	assert.Equal(t, uint64(2753), k.D.Uint64())

	k, err = ImportKey(nil, nil)
	require.NoError(t, err)
	assert.False(t, k.IsPublic())
	assert.False(t, k.IsPrivate())
	assert.Zero(t, k.BitLength)
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name string
		pub  string
		priv string
		want error
	}{
		{"odd length modulus", "64 abc 0011", "", ErrMalformedImport},
		{"odd length exponent", "64 0ca1 011", "", ErrMalformedImport},
		{"invalid digit", "64 0cx1 0011", "", ErrMalformedImport},
		{"missing exponent", "64 0ca1", "", ErrMalformedImport},
		{"no bit length", "zz 0ca1 0011", "", ErrMalformedImport},
		{"empty", "", "", ErrMalformedImport},
		{"unsupported size", "1000 0ca1 0011", "", ErrUnsupportedSize},
		{"oversized", "1000000 0ca1 0011", "", ErrOverflowSize},
		{"value too wide", "64 010000000000000000 03", "", ErrValueTooWide},
		{"bit length mismatch", "64 0ca1 0011", "1024 0ca1 0ac1", ErrJoinBitLength},
		{"modulus mismatch", "64 0ca1 0011", "64 0ca3 0ac1", ErrJoinModulus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var priv io.Reader
			if tt.priv != "" {
				priv = strings.NewReader(tt.priv)
			}

			_, err := ImportKey(strings.NewReader(tt.pub), priv, WithDebugSizes())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFingerprint(t *testing.T) {
	k := textbookKey()

	fp := k.Fingerprint()
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, k.Public().Fingerprint())

	other := textbookKey()
	other.E.SetUint64(7)
	assert.NotEqual(t, fp, other.Fingerprint())

	assert.Empty(t, (&Key{N: k.N, D: k.D, BitLength: 64}).Fingerprint())
}

func TestPKCS1MatchesStandardLibrary(t *testing.T) {
	src := entropy.NewDeterministic([]byte("pkcs1"))

	k := &Key{BitLength: 1024, E: *bigint.NewUint64(65537)}
	k.N.SetRandom(src, 128)
	k.N.SetBit(1023, 1)

	der, err := MarshalPKCS1PublicKey(k)
	require.NoError(t, err)

	want := x509.MarshalPKCS1PublicKey(&stdrsa.PublicKey{N: toBig(&k.N), E: 65537})
	assert.Equal(t, want, der)

	got, err := ParsePKCS1PublicKey(der)
	require.NoError(t, err)
	assert.Equal(t, 1024, got.BitLength)
	assert.True(t, got.N.Equal(&k.N))
	assert.True(t, got.E.Equal(&k.E))
	assert.False(t, got.IsPrivate())
}

func TestPKCS1Errors(t *testing.T) {
	_, err := MarshalPKCS1PublicKey(&Key{BitLength: 64})
	assert.ErrorIs(t, err, ErrNotPublic)

	_, err = ParsePKCS1PublicKey([]byte{0x30, 0x03, 0x02, 0x01})
	assert.ErrorIs(t, err, ErrDER)

	der, err := MarshalPKCS1PublicKey(textbookKey())
	require.NoError(t, err)
	_, err = ParsePKCS1PublicKey(der)
	assert.ErrorIs(t, err, ErrUnsupportedSize)

	// exponent wider than the whole integer capacity
	n := toBig(&debugKey(t, "pkcs1-wide").N)
	e := new(big.Int).Lsh(big.NewInt(1), 8*bigint.Capacity+5)
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(n)
		b.AddASN1BigInt(e)
	})
	_, err = ParsePKCS1PublicKey(b.BytesOrPanic(), WithDebugSizes())
	assert.ErrorIs(t, err, ErrDER)
}

func TestOperationsRejectOverflowedKey(t *testing.T) {
	k := textbookKey()
	k.E.SetBit(bigint.Bits, 1)
	require.True(t, k.IsPublic())

	_, err := Encrypt(bigint.NewUint64(65), k)
	assert.ErrorIs(t, err, ErrOverflowSize)
	_, err = Verify(bigint.NewUint64(65), k)
	assert.ErrorIs(t, err, ErrOverflowSize)

	k = textbookKey()
	k.D.SetBit(bigint.Bits, 1)
	_, err = Decrypt(bigint.NewUint64(65), k)
	assert.ErrorIs(t, err, ErrOverflowSize)
}
