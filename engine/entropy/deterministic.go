package entropy

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20"
)

type deterministicSource struct {
	cipher *chacha20.Cipher
}

// NewDeterministic returns a reproducible source: the ChaCha20 keystream keyed
// with the BLAKE2b-256 digest of seed. Equal seeds yield equal byte streams.
//
// It is meant for tests and reproducible demonstrations only.
func NewDeterministic(seed []byte) Source {
	key := blake2b.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)

	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		// key and nonce sizes are fixed above
		panic("entropy: " + err.Error())
	}

	return &deterministicSource{cipher: c}
}

func (d *deterministicSource) Fill(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	d.cipher.XORKeyStream(buf, buf)
}

type scriptedSource struct {
	data []byte
}

// NewScripted returns a source replaying the concatenation of chunks.
// Fill panics once the script is exhausted.
func NewScripted(chunks ...[]byte) Source {
	s := &scriptedSource{}
	for _, c := range chunks {
		s.data = append(s.data, c...)
	}
	return s
}

func (s *scriptedSource) Fill(buf []byte) {
	if len(buf) > len(s.data) {
		panic("entropy: scripted source exhausted")
	}
	n := copy(buf, s.data)
	s.data = s.data[n:]
}
