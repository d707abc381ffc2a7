package entropy

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReader struct {
	calls int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.calls++
	for i := range p {
		p[i] = byte(c.calls)
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("no device")
}

func TestBufferedSourceRefills(t *testing.T) {
	r := &countingReader{}
	s := newBufferedSource(r)

	buf := make([]byte, BufferSize+10)
	s.Fill(buf)

	assert.Equal(t, 2, r.calls, "a request larger than the buffer needs two loads")
	assert.Equal(t, byte(1), buf[0])
	assert.Equal(t, byte(1), buf[BufferSize-1])
	assert.Equal(t, byte(2), buf[BufferSize])

	small := make([]byte, 5)
	s.Fill(small)
	assert.Equal(t, 2, r.calls, "remaining buffered bytes are consumed first")
	assert.Equal(t, []byte{2, 2, 2, 2, 2}, small)
}

func TestBufferedSourceFailureIsFatal(t *testing.T) {
	s := newBufferedSource(failingReader{})
	assert.Panics(t, func() {
		s.Fill(make([]byte, 1))
	})
}

func TestSystemFillsBuffer(t *testing.T) {
	buf := make([]byte, 64)
	System().Fill(buf)
	assert.False(t, bytes.Equal(buf, make([]byte, 64)), "64 zero bytes from the OS generator")
}

func TestDeterministicIsReproducible(t *testing.T) {
	a := make([]byte, 100)
	b := make([]byte, 100)
	NewDeterministic([]byte("seed")).Fill(a)
	NewDeterministic([]byte("seed")).Fill(b)
	require.Equal(t, a, b)

	c := make([]byte, 100)
	NewDeterministic([]byte("other seed")).Fill(c)
	assert.NotEqual(t, a, c)
}

func TestDeterministicStreamContinues(t *testing.T) {
	whole := make([]byte, 64)
	NewDeterministic([]byte{1}).Fill(whole)

	s := NewDeterministic([]byte{1})
	first := make([]byte, 10)
	rest := make([]byte, 54)
	s.Fill(first)
	s.Fill(rest)

	assert.Equal(t, whole, append(first, rest...))
}

func TestScripted(t *testing.T) {
	s := NewScripted([]byte{1, 2}, []byte{3})
	buf := make([]byte, 2)
	s.Fill(buf)
	assert.Equal(t, []byte{1, 2}, buf)

	one := make([]byte, 1)
	s.Fill(one)
	assert.Equal(t, []byte{3}, one)

	assert.Panics(t, func() { s.Fill(one) })
}

func TestFillFunc(t *testing.T) {
	var src Source = FillFunc(func(b []byte) {
		for i := range b {
			b[i] = 0xAB
		}
	})
	buf := make([]byte, 3)
	src.Fill(buf)
	assert.Equal(t, []byte{0xAB, 0xAB, 0xAB}, buf)
}
