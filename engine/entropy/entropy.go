// Package entropy provides the uniform random byte sources consumed by the
// key machinery.
//
// Everything that needs randomness takes a [Source] so that tests can swap the
// operating system generator for a seeded or scripted one. A Source is not
// required to be safe for concurrent use; the process-wide [System] source is,
// because it serializes access to its buffer.
package entropy

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/wokdav/gorsa/logging"
)

// BufferSize is the number of bytes the system source pulls from the
// operating system at once.
const BufferSize = 1024

// Source fills buffers with independent, uniformly distributed bytes.
// Fill never fails: a source that cannot deliver must terminate the process.
type Source interface {
	Fill(buf []byte)
}

// FillFunc adapts an ordinary function to the [Source] interface.
type FillFunc func(buf []byte)

// Fill calls f(buf).
func (f FillFunc) Fill(buf []byte) {
	f(buf)
}

type systemSource struct {
	mu     sync.Mutex
	reader io.Reader
	buf    [BufferSize]byte
	cur    int
}

var system = newBufferedSource(rand.Reader)

// System returns the process-wide source backed by the operating system's
// cryptographically secure generator.
func System() Source {
	return system
}

func newBufferedSource(r io.Reader) *systemSource {
	return &systemSource{reader: r, cur: BufferSize}
}

func (s *systemSource) Fill(buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < len(buf); {
		if s.cur == BufferSize {
			s.load()
		}

		n := copy(buf[i:], s.buf[s.cur:])
		s.cur += n
		i += n
	}
}

func (s *systemSource) load() {
	if _, err := io.ReadFull(s.reader, s.buf[:]); err != nil {
		logging.Errorf("entropy: can't read from the system generator: %v", err)
		panic("entropy: system generator unavailable: " + err.Error())
	}
	s.cur = 0
}
