// Generic key database package
//
// This provides functionality to store generated RSA keys under a name
// and to read them back from any source. The filesystem package holds the
// only backend right now.
package keystore

import (
	"fmt"
	"time"

	"github.com/wokdav/gorsa/engine/rsa"
)

type Database interface {
	Open() error
	Close() error

	Put(Entry) error
	Get(string) *Entry
	Names() []string
}

type Entry struct {
	Name      string
	Key       *rsa.Key
	LastWrite time.Time
}

// ValidName checks that a key name can be used as a file base name:
// non-empty, at most 64 characters out of [A-Za-z0-9._-], not starting
// with a dot.
func ValidName(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("keystore: empty key name")
	}
	if len(name) > 64 {
		return fmt.Errorf("keystore: key name '%s' is longer than 64 characters", name)
	}
	if name[0] == '.' {
		return fmt.Errorf("keystore: key name '%s' must not start with a dot", name)
	}

	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return fmt.Errorf("keystore: key name '%s' contains invalid character %q", name, c)
		}
	}

	return nil
}
