// Package engine acts as the front-end for key handling and should always be
// the way external packages generate, store and use keys.
//
// The proxy functions defined here translate [config.Settings] into options
// of the rsa package, keep the key database up to date and log failures, so
// callers only have to report the returned errors.
package engine

import (
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/wokdav/gorsa/engine/bigint"
	"github.com/wokdav/gorsa/engine/config"
	"github.com/wokdav/gorsa/engine/entropy"
	"github.com/wokdav/gorsa/engine/keystore"
	"github.com/wokdav/gorsa/engine/rsa"
	"github.com/wokdav/gorsa/logging"
)

const pemPublicKeyType = "RSA PUBLIC KEY"

var (
	ErrKeyExists        = errors.New("engine: key already exists")
	ErrKeyNotFound      = errors.New("engine: key not found")
	ErrUnknownOperation = errors.New("engine: unknown operation")
	ErrNoPEM            = errors.New("engine: no " + pemPublicKeyType + " block found")
)

type Operation string

const (
	OpEncrypt Operation = "encrypt"
	OpDecrypt Operation = "decrypt"
	OpSign    Operation = "sign"
	OpVerify  Operation = "verify"
)

var operations = map[Operation]func(*bigint.BigUint, *rsa.Key) (*bigint.BigUint, error){
	OpEncrypt: rsa.Encrypt,
	OpDecrypt: rsa.Decrypt,
	OpSign:    rsa.Sign,
	OpVerify:  rsa.Verify,
}

// Options translates settings into options for the rsa package. A nil src
// leaves the system source in place.
func Options(s *config.Settings, src entropy.Source) []rsa.Option {
	opts := []rsa.Option{rsa.WithRounds(s.Rounds)}
	if s.DebugSizes {
		opts = append(opts, rsa.WithDebugSizes())
	}
	if src != nil {
		opts = append(opts, rsa.WithSource(src))
	}
	return opts
}

// GenerateKey creates a key as described by s and stores it under name, or
// under s.KeyName if name is empty. Existing keys are never replaced.
func GenerateKey(db keystore.Database, name string, s *config.Settings, src entropy.Source) (*keystore.Entry, error) {
	if name == "" {
		name = s.KeyName
	}

	if db.Get(name) != nil {
		logging.Errorf("refusing to overwrite key '%s'", name)
		return nil, fmt.Errorf("%w: '%s'", ErrKeyExists, name)
	}

	if err := keystore.ValidName(name); err != nil {
		logging.Errorf("invalid key name: %v", err)
		return nil, err
	}

	logging.Infof("generating %d-bit key '%s'", s.BitLength, name)
	key, err := rsa.GenerateKey(s.BitLength, Options(s, src)...)
	if err != nil {
		logging.Errorf("can't generate key '%s': %v", name, err)
		return nil, err
	}

	err = db.Put(keystore.Entry{Name: name, Key: key})
	if err != nil {
		logging.Errorf("can't store key '%s': %v", name, err)
		return nil, err
	}

	logging.Infof("stored key '%s' with fingerprint %s", name, key.Fingerprint())
	return db.Get(name), nil
}

func LoadKey(db keystore.Database, name string) (*rsa.Key, error) {
	entry := db.Get(name)
	if entry == nil {
		logging.Errorf("key '%s' is not in the database", name)
		return nil, fmt.Errorf("%w: '%s'", ErrKeyNotFound, name)
	}
	return entry.Key, nil
}

// Apply runs op with the named key on the hex encoded message and returns
// the result as BitLength/4 hex digits. An odd number of digits is padded
// with a leading zero.
func Apply(db keystore.Database, name string, op Operation, messageHex string) (string, error) {
	fn, ok := operations[op]
	if !ok {
		logging.Errorf("unknown operation '%s'", op)
		return "", fmt.Errorf("%w: '%s'", ErrUnknownOperation, op)
	}

	key, err := LoadKey(db, name)
	if err != nil {
		return "", err
	}

	messageHex = strings.TrimPrefix(strings.TrimSpace(messageHex), "0x")
	if len(messageHex)%2 != 0 {
		messageHex = "0" + messageHex
	}

	m, err := bigint.ParseHex(messageHex)
	if err != nil {
		logging.Errorf("can't read message: %v", err)
		return "", fmt.Errorf("engine: message: %w", err)
	}

	out, err := fn(m, key)
	if err != nil {
		logging.Errorf("%s with key '%s' failed: %v", op, name, err)
		return "", err
	}

	return out.HexDigits(key.BitLength / 4), nil
}

// PublicKeyPEM returns the public half of the named key as a PKCS #1 PEM
// block.
func PublicKeyPEM(db keystore.Database, name string) ([]byte, error) {
	key, err := LoadKey(db, name)
	if err != nil {
		return nil, err
	}

	der, err := rsa.MarshalPKCS1PublicKey(key)
	if err != nil {
		logging.Errorf("can't encode key '%s': %v", name, err)
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: pemPublicKeyType, Bytes: der}), nil
}

// ParsePublicKeyPEM reads the first "RSA PUBLIC KEY" block in data.
func ParsePublicKeyPEM(data []byte, s *config.Settings) (*rsa.Key, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, ErrNoPEM
		}
		if block.Type != pemPublicKeyType {
			logging.Debugf("skipping pem block of type '%s'", block.Type)
			continue
		}

		return rsa.ParsePKCS1PublicKey(block.Bytes, Options(s, nil)...)
	}
}

// Describe summarizes an entry for humans, one property per line.
func Describe(e *keystore.Entry) string {
	var halves []string
	if e.Key.IsPublic() {
		halves = append(halves, "public")
	}
	if e.Key.IsPrivate() {
		halves = append(halves, "private")
	}

	sb := strings.Builder{}
	fmt.Fprintf(&sb, "name:        %s\n", e.Name)
	fmt.Fprintf(&sb, "bit length:  %d\n", e.Key.BitLength)
	fmt.Fprintf(&sb, "halves:      %s\n", strings.Join(halves, ", "))
	if fp := e.Key.Fingerprint(); fp != "" {
		fmt.Fprintf(&sb, "fingerprint: %s\n", fp)
	}
	if !e.LastWrite.IsZero() {
		fmt.Fprintf(&sb, "last write:  %s\n", e.LastWrite.Format("2006-01-02 15:04:05"))
	}
	return sb.String()
}
