package redis

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// Argon2id cost for deriving the seal key. Derivation runs once per storage.
const (
	keyMemory      = 64 * 1024 // KiB
	keyIterations  = 3
	keyParallelism = 2
	keyLength      = 32
)

var errUnseal = errors.New("stored session value could not be unsealed")

// sealer encrypts stored values with NaCl secretbox under a key derived from
// the configured seal secret.
type sealer struct {
	key [32]byte
}

// newSealer returns nil for an empty secret, meaning values are stored as is.
// The salt must be stable across restarts so earlier values stay readable.
func newSealer(secret, salt string) *sealer {
	if secret == "" {
		return nil
	}
	s := &sealer{}
	copy(s.key[:], argon2.IDKey([]byte(secret), []byte(salt), keyIterations, keyMemory, keyParallelism, keyLength))
	return s
}

func (s *sealer) seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("seal nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *sealer) open(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) < nonceSize {
		return "", errUnseal
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errUnseal
	}
	return string(plain), nil
}
