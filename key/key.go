package key

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Iterations is the PBKDF2 work factor used by FromPassphrase.
const Iterations = 4096

type Key interface {
	GetBytes() []byte
	Len() int
}

type key128 struct {
	material [16]byte
}

// GetBytes returns a copy so callers can't rewrite the key under a cipher.
func (k *key128) GetBytes() []byte {
	b := make([]byte, len(k.material))
	copy(b, k.material[:])
	return b
}

func (k *key128) Len() int {
	return len(k.material)
}

// Random reads a 128 bit key from r. Pass crypto/rand.Reader for real keys or
// a seeded math/rand source for reproducible runs.
func Random(r io.Reader) (Key, error) {
	var material [16]byte
	if _, err := io.ReadFull(r, material[:]); err != nil {
		return nil, fmt.Errorf("could not generate random key: %w", err)
	}
	return &key128{material: material}, nil
}

// FromPassphrase derives a 128 bit key with PBKDF2-SHA256.
func FromPassphrase(passphrase string, salt []byte) Key {
	b := pbkdf2.Key([]byte(passphrase), salt, Iterations, 16, sha256.New)
	return &key128{material: [16]byte(b)}
}

func NewKey(material [16]byte) Key {
	return &key128{material: material}
}

// FromBytes accepts literal keys such as "YELLOW SUBMARINE".
func FromBytes(b []byte) (Key, error) {
	if len(b) != 16 {
		return nil, fmt.Errorf("key must be 16 bytes, got %d", len(b))
	}
	return &key128{material: [16]byte(b)}, nil
}
