// Package oracle builds the black-box encryption capabilities the attacks
// run against. An Oracle hides its key, prefix and suffix; callers only see
// ciphertext.
package oracle

import (
	"crypto/cipher"
	"fmt"
	"math/rand"

	aesgo "github.com/mario-areias/ecb-oracle/aes-go"
	"github.com/mario-areias/ecb-oracle/key"
)

// ChallengeSuffix is the base64 secret of cryptopals challenge 12.
const ChallengeSuffix = "Um9sbGluJyBpbiBteSA1LjAKV2l0aCBteSByYWctdG9wIGRvd24gc28gbXkgaGFpciBjYW4gYmxvdwpUaGUgZ2lybGllcyBvbiBzdGFuZGJ5IHdhdmluZyBqdXN0IHRvIHNheSBoaQpEaWQgeW91IHN0b3A/IE5vLCBJIGp1c3QgZHJvdmUgYnkK"

type Oracle interface {
	Encrypt(plaintext []byte) []byte
}

// Func adapts a plain function to the Oracle interface.
type Func func([]byte) []byte

func (f Func) Encrypt(plaintext []byte) []byte {
	return f(plaintext)
}

// ECB encrypts prefix || input || suffix under a fixed key. It holds no
// mutable state, so concurrent calls are safe.
type ECB struct {
	block  cipher.Block
	prefix []byte
	suffix []byte
}

func NewECB(block cipher.Block, prefix, suffix []byte) *ECB {
	return &ECB{
		block:  block,
		prefix: append([]byte(nil), prefix...),
		suffix: append([]byte(nil), suffix...),
	}
}

// NewRandomECB hides suffix behind a random AES key with no prefix.
func NewRandomECB(rng *rand.Rand, suffix []byte) (*ECB, error) {
	return NewRandomPrefixECB(rng, suffix, 0, 0)
}

// NewRandomPrefixECB adds a random alphanumeric prefix whose length is drawn
// from [minPrefix, maxPrefix). maxPrefix <= minPrefix means exactly minPrefix bytes.
func NewRandomPrefixECB(rng *rand.Rand, suffix []byte, minPrefix, maxPrefix int) (*ECB, error) {
	c, err := randomCipher(rng)
	if err != nil {
		return nil, err
	}

	n := minPrefix
	if maxPrefix > minPrefix {
		n += rng.Intn(maxPrefix - minPrefix)
	}
	return NewECB(c, RandomString(rng, n), suffix), nil
}

func (o *ECB) Encrypt(plaintext []byte) []byte {
	buf := make([]byte, 0, len(o.prefix)+len(plaintext)+len(o.suffix))
	buf = append(buf, o.prefix...)
	buf = append(buf, plaintext...)
	buf = append(buf, o.suffix...)
	return aesgo.EncryptECB(o.block, buf)
}

// EncryptRandomMode encrypts plaintext under a fresh random key, wrapped in
// 5 to 10 random bytes on each side, with ECB or CBC picked by coin flip.
// CBC uses a random IV. The chosen mode is returned so callers can check
// a classifier against it.
func EncryptRandomMode(rng *rand.Rand, plaintext []byte) ([]byte, aesgo.Mode, error) {
	c, err := randomCipher(rng)
	if err != nil {
		return nil, 0, err
	}

	buf := RandomString(rng, 5+rng.Intn(6))
	buf = append(buf, plaintext...)
	buf = append(buf, RandomString(rng, 5+rng.Intn(6))...)

	if rng.Intn(2) == 0 {
		return aesgo.EncryptECB(c, buf), aesgo.ECB, nil
	}

	iv := RandomBytes(rng, aesgo.BlockSize)
	encrypted, err := aesgo.EncryptCBC(c, buf, iv)
	if err != nil {
		return nil, 0, err
	}
	return encrypted, aesgo.CBC, nil
}

func randomCipher(rng *rand.Rand) (*aesgo.Cipher, error) {
	k, err := key.Random(rng)
	if err != nil {
		return nil, err
	}
	c, err := aesgo.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	return c, nil
}

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns n random alphanumeric bytes.
func RandomString(rng *rand.Rand, n int) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = alphanumeric[rng.Intn(len(alphanumeric))]
	}
	return s
}

func RandomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}
