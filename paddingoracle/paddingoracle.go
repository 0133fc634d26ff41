// Package paddingoracle shows why a defender should not expose strict
// unpadding: a CBC decryptor that only reports whether padding was valid
// still gives away the whole plaintext.
package paddingoracle

import (
	"crypto/cipher"
	"errors"
	"fmt"

	aesgo "github.com/mario-areias/ecb-oracle/aes-go"
)

var ErrNoValidPadding = errors.New("paddingoracle: no byte value produced valid padding")

// Checker decrypts IV || ciphertext and reports only padding validity.
type Checker interface {
	Decrypt(encrypted []byte) error
}

// Oracle plays a server that decrypts what it is sent but never hands the
// plaintext back, like a web server decrypting a cookie to check permissions.
type Oracle struct {
	block cipher.Block
}

func New(block cipher.Block) *Oracle {
	return &Oracle{block: block}
}

// Decrypt expects the IV as the first block.
func (o *Oracle) Decrypt(encrypted []byte) error {
	n := o.block.BlockSize()
	if len(encrypted) < 2*n {
		return &aesgo.AlignmentError{Len: len(encrypted), BlockSize: n}
	}

	// ignoring decrypted output because the caller shouldn't have access to it
	_, err := aesgo.DecryptCBCStrict(o.block, encrypted[n:], encrypted[:n])
	return err
}

// Attack decrypts IV || ciphertext one block at a time using nothing but the
// checker's answers, and returns the unpadded plaintext.
func Attack(o Checker, encrypted []byte, blockSize int) ([]byte, error) {
	if blockSize < 2 || len(encrypted) < 2*blockSize || len(encrypted)%blockSize != 0 {
		return nil, &aesgo.AlignmentError{Len: len(encrypted), BlockSize: blockSize}
	}

	blocks := aesgo.Split(encrypted, blockSize)
	decrypted := make([]byte, 0, len(encrypted)-blockSize)

	for i := 1; i < len(blocks); i++ {
		plain, err := decryptBlock(o, blocks[i-1], blocks[i])
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		decrypted = append(decrypted, plain...)
	}

	return aesgo.RemovePadding(decrypted)
}

// decryptBlock recovers the block cipher output for last (before the CBC
// xor) from the last byte backwards, then xors it with prev.
func decryptBlock(o Checker, prev, last []byte) ([]byte, error) {
	n := len(last)
	intermediate := make([]byte, n)
	forged := make([]byte, n)

	for z := n - 1; z >= 0; z-- {
		paddingValue := byte(n - z)

		// Make every byte already known decrypt to the new padding value.
		for x := n - 1; x > z; x-- {
			forged[x] = intermediate[x] ^ paddingValue
		}

		b, err := findPaddingByte(o, forged, last, z)
		if err != nil {
			return nil, err
		}

		// b ^ intermediate[z] == paddingValue
		intermediate[z] = b ^ paddingValue
	}

	plain := make([]byte, n)
	for i := range plain {
		plain[i] = intermediate[i] ^ prev[i]
	}
	return plain, nil
}

// findPaddingByte tries every value of forged[z] until the checker accepts
// forged || last.
func findPaddingByte(o Checker, forged, last []byte, z int) (byte, error) {
	n := len(forged)
	probe := make([]byte, 2*n)
	copy(probe[n:], last)

	for j := 0; j <= 0xff; j++ {
		forged[z] = byte(j)
		copy(probe, forged)
		if o.Decrypt(probe) != nil {
			continue
		}

		// On the last byte, \x02\x02 and longer runs are valid too. Changing
		// the byte before must not break a genuine \x01.
		if z == n-1 {
			probe[z-1] ^= 1
			err := o.Decrypt(probe)
			probe[z-1] ^= 1
			if err != nil {
				continue
			}
		}

		return byte(j), nil
	}

	return 0, ErrNoValidPadding
}
