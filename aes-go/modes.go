package aesgo

import (
	"crypto/cipher"
	"fmt"
)

type Mode int

const (
	ECB Mode = iota
	CBC
)

func (m Mode) String() string {
	switch m {
	case ECB:
		return "ECB"
	case CBC:
		return "CBC"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

type ecb struct {
	b     cipher.Block
	crypt func(dst, src []byte)
}

// NewECBEncrypter returns a cipher.BlockMode that encrypts every block independently.
func NewECBEncrypter(b cipher.Block) cipher.BlockMode {
	return &ecb{b: b, crypt: b.Encrypt}
}

// NewECBDecrypter returns a cipher.BlockMode that decrypts every block independently.
func NewECBDecrypter(b cipher.Block) cipher.BlockMode {
	return &ecb{b: b, crypt: b.Decrypt}
}

func (e *ecb) BlockSize() int {
	return e.b.BlockSize()
}

func (e *ecb) CryptBlocks(dst, src []byte) {
	n := e.BlockSize()
	if len(src)%n != 0 {
		panic("aesgo: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("aesgo: output smaller than input")
	}

	for i := 0; i < len(src); i += n {
		e.crypt(dst[i:i+n], src[i:i+n])
	}
}

// EncryptECB pads plaintext and encrypts it block by block.
func EncryptECB(b cipher.Block, plaintext []byte) []byte {
	padded := Pad(plaintext, b.BlockSize())
	NewECBEncrypter(b).CryptBlocks(padded, padded)
	return padded
}

// DecryptECB decrypts ciphertext and leniently strips its padding.
func DecryptECB(b cipher.Block, ciphertext []byte) ([]byte, error) {
	if err := checkAlignment(ciphertext, b.BlockSize()); err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	NewECBDecrypter(b).CryptBlocks(plaintext, ciphertext)
	return Unpad(plaintext), nil
}

// EncryptCBC pads plaintext and chains it from iv. A nil iv means all zero
// bytes; the IV is not prepended to the result.
func EncryptCBC(b cipher.Block, plaintext, iv []byte) ([]byte, error) {
	n := b.BlockSize()
	prev, err := initVector(iv, n)
	if err != nil {
		return nil, err
	}

	padded := Pad(plaintext, n)
	encrypted := make([]byte, len(padded))

	for i := 0; i < len(padded); i += n {
		block := xorBytes(padded[i:i+n], prev)
		b.Encrypt(encrypted[i:i+n], block)
		prev = encrypted[i : i+n]
	}

	return encrypted, nil
}

// DecryptCBC reverses EncryptCBC. Invalid padding is left in place.
func DecryptCBC(b cipher.Block, ciphertext, iv []byte) ([]byte, error) {
	plaintext, err := decryptCBCBlocks(b, ciphertext, iv)
	if err != nil {
		return nil, err
	}
	return Unpad(plaintext), nil
}

// DecryptCBCStrict is DecryptCBC for defenders: invalid padding fails with a
// *PaddingError.
func DecryptCBCStrict(b cipher.Block, ciphertext, iv []byte) ([]byte, error) {
	plaintext, err := decryptCBCBlocks(b, ciphertext, iv)
	if err != nil {
		return nil, err
	}
	return RemovePadding(plaintext)
}

func decryptCBCBlocks(b cipher.Block, ciphertext, iv []byte) ([]byte, error) {
	n := b.BlockSize()
	prev, err := initVector(iv, n)
	if err != nil {
		return nil, err
	}
	if err := checkAlignment(ciphertext, n); err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	block := make([]byte, n)

	for i := 0; i < len(ciphertext); i += n {
		b.Decrypt(block, ciphertext[i:i+n])
		copy(plaintext[i:i+n], xorBytes(block, prev))
		prev = ciphertext[i : i+n]
	}

	return plaintext, nil
}

func initVector(iv []byte, blockSize int) ([]byte, error) {
	if iv == nil {
		return make([]byte, blockSize), nil
	}
	if len(iv) != blockSize {
		return nil, fmt.Errorf("aesgo: IV length %d does not match block size %d", len(iv), blockSize)
	}
	return iv, nil
}

func checkAlignment(data []byte, blockSize int) error {
	if len(data)%blockSize != 0 {
		return &AlignmentError{Len: len(data), BlockSize: blockSize}
	}
	return nil
}

// Split divides data into blocks of size n. A trailing partial block is dropped.
func Split(data []byte, n int) [][]byte {
	var blocks [][]byte
	for len(data) >= n {
		blocks = append(blocks, data[:n])
		data = data[n:]
	}
	return blocks
}

func xorBytes(a, b []byte) []byte {
	x := make([]byte, len(a))
	for i := range a {
		x[i] = a[i] ^ b[i]
	}
	return x
}
