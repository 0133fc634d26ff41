package ecbattack

import (
	"bytes"
	"errors"
	"fmt"

	aesgo "github.com/mario-areias/ecb-oracle/aes-go"
	"github.com/mario-areias/ecb-oracle/detect"
)

var (
	ErrNotECB    = errors.New("ecbattack: oracle output has no repeated blocks")
	ErrBlockSize = errors.New("ecbattack: invalid block size")
)

// ErrMisaligned means the target block did not depend on the guessed byte,
// so the Params do not match the oracle.
var ErrMisaligned = errors.New("ecbattack: guesses do not reach the target block")

// Distinct filler bytes for alignment probes. A hidden prefix ending in, or a
// secret starting with, one filler byte can only make that byte's probe
// report too small an offset, and it can't do that for all three.
var fillers = []byte{'A', 'B', 'C'}

// Params locate the attacker controlled bytes inside the oracle's plaintext.
type Params struct {
	BlockSize int
	// PrefixBlocks is the index of the first block after the hidden prefix
	// once ByteOffset filler bytes have padded it out.
	PrefixBlocks int
	ByteOffset   int
	// SecretLen is the hidden suffix length; negative means unknown.
	SecretLen int
}

// PrefixLen is the hidden prefix length implied by the alignment.
func (p Params) PrefixLen() int {
	return p.PrefixBlocks*p.BlockSize - p.ByteOffset
}

// DiscoverBlockSize feeds three times MaxBlockSize identical bytes and
// returns the smallest size at which the output shows three identical
// adjacent blocks that change with the filler byte.
func (a *Attack) DiscoverBlockSize() (int, error) {
	limit := a.maxBlockSize()
	if limit < 2 {
		return 0, fmt.Errorf("%w: max block size %d", ErrBlockSize, limit)
	}

	ct := a.encryptFiller(fillers[0], 3*limit)
	alt := a.encryptFiller(fillers[1], 3*limit)
	for size := 2; size <= limit; size++ {
		if len(ct)%size != 0 {
			continue
		}
		if attackerRun(ct, alt, size, 3, 0) >= 0 && detect.Detect(ct, size) == aesgo.ECB {
			a.logf("block size %d, ECB confirmed", size)
			return size, nil
		}
	}

	return 0, fmt.Errorf("%w for block sizes 2..%d", ErrNotECB, limit)
}

// DiscoverAlignment finds how many whole blocks the hidden prefix spans once
// it is topped up, and how many filler bytes top it up.
func (a *Attack) DiscoverAlignment(blockSize int) (prefixBlocks, byteOffset int, err error) {
	if blockSize < 1 {
		return 0, 0, fmt.Errorf("%w: %d", ErrBlockSize, blockSize)
	}

	for i, f := range fillers {
		index := attackerRun(a.encryptFiller(f, 3*blockSize), a.encryptFiller(other(i), 3*blockSize), blockSize, 2, 0)
		if index < 0 {
			return 0, 0, ErrNotECB
		}
		prefixBlocks = max(prefixBlocks, index)
	}

	// The run must start exactly at prefixBlocks; anything earlier is the
	// prefix repeating itself.
	for i, f := range fillers {
		offset := -1
		for n := 0; n < blockSize; n++ {
			ct := a.encryptFiller(f, 2*blockSize+n)
			if attackerRun(ct, a.encryptFiller(other(i), 2*blockSize+n), blockSize, 2, prefixBlocks) == prefixBlocks {
				offset = n
				break
			}
		}
		if offset < 0 {
			return 0, 0, ErrNotECB
		}
		byteOffset = max(byteOffset, offset)
	}

	a.logf("prefix spans %d blocks after %d filler bytes", prefixBlocks, byteOffset)
	return prefixBlocks, byteOffset, nil
}

func (a *Attack) encryptFiller(f byte, n int) []byte {
	return a.Oracle.Encrypt(bytes.Repeat([]byte{f}, n))
}

// other is the filler compared against fillers[i] to tell attacker blocks
// from prefix blocks.
func other(i int) byte {
	return fillers[(i+1)%len(fillers)]
}

// DiscoverSecretLen grows the input one byte at a time until the ciphertext
// gains a block. At that point prefix, input and secret exactly fill the
// original padded length.
func (a *Attack) DiscoverSecretLen(blockSize, prefixLen int) (int, error) {
	initial := len(a.Oracle.Encrypt(nil))

	for n := 1; n <= blockSize; n++ {
		if len(a.Oracle.Encrypt(bytes.Repeat([]byte{fillers[0]}, n))) > initial {
			secretLen := initial - n - prefixLen
			if secretLen < 0 {
				return 0, fmt.Errorf("ecbattack: inconsistent prefix length %d", prefixLen)
			}
			a.logf("secret is %d bytes", secretLen)
			return secretLen, nil
		}
	}

	return 0, fmt.Errorf("%w: ciphertext did not grow within %d bytes", ErrBlockSize, blockSize)
}

// DiscoverAligned finds the parameters of an oracle without a prefix.
func (a *Attack) DiscoverAligned() (Params, error) {
	blockSize, err := a.DiscoverBlockSize()
	if err != nil {
		return Params{}, err
	}
	if detect.DetectOracle(a.Oracle, blockSize) != aesgo.ECB {
		return Params{}, ErrNotECB
	}

	secretLen, err := a.DiscoverSecretLen(blockSize, 0)
	if err != nil {
		return Params{}, err
	}
	return Params{BlockSize: blockSize, SecretLen: secretLen}, nil
}

// Discover finds every parameter of an oracle with an unknown prefix.
func (a *Attack) Discover() (Params, error) {
	blockSize, err := a.DiscoverBlockSize()
	if err != nil {
		return Params{}, err
	}

	prefixBlocks, byteOffset, err := a.DiscoverAlignment(blockSize)
	if err != nil {
		return Params{}, err
	}

	p := Params{BlockSize: blockSize, PrefixBlocks: prefixBlocks, ByteOffset: byteOffset}
	if p.SecretLen, err = a.DiscoverSecretLen(blockSize, p.PrefixLen()); err != nil {
		return Params{}, err
	}
	return p, nil
}

// attackerRun returns the index, at or after from, of the first run adjacent
// identical blocks of ct whose first block differs from the same block of
// other, or -1. Blocks the filler byte does not reach are identical in both
// ciphertexts. A nil other accepts any run.
func attackerRun(ct, other []byte, blockSize, run, from int) int {
	blocks := aesgo.Split(ct, blockSize)
	for i := from; i+run <= len(blocks); i++ {
		if other != nil && (i+1)*blockSize <= len(other) && bytes.Equal(blocks[i], other[i*blockSize:(i+1)*blockSize]) {
			continue
		}

		same := true
		for j := 1; j < run; j++ {
			if !bytes.Equal(blocks[i], blocks[i+j]) {
				same = false
				break
			}
		}
		if same {
			return i
		}
	}
	return -1
}
