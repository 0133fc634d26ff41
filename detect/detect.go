// Package detect tells ECB ciphertext from CBC ciphertext by looking for
// repeated blocks.
//
// The test is a heuristic: it needs the plaintext to contain repeated
// blocks, so callers should control at least three or four identical
// plaintext blocks. Ciphertext shorter than two blocks always reads as CBC.
package detect

import (
	"bytes"

	aesgo "github.com/mario-areias/ecb-oracle/aes-go"
	"github.com/mario-areias/ecb-oracle/oracle"
)

// MaxLineBlocks bounds how many leading blocks MostLikelyECB compares per line.
const MaxLineBlocks = 15

// Detect reports ECB when any two blocks of ciphertext are identical.
// A trailing partial block is ignored.
func Detect(ciphertext []byte, blockSize int) aesgo.Mode {
	if RepeatedBlocks(ciphertext, blockSize) > 0 {
		return aesgo.ECB
	}
	return aesgo.CBC
}

// RepeatedBlocks counts the pairs of identical blocks in ciphertext.
func RepeatedBlocks(ciphertext []byte, blockSize int) int {
	return repeatedPairs(aesgo.Split(ciphertext, blockSize))
}

func repeatedPairs(blocks [][]byte) int {
	var pairs int
	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			if bytes.Equal(blocks[i], blocks[j]) {
				pairs++
			}
		}
	}
	return pairs
}

// MostLikelyECB returns the index of the ciphertext with the most repeated
// block pairs among its first MaxLineBlocks blocks, and that count. It
// returns -1 when no line repeats a block.
func MostLikelyECB(ciphertexts [][]byte, blockSize int) (int, int) {
	index, best := -1, 0
	for i, ct := range ciphertexts {
		blocks := aesgo.Split(ct, blockSize)
		if len(blocks) > MaxLineBlocks {
			blocks = blocks[:MaxLineBlocks]
		}

		if n := repeatedPairs(blocks); n > best {
			index, best = i, n
		}
	}
	return index, best
}

// Probe is the chosen plaintext DetectOracle sends: four blocks of one
// repeated byte, which always covers three whole blocks whatever the
// length of a hidden prefix.
func Probe(blockSize int) []byte {
	return bytes.Repeat([]byte{'A'}, 4*blockSize)
}

// DetectOracle classifies an oracle by encrypting Probe(blockSize).
func DetectOracle(o oracle.Oracle, blockSize int) aesgo.Mode {
	return Detect(o.Encrypt(Probe(blockSize)), blockSize)
}
