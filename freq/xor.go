package freq

import (
	"errors"
	"math/bits"
)

// Result is the best single-byte XOR decryption of a ciphertext.
type Result struct {
	Plaintext []byte
	Key       byte
	Score     float64
}

// XOR xors a with b, cycling b when it is shorter. It is repeating-key XOR
// when b is the key.
func XOR(a, b []byte) []byte {
	out := make([]byte, len(a))
	if len(b) == 0 {
		copy(out, a)
		return out
	}
	for i := range a {
		out[i] = a[i] ^ b[i%len(b)]
	}
	return out
}

// FixedXOR xors two buffers of equal length.
func FixedXOR(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, errors.New("freq: buffers must have equal length")
	}
	return XOR(a, b), nil
}

// SolveSingleByteXOR tries every key byte in ascending order and keeps the
// first one reaching the highest Score.
func SolveSingleByteXOR(ciphertext []byte) Result {
	best := Result{Plaintext: XOR(ciphertext, []byte{0}), Key: 0}
	best.Score = Score(best.Plaintext)

	for k := 1; k <= 0xff; k++ {
		plaintext := XOR(ciphertext, []byte{byte(k)})
		if score := Score(plaintext); score > best.Score {
			best = Result{Plaintext: plaintext, Key: byte(k), Score: score}
		}
	}
	return best
}

// DetectSingleByteXOR solves every ciphertext and returns the index and
// result of the most English-like one. It returns -1 for no input.
func DetectSingleByteXOR(ciphertexts [][]byte) (int, Result) {
	index := -1
	var best Result
	for i, ct := range ciphertexts {
		res := SolveSingleByteXOR(ct)
		if index < 0 || res.Score > best.Score {
			index, best = i, res
		}
	}
	return index, best
}

// HammingDistance counts differing bits over the shorter of a and b.
func HammingDistance(a, b []byte) int {
	n := min(len(a), len(b))

	var d int
	for i := 0; i < n; i++ {
		d += bits.OnesCount8(a[i] ^ b[i])
	}
	return d
}
