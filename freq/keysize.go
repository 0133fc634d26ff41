package freq

import (
	"errors"
	"math"
	"sort"
)

const (
	MinKeySize   = 2
	MaxKeySize   = 40
	SampleChunks = 4
	KeySizeTopN  = 5
)

// KeySize is one candidate repeating-key length with its normalized edit
// distance. Lower distance is more likely.
type KeySize struct {
	Size     int
	Distance float64
}

// RankKeySizes scores every key length in [minSize, maxSize]. For each size
// the first chunks non-overlapping chunks are compared pairwise; the mean
// Hamming distance is divided by the size. The result is sorted by
// ascending distance, smaller sizes first on ties. Sizes leaving fewer than
// two chunks are skipped.
func RankKeySizes(ciphertext []byte, minSize, maxSize, chunks int) []KeySize {
	var ranked []KeySize

	for k := minSize; k <= maxSize; k++ {
		var sample [][]byte
		for i := 0; i < len(ciphertext) && len(sample) < chunks; i += k {
			sample = append(sample, ciphertext[i:min(i+k, len(ciphertext))])
		}
		if len(sample) < 2 {
			continue
		}

		var sum, count int
		for i := 0; i < len(sample); i++ {
			for j := i + 1; j < len(sample); j++ {
				sum += HammingDistance(sample[i], sample[j])
				count++
			}
		}

		dist := float64(sum) / float64(count) / float64(k)
		ranked = append(ranked, KeySize{Size: k, Distance: dist})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked
}

// EstimateKeySizes returns the five most likely key lengths in [2, 40].
func EstimateKeySizes(ciphertext []byte) []int {
	ranked := RankKeySizes(ciphertext, MinKeySize, MaxKeySize, SampleChunks)

	sizes := make([]int, 0, KeySizeTopN)
	for _, r := range ranked[:min(KeySizeTopN, len(ranked))] {
		sizes = append(sizes, r.Size)
	}
	return sizes
}

// Transpose deals byte i of data into column i%k.
func Transpose(data []byte, k int) [][]byte {
	columns := make([][]byte, k)
	for i, b := range data {
		columns[i%k] = append(columns[i%k], b)
	}
	return columns
}

// RepeatingResult is the outcome of BreakRepeatingXOR.
type RepeatingResult struct {
	Key       []byte
	Plaintext []byte
	Score     float64
}

// BreakRepeatingXOR recovers a repeating XOR key. Each candidate length from
// EstimateKeySizes is solved column by column; the key with the highest
// summed column score wins. The winner may be a whole repetition of the
// true key, which decrypts identically.
func BreakRepeatingXOR(ciphertext []byte) (RepeatingResult, error) {
	sizes := EstimateKeySizes(ciphertext)
	if len(sizes) == 0 {
		return RepeatingResult{}, errors.New("freq: ciphertext too short to estimate key size")
	}

	best := RepeatingResult{Score: math.Inf(-1)}
	for _, k := range sizes {
		keyBytes := make([]byte, k)
		var total float64
		for i, column := range Transpose(ciphertext, k) {
			res := SolveSingleByteXOR(column)
			keyBytes[i] = res.Key
			total += res.Score
		}

		if total > best.Score {
			best = RepeatingResult{Key: keyBytes, Score: total}
		}
	}

	best.Plaintext = XOR(ciphertext, best.Key)
	return best, nil
}
