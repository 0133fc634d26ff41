package freq

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taleOfTwoCities is long enough that every column of a 40 byte key still
// holds dozens of bytes.
var taleOfTwoCities = bytes.Repeat([]byte(
	"It was the best of times, it was the worst of times, it was the age of wisdom, it was the age of foolishness, "+
		"it was the epoch of belief, it was the epoch of incredulity, it was the season of light, it was the season of darkness, "+
		"it was the spring of hope, it was the winter of despair, we had everything before us, we had nothing before us, "+
		"we were all going direct to heaven, we were all going direct the other way. In short, the period was so far like the present period, "+
		"that some of its noisiest authorities insisted on its being received, for good or for evil, in the superlative degree of comparison only. "+
		"There were a king with a large jaw and a queen with a plain face, on the throne of England; there were a king with a large jaw and a queen with a fair face, on the throne of France. "), 3)

func TestScoreRanksEnglishFirst(t *testing.T) {
	english := Score([]byte("It was the best of times, it was the worst of times! Incredible really."))
	gibberish := Score([]byte("dkbfsxdk.bnrslbnpoeasgpsreblnkxcb,mxkcvb289tp924lkewbkmbnblkeai329k42jporbprsdbnrsdlktnribtu"))

	assert.Greater(t, english, gibberish)
}

func TestScore(t *testing.T) {
	assert.Zero(t, Score(nil))
	assert.Equal(t, 100.0, Score([]byte("  ")))
	assert.Equal(t, Score([]byte("hello")), Score([]byte("HELLO")))
	assert.Zero(t, Score([]byte{0x00, 0xff, '#'}))
}

func TestFixedXOR(t *testing.T) {
	a, _ := hex.DecodeString("1c0111001f010100061a024b53535009181c")
	b, _ := hex.DecodeString("686974207468652062756c6c277320657965")

	got, err := FixedXOR(a, b)
	require.NoError(t, err)
	assert.Equal(t, "746865206b696420646f6e277420706c6179", hex.EncodeToString(got))

	_, err = FixedXOR(a, b[1:])
	require.Error(t, err)
}

func TestRepeatingKeyXOR(t *testing.T) {
	plaintext := "Burning 'em, if you ain't quick and nimble\nI go crazy when I hear a cymbal"
	want := "0b3637272a2b2e63622c2e69692a23693a2a3c6324202d623d63343c2a26226324272765272" +
		"a282b2f20430a652e2c652a3124333a653e2b2027630c692b20283165286326302e27282f"

	assert.Equal(t, want, hex.EncodeToString(XOR([]byte(plaintext), []byte("ICE"))))
}

func TestSolveSingleByteXOR(t *testing.T) {
	ct, err := hex.DecodeString("1b37373331363f78151b7f2b783431333d78397828372d363c78373e783a393b3736")
	require.NoError(t, err)

	res := SolveSingleByteXOR(ct)

	assert.Equal(t, byte('X'), res.Key)
	assert.Equal(t, "Cooking MC's like a pound of bacon", string(res.Plaintext))
	assert.Greater(t, res.Score, 0.0)
}

func TestSolveSingleByteXORTieBreak(t *testing.T) {
	// Nothing scores, so every key ties and the lowest one wins.
	res := SolveSingleByteXOR(nil)

	assert.Equal(t, byte(0), res.Key)
	assert.Zero(t, res.Score)
}

func TestDetectSingleByteXOR(t *testing.T) {
	lines := make([][]byte, 20)
	for i := range lines {
		sum := sha256.Sum256([]byte(fmt.Sprintf("line-%d", i)))
		lines[i] = sum[:30]
	}
	lines[13] = XOR([]byte("Now that the party is jumping\n"), []byte("5"))

	index, res := DetectSingleByteXOR(lines)

	assert.Equal(t, 13, index)
	assert.Equal(t, byte('5'), res.Key)
	assert.Equal(t, "Now that the party is jumping\n", string(res.Plaintext))

	index, _ = DetectSingleByteXOR(nil)
	assert.Equal(t, -1, index)
}

func TestHammingDistance(t *testing.T) {
	tests := []struct {
		a, b []byte
		want int
	}{
		{[]byte("this is a test"), []byte("wokka wokka!!!"), 37},
		{[]byte{0, 0, 0, 0}, []byte{1, 2, 4, 8}, 4},
		{[]byte{1, 2, 3, 4}, []byte{2, 3, 4, 5}, 2 + 1 + 3 + 1},
		{[]byte{0xff, 0xff}, []byte{0x00}, 8},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, HammingDistance(test.a, test.b), "%q vs %q", test.a, test.b)
	}
}

func TestEstimateKeySizes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "raw pattern", data: bytes.Repeat([]byte("abcde"), 100)},
		{name: "key over blank padding", data: XOR(bytes.Repeat([]byte(" "), 500), []byte("abcde"))},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sizes := EstimateKeySizes(test.data)

			require.Len(t, sizes, KeySizeTopN)
			assert.Equal(t, 5, sizes[0])
		})
	}
}

func TestRankKeySizesSkipsShortInput(t *testing.T) {
	ranked := RankKeySizes([]byte("abcdef"), 2, 10, 4)

	for _, r := range ranked {
		assert.Less(t, r.Size, 6)
	}
	assert.Len(t, ranked, 4)
}

func TestTranspose(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.Equal(t, [][]byte{{1, 3, 5, 7, 9}, {2, 4, 6, 8, 10}}, Transpose(data, 2))
	assert.Equal(t, [][]byte{{1, 4, 7, 10}, {2, 5, 8}, {3, 6, 9}}, Transpose(data, 3))

	cycle := make([]byte, 300)
	for i := range cycle {
		cycle[i] = byte(i % 11)
	}
	for i, column := range Transpose(cycle, 11) {
		for _, b := range column {
			require.Equal(t, byte(i), b)
		}
	}
}

func TestBreakRepeatingXOR(t *testing.T) {
	keys := []string{"ICE", "secret key", "Terminator X: Bring the noise"}

	for _, k := range keys {
		t.Run(k, func(t *testing.T) {
			res, err := BreakRepeatingXOR(XOR(taleOfTwoCities, []byte(k)))
			require.NoError(t, err)

			assert.Equal(t, string(taleOfTwoCities), string(res.Plaintext))
			require.Zero(t, len(res.Key)%len(k))
			assert.Equal(t, bytes.Repeat([]byte(k), len(res.Key)/len(k)), res.Key)
		})
	}
}

func TestBreakRepeatingXORTooShort(t *testing.T) {
	_, err := BreakRepeatingXOR([]byte("a"))
	require.Error(t, err)
}
