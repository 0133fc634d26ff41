package detect

import (
	"bytes"
	"math/rand"
	"testing"

	aesgo "github.com/mario-areias/ecb-oracle/aes-go"
	"github.com/mario-areias/ecb-oracle/key"
	"github.com/mario-areias/ecb-oracle/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T, rng *rand.Rand) *aesgo.Cipher {
	t.Helper()
	k, err := key.Random(rng)
	require.NoError(t, err)
	c, err := aesgo.NewCipher(k)
	require.NoError(t, err)
	return c
}

func TestDetect(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	c := testCipher(t, rng)
	repeated := bytes.Repeat([]byte("YELLOW SUBMARINE"), 3)

	cbc, err := aesgo.EncryptCBC(c, repeated, oracle.RandomBytes(rng, aesgo.BlockSize))
	require.NoError(t, err)

	tests := []struct {
		name       string
		ciphertext []byte
		want       aesgo.Mode
	}{
		{name: "ECB with repeated blocks", ciphertext: aesgo.EncryptECB(c, repeated), want: aesgo.ECB},
		{name: "CBC with repeated blocks", ciphertext: cbc, want: aesgo.CBC},
		{name: "single block", ciphertext: aesgo.EncryptECB(c, nil), want: aesgo.CBC},
		{name: "empty", ciphertext: nil, want: aesgo.CBC},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Detect(test.ciphertext, aesgo.BlockSize))
		})
	}
}

func TestDetectRandomModeTrials(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	input := bytes.Repeat([]byte("A"), 50)

	for i := 0; i < 100; i++ {
		encrypted, mode, err := oracle.EncryptRandomMode(rng, input)
		require.NoError(t, err)
		require.Equal(t, mode, Detect(encrypted, aesgo.BlockSize), "trial %d", i)
	}
}

func TestRepeatedBlocks(t *testing.T) {
	data := []byte("aaaabbbbaaaaccccaaaa")

	assert.Equal(t, 3, RepeatedBlocks(data, 4))
	assert.Equal(t, 0, RepeatedBlocks(data[:8], 4))
	assert.Equal(t, 1, RepeatedBlocks([]byte("aaaabbbbaaaaXX"), 4))
}

func TestMostLikelyECB(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	c := testCipher(t, rng)

	lines := make([][]byte, 30)
	for i := range lines {
		lines[i] = oracle.RandomBytes(rng, 10*aesgo.BlockSize)
	}
	lines[17] = aesgo.EncryptECB(c, bytes.Repeat([]byte("sixteen byte blk"), 4))

	index, repeats := MostLikelyECB(lines, aesgo.BlockSize)

	assert.Equal(t, 17, index)
	assert.Equal(t, 6, repeats)

	index, _ = MostLikelyECB(lines[:3], aesgo.BlockSize)
	assert.Equal(t, -1, index)
}

func TestMostLikelyECBOnlyLooksAtLeadingBlocks(t *testing.T) {
	line := make([]byte, (MaxLineBlocks+2)*4)
	for i := 0; i < MaxLineBlocks; i++ {
		copy(line[i*4:], []byte{byte(i), 1, 2, 3})
	}

	index, _ := MostLikelyECB([][]byte{line}, 4)
	assert.Equal(t, -1, index)
}

func TestDetectOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(24))

	ecb, err := oracle.NewRandomPrefixECB(rng, []byte("hidden"), 0, 2*aesgo.BlockSize)
	require.NoError(t, err)
	assert.Equal(t, aesgo.ECB, DetectOracle(ecb, aesgo.BlockSize))

	c := testCipher(t, rng)
	cbc := oracle.Func(func(b []byte) []byte {
		out, err := aesgo.EncryptCBC(c, b, oracle.RandomBytes(rng, aesgo.BlockSize))
		require.NoError(t, err)
		return out
	})
	assert.Equal(t, aesgo.CBC, DetectOracle(cbc, aesgo.BlockSize))
}
