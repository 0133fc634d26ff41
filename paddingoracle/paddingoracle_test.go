package paddingoracle

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"math/rand"
	"testing"

	aesgo "github.com/mario-areias/ecb-oracle/aes-go"
	"github.com/mario-areias/ecb-oracle/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaddingOracle(t *testing.T) {
	k := key.NewKey([16]byte([]byte("128bitsforkeysss")))
	iv := []byte("9876543210abcdef")

	c, err := aesgo.NewCipher(k)
	require.NoError(t, err)
	oracle := New(c)

	tests := []struct {
		name  string
		input string
	}{
		{name: "Simple decryption test", input: "Let's test if this is working!"},
		{name: "Block aligned input", input: "YELLOW SUBMARINE"},
		{name: "Empty input", input: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			encrypted, err := aesgo.EncryptCBC(c, []byte(test.input), iv)
			require.NoError(t, err)

			decrypted, err := Attack(oracle, append(append([]byte{}, iv...), encrypted...), aesgo.BlockSize)
			require.NoError(t, err)
			assert.Equal(t, test.input, string(decrypted))
		})
	}
}

func TestPaddingOracleAttackWithStdEncryption(t *testing.T) {
	rng := rand.New(rand.NewSource(51))
	k, err := key.Random(rng)
	require.NoError(t, err)
	iv := make([]byte, aes.BlockSize)
	rng.Read(iv)

	plaintext := []byte("Let's test if this attack works!!")

	std, err := aes.NewCipher(k.GetBytes())
	require.NoError(t, err)
	padded := aesgo.Pad(plaintext, aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(std, iv).CryptBlocks(encrypted, padded)

	ours, err := aesgo.NewCipher(k)
	require.NoError(t, err)

	decrypted, err := Attack(New(ours), append(iv, encrypted...), aes.BlockSize)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestOracleOnlyReportsPadding(t *testing.T) {
	rng := rand.New(rand.NewSource(52))
	k, err := key.Random(rng)
	require.NoError(t, err)
	c, err := aesgo.NewCipher(k)
	require.NoError(t, err)
	o := New(c)

	iv := make([]byte, aesgo.BlockSize)
	encrypted, err := aesgo.EncryptCBC(c, []byte("valid"), iv)
	require.NoError(t, err)
	require.NoError(t, o.Decrypt(append(iv, encrypted...)))

	// Zero block under zero IV decrypts to all 0x00, never valid padding.
	zero := make([]byte, aesgo.BlockSize)
	c.Encrypt(zero, zero)
	require.ErrorIs(t, o.Decrypt(append(make([]byte, aesgo.BlockSize), zero...)), aesgo.ErrInvalidPadding)

	var alignErr *aesgo.AlignmentError
	require.ErrorAs(t, o.Decrypt(iv), &alignErr)
}

type rejectAll struct{}

func (rejectAll) Decrypt([]byte) error { return aesgo.ErrInvalidPadding }

func TestAttackErrors(t *testing.T) {
	_, err := Attack(rejectAll{}, bytes.Repeat([]byte{1}, 32), 16)
	require.ErrorIs(t, err, ErrNoValidPadding)

	var alignErr *aesgo.AlignmentError
	_, err = Attack(rejectAll{}, make([]byte, 20), 16)
	require.ErrorAs(t, err, &alignErr)
	_, err = Attack(rejectAll{}, make([]byte, 16), 16)
	require.ErrorAs(t, err, &alignErr)
}
