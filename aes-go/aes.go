package aesgo

import (
	"github.com/mario-areias/ecb-oracle/key"
)

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = 16

	keyBlock = 4 // 4 bytes or 32 bits
	rounds   = 10
)

// Cipher is an AES-128 block cipher. The round keys are expanded once in
// NewCipher, so a Cipher is safe for concurrent use.
type Cipher struct {
	roundKeys [rounds + 1][4][4]byte
}

// NewCipher returns an AES-128 cipher for k. It satisfies crypto/cipher.Block.
func NewCipher(k key.Key) (*Cipher, error) {
	if k.Len() != 128/8 {
		return nil, KeySizeError(k.Len())
	}

	c := &Cipher{}
	c.expandKey(k.GetBytes())
	return c, nil
}

func (c *Cipher) BlockSize() int {
	return BlockSize
}

// Encrypt encrypts the first block in src into dst.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("aesgo: input not full block")
	}

	state := convertArrayToMatrix([16]byte(src[:BlockSize]))
	state = addRoundKey(state, c.roundKeys[0])

	for round := 1; round < rounds; round++ {
		state = subMatrix(state)
		state = shiftRows(state)
		state = mixColumns(state)
		state = addRoundKey(state, c.roundKeys[round])
	}

	state = subMatrix(state)
	state = shiftRows(state)
	state = addRoundKey(state, c.roundKeys[rounds])

	r := convertMatrixToArray(state)
	copy(dst, r[:])
}

// Decrypt decrypts the first block in src into dst.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("aesgo: input not full block")
	}

	state := convertArrayToMatrix([16]byte(src[:BlockSize]))
	state = addRoundKey(state, c.roundKeys[rounds])

	for round := rounds - 1; round > 0; round-- {
		state = invShiftRows(state)
		state = invSubMatrix(state)
		state = addRoundKey(state, c.roundKeys[round])
		state = invMixColumns(state)
	}

	state = invShiftRows(state)
	state = invSubMatrix(state)
	state = addRoundKey(state, c.roundKeys[0])

	r := convertMatrixToArray(state)
	copy(dst, r[:])
}

// expandKey runs the AES-128 key schedule, one 16 byte round key per round.
func (c *Cipher) expandKey(k []byte) {
	roundKey := make([]byte, len(k))
	copy(roundKey, k)
	c.roundKeys[0] = convertArrayToMatrix([16]byte(roundKey))

	for round := 1; round <= rounds; round++ {
		w0 := roundKey[0:4]
		w1 := roundKey[4:8]
		w2 := roundKey[8:12]
		w3 := roundKey[12:16]

		t := rotWord([4]byte(w3))
		t = subWord([4]byte(t))
		t = rcon(round-1, [4]byte(t))

		w4 := xor([4]byte(w0), [4]byte(t))
		w5 := xor([4]byte(w4), [4]byte(w1))
		w6 := xor([4]byte(w5), [4]byte(w2))
		w7 := xor([4]byte(w6), [4]byte(w3))

		roundKey = append(w4, append(w5, append(w6, w7...)...)...)
		c.roundKeys[round] = convertArrayToMatrix([16]byte(roundKey))
	}
}

func addRoundKey(state [4][4]byte, key [4][4]byte) [4][4]byte {
	return xorMatrix(state, key)
}

func subMatrix(word [4][4]byte) [4][4]byte {
	var s [4][4]byte
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			s[i][j] = sBox[word[i][j]]
		}
	}
	return s
}

func invSubMatrix(word [4][4]byte) [4][4]byte {
	var s [4][4]byte
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			s[i][j] = invSBox[word[i][j]]
		}
	}
	return s
}

func shiftRows(state [4][4]byte) [4][4]byte {
	var s [4][4]byte
	s[0] = state[0]

	s[1] = [4]byte{state[1][1], state[1][2], state[1][3], state[1][0]}
	s[2] = [4]byte{state[2][2], state[2][3], state[2][0], state[2][1]}
	s[3] = [4]byte{state[3][3], state[3][0], state[3][1], state[3][2]}

	return s
}

func invShiftRows(state [4][4]byte) [4][4]byte {
	var s [4][4]byte
	s[0] = state[0]

	s[1] = [4]byte{state[1][3], state[1][0], state[1][1], state[1][2]}
	s[2] = [4]byte{state[2][2], state[2][3], state[2][0], state[2][1]}
	s[3] = [4]byte{state[3][1], state[3][2], state[3][3], state[3][0]}

	return s
}

// The state is column major: byte i of a block lands in row i%4, column i/4.
func convertArrayToMatrix(b [16]byte) [4][4]byte {
	var r [4][4]byte
	for i := 0; i < 16; i++ {
		r[i%keyBlock][i/keyBlock] = b[i]
	}
	return r
}

func convertMatrixToArray(m [4][4]byte) [16]byte {
	var r [16]byte
	for i := 0; i < 16; i++ {
		r[i] = m[i%keyBlock][i/keyBlock]
	}
	return r
}

func rotWord(word [4]byte) []byte {
	return []byte{word[1], word[2], word[3], word[0]}
}

func subWord(word [4]byte) []byte {
	s := make([]byte, 4)
	for i := 0; i < 4; i++ {
		s[i] = sBox[word[i]]
	}
	return s
}

func rcon(round int, word [4]byte) []byte {
	return xor(word, rconTable[round])
}

func xor(a, b [4]byte) []byte {
	x := make([]byte, 4)
	for i := 0; i < 4; i++ {
		x[i] = a[i] ^ b[i]
	}
	return x
}

func xorMatrix(a, b [4][4]byte) [4][4]byte {
	var x [4][4]byte
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			x[i][j] = a[i][j] ^ b[i][j]
		}
	}
	return x
}

var rconTable = [10][4]byte{
	{0x01, 0x00, 0x00, 0x00},
	{0x02, 0x00, 0x00, 0x00},
	{0x04, 0x00, 0x00, 0x00},
	{0x08, 0x00, 0x00, 0x00},
	{0x10, 0x00, 0x00, 0x00},
	{0x20, 0x00, 0x00, 0x00},
	{0x40, 0x00, 0x00, 0x00},
	{0x80, 0x00, 0x00, 0x00},
	{0x1B, 0x00, 0x00, 0x00},
	{0x36, 0x00, 0x00, 0x00},
}
