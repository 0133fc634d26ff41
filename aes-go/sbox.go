package aesgo

import "math/bits"

var sBox, invSBox [256]byte

// The S-box is the multiplicative inverse in GF(2^8) followed by the AES
// affine transform. 0 has no inverse and maps to 0x63.
func init() {
	for a := 0; a < 256; a++ {
		inv := byte(0)
		for b := 1; b < 256 && a != 0; b++ {
			if gmul(byte(a), byte(b)) == 1 {
				inv = byte(b)
				break
			}
		}

		s := inv ^ bits.RotateLeft8(inv, 1) ^ bits.RotateLeft8(inv, 2) ^
			bits.RotateLeft8(inv, 3) ^ bits.RotateLeft8(inv, 4) ^ 0x63

		sBox[a] = s
		invSBox[s] = byte(a)
	}
}
