package aesgo

import "bytes"

// Pad appends PKCS#7 padding. Input that is already block aligned still gets a
// full block of padding, so the output is never empty.
func Pad(data []byte, blockSize int) []byte {
	if blockSize <= 0 || blockSize > 0xff {
		panic("aesgo: invalid block size for padding")
	}

	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data), len(data)+n)
	copy(padded, data)
	return append(padded, bytes.Repeat([]byte{byte(n)}, n)...)
}

// Unpad strips PKCS#7 padding when it is well formed and otherwise returns
// data unchanged. Attack loops rely on it never failing.
func Unpad(data []byte) []byte {
	unpadded, err := RemovePadding(data)
	if err != nil {
		return data
	}
	return unpadded
}

// RemovePadding is the strict counterpart of Unpad.
func RemovePadding(data []byte) ([]byte, error) {
	l := len(data)
	if l == 0 {
		return nil, &PaddingError{Reason: "empty input"}
	}

	n := int(data[l-1])
	if n == 0 || n > l {
		return nil, &PaddingError{Reason: "pad length out of range"}
	}

	for _, b := range data[l-n:] {
		if int(b) != n {
			return nil, &PaddingError{Reason: "inconsistent pad bytes"}
		}
	}

	return data[:l-n], nil
}
