package aesgo

import (
	"errors"
	"strconv"
)

// ErrInvalidPadding is wrapped by every PaddingError.
var ErrInvalidPadding = errors.New("invalid padding")

type KeySizeError int

func (k KeySizeError) Error() string {
	return "aesgo: invalid key size " + strconv.Itoa(int(k))
}

// AlignmentError reports a ciphertext that does not split into whole blocks.
type AlignmentError struct {
	Len       int
	BlockSize int
}

func (e *AlignmentError) Error() string {
	return "aesgo: input length " + strconv.Itoa(e.Len) +
		" is not a multiple of block size " + strconv.Itoa(e.BlockSize)
}

// PaddingError is returned by the strict unpadding path.
type PaddingError struct {
	Reason string
}

func (e *PaddingError) Error() string {
	return "aesgo: invalid padding: " + e.Reason
}

func (e *PaddingError) Unwrap() error {
	return ErrInvalidPadding
}
