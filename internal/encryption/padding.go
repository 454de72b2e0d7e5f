package encryption

import (
	"errors"
	"fmt"
)

// ErrInvalidPadding reports malformed PKCS7 padding on unpad. Ciphertext
// produced by this package always unpads cleanly, so hitting it means a
// corrupted buffer or a logic bug upstream.
var ErrInvalidPadding = errors.New("invalid PKCS7 padding")

// Pad appends PKCS7 padding. At least one byte is always added: input that
// is already a multiple of blockSize gains a full block of padding.
func Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// Unpad validates and strips PKCS7 padding.
func Unpad(padded []byte, blockSize int) ([]byte, error) {
	if len(padded) == 0 || len(padded)%blockSize != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of block size %d", ErrInvalidPadding, len(padded), blockSize)
	}

	padLen := int(padded[len(padded)-1])
	if padLen < 1 || padLen > blockSize {
		return nil, fmt.Errorf("%w: count byte %d out of range", ErrInvalidPadding, padLen)
	}

	for _, b := range padded[len(padded)-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("%w: inconsistent trailing bytes", ErrInvalidPadding)
		}
	}

	return padded[:len(padded)-padLen], nil
}
