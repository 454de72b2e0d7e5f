package encryption

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidKeyOrIV reports a key, IV, or input length that does not
// match the variant's requirements.
var ErrInvalidKeyOrIV = errors.New("key or IV does not match algorithm")

// GenerateKeyIV returns a fresh random key and IV sized for the variant.
// Keys and IVs are single-use: one pair per timed operation.
func GenerateKeyIV(v Variant) (key, iv []byte, err error) {
	key = make([]byte, v.KeySize)
	iv = make([]byte, v.BlockSize)
	if _, err = io.ReadFull(rand.Reader, key); err != nil {
		return nil, nil, fmt.Errorf("generating %s key: %w", v.Name, err)
	}
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, fmt.Errorf("generating %s IV: %w", v.Name, err)
	}
	return key, iv, nil
}

// EncryptCBC encrypts already-padded plaintext under CBC. The input must
// be a multiple of the variant's block size.
func EncryptCBC(v Variant, padded, key, iv []byte) ([]byte, error) {
	block, err := v.prepare(padded, key, iv)
	if err != nil {
		return nil, err
	}
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// DecryptCBC reverses EncryptCBC, returning the padded plaintext.
func DecryptCBC(v Variant, ciphertext, key, iv []byte) ([]byte, error) {
	block, err := v.prepare(ciphertext, key, iv)
	if err != nil {
		return nil, err
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	return padded, nil
}

func (v Variant) prepare(input, key, iv []byte) (cipher.Block, error) {
	if len(key) != v.KeySize {
		return nil, fmt.Errorf("%w: %s expects a %d-byte key, got %d", ErrInvalidKeyOrIV, v.Name, v.KeySize, len(key))
	}
	if len(iv) != v.BlockSize {
		return nil, fmt.Errorf("%w: %s expects a %d-byte IV, got %d", ErrInvalidKeyOrIV, v.Name, v.BlockSize, len(iv))
	}
	if len(input)%v.BlockSize != 0 {
		return nil, fmt.Errorf("%w: input length %d is not a multiple of block size %d", ErrInvalidKeyOrIV, len(input), v.BlockSize)
	}
	block, err := v.newBlock(key)
	if err != nil {
		return nil, fmt.Errorf("creating %s cipher: %w", v.Name, err)
	}
	return block, nil
}
