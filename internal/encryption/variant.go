package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"fmt"
	"strings"
)

// Variant is one benchmarked algorithm/key-size combination. The set is
// closed: three variants, each with fixed key and block sizes.
type Variant struct {
	Name      string `json:"name"`
	KeySize   int    `json:"key_size"`
	BlockSize int    `json:"block_size"`
}

var (
	AES128 = Variant{Name: "AES-128", KeySize: 16, BlockSize: aes.BlockSize}
	AES256 = Variant{Name: "AES-256", KeySize: 32, BlockSize: aes.BlockSize}
	DES    = Variant{Name: "DES", KeySize: 8, BlockSize: des.BlockSize}
)

// Variants returns all benchmarked variants in report order.
func Variants() []Variant {
	return []Variant{AES128, AES256, DES}
}

// VariantByName resolves a variant from a CLI/API name. Matching is
// case-insensitive and tolerates a missing dash ("aes128").
func VariantByName(name string) (Variant, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, "AES", "AES-")
	normalized = strings.ReplaceAll(normalized, "--", "-")
	for _, v := range Variants() {
		if v.Name == normalized || strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown algorithm: %s", name)
}

// newBlock builds the single-block transform for the variant. All three
// variants share the same CBC chaining; only this transform differs.
func (v Variant) newBlock(key []byte) (cipher.Block, error) {
	if v.Name == DES.Name {
		return des.NewCipher(key)
	}
	return aes.NewCipher(key)
}
