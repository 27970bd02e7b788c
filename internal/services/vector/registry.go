package vector

import (
	"fmt"
	"strings"

	"aescore/internal/aes"
	"aescore/internal/modes"

	goseed "github.com/RyuaNerin/go-krypto/seed"
	"github.com/aead/camellia"
)

// ModeECB selects raw single-block calls. It is offered for test vectors
// only; the chaining layer itself knows the five modes in package modes.
const ModeECB = "ECB"

// Algorithm describes one entry of the cipher catalogue.
type Algorithm struct {
	Name          string   `json:"algorithm"`
	Category      string   `json:"category"`
	KeyBits       []int    `json:"key_lengths"`
	Modes         []string `json:"modes"`
	TestModes     []string `json:"test_modes"`
	BlockSizeBits int      `json:"block_size_bits"`
	IVSizeBits    int      `json:"iv_size_bits"`
	StandardRef   string   `json:"standard_ref"`
	Notes         string   `json:"notes,omitempty"`
}

func allModes() []string {
	out := []string{ModeECB}
	for _, m := range modes.All() {
		out = append(out, m.String())
	}
	return out
}

// Catalogue lists every algorithm NewBlock can build.
func Catalogue() []Algorithm {
	testModes := []string{string(KAT), string(MMT), string(MCT)}
	return []Algorithm{
		{
			Name: "AES", Category: "BLOCK CIPHER", KeyBits: []int{128, 192, 256},
			Modes: allModes(), TestModes: testModes, BlockSizeBits: 128, IVSizeBits: 128,
			StandardRef: "FIPS-197, SP 800-38A",
			Notes:       "in-tree implementation",
		},
		{
			Name: "CAMELLIA", Category: "BLOCK CIPHER", KeyBits: []int{128, 192, 256},
			Modes: allModes(), TestModes: testModes, BlockSizeBits: 128, IVSizeBits: 128,
			StandardRef: "RFC 3713",
		},
		{
			Name: "SEED", Category: "BLOCK CIPHER", KeyBits: []int{128},
			Modes: allModes(), TestModes: testModes, BlockSizeBits: 128, IVSizeBits: 128,
			StandardRef: "RFC 4269",
		},
	}
}

// Lookup finds a catalogue entry by case-insensitive name.
func Lookup(name string) (Algorithm, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, a := range Catalogue() {
		if a.Name == name {
			return a, true
		}
	}
	return Algorithm{}, false
}

func (a Algorithm) supportsKeyBits(bits int) bool {
	for _, b := range a.KeyBits {
		if b == bits {
			return true
		}
	}
	return false
}

// NewBlock builds the named 128-bit block cipher for key.
func NewBlock(algorithm string, key []byte) (modes.Block, error) {
	alg, ok := Lookup(algorithm)
	if !ok {
		return nil, fmt.Errorf("unsupported algorithm %q", algorithm)
	}
	if !alg.supportsKeyBits(len(key) * 8) {
		return nil, aes.ConfigErrorf("key", "length %d, %s accepts %v bits", len(key), alg.Name, alg.KeyBits)
	}
	switch alg.Name {
	case "AES":
		return aes.NewCipher(key)
	case "CAMELLIA":
		return camellia.NewCipher(key)
	case "SEED":
		return goseed.NewCipher(key)
	}
	return nil, fmt.Errorf("unsupported algorithm %q", algorithm)
}

// transform runs one direction of mode over in without padding. ECB and the
// padded chaining modes need block-aligned input.
func transform(b modes.Block, mode string, encrypt bool, in, iv []byte) ([]byte, error) {
	if strings.EqualFold(mode, ModeECB) {
		if len(in)%aes.BlockSize != 0 {
			return nil, aes.ConfigErrorf("input", "length %d, ECB needs a multiple of %d", len(in), aes.BlockSize)
		}
		out := make([]byte, len(in))
		for off := 0; off < len(in); off += aes.BlockSize {
			if encrypt {
				b.Encrypt(out[off:off+aes.BlockSize], in[off:off+aes.BlockSize])
			} else {
				b.Decrypt(out[off:off+aes.BlockSize], in[off:off+aes.BlockSize])
			}
		}
		return out, nil
	}
	m, err := modes.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if encrypt {
		return modes.EncryptBlocks(b, m, in, iv)
	}
	return modes.DecryptBlocks(b, m, in, iv)
}
