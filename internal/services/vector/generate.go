package vector

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"aescore/internal/aes"
)

type TestMode string

const (
	KAT TestMode = "KAT"
	MMT TestMode = "MMT"
	MCT TestMode = "MCT"
)

// KAT variants, named after the AESAVS known-answer files.
const (
	KatGFSbox  = "GFSBOX"
	KatKeySbox = "KEYSBOX"
	KatVarKey  = "VARKEY"
	KatVarTxt  = "VARTXT"
)

// MCTIterations is the number of chained cipher calls behind one MCT record.
const MCTIterations = 1000

const (
	defaultCount = 10
	maxCount     = 100
	mmtMaxBlocks = 10
)

type GenParams struct {
	KeyBits    int
	Count      int
	KatVariant string
	// Rand supplies keys, IVs and messages; crypto/rand when nil.
	Rand io.Reader
}

type EncRecord struct {
	Count      int    `json:"count"`
	KeyHex     string `json:"key"`
	IVHex      string `json:"iv,omitempty"` // empty for ECB
	Plaintext  string `json:"plaintext"`
	Ciphertext string `json:"ciphertext,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
}

type DecRecord struct {
	Count      int    `json:"count"`
	KeyHex     string `json:"key"`
	IVHex      string `json:"iv,omitempty"` // empty for ECB
	Ciphertext string `json:"ciphertext"`
	Plaintext  string `json:"plaintext,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
}

type TestVector struct {
	Algorithm  string      `json:"algorithm"`
	Mode       string      `json:"mode"`
	TestMode   string      `json:"test_mode"`
	KatVariant string      `json:"kat_variant,omitempty"`
	KeyBits    int         `json:"key_bits"`
	Encrypt    []EncRecord `json:"encrypt"`
	Decrypt    []DecRecord `json:"decrypt"`
}

// WithoutExpected returns a copy with the expected outputs blanked, the form
// handed to an implementation under test.
func (v TestVector) WithoutExpected() TestVector {
	out := v
	out.Encrypt = make([]EncRecord, len(v.Encrypt))
	for i, r := range v.Encrypt {
		r.Ciphertext = ""
		out.Encrypt[i] = r
	}
	out.Decrypt = make([]DecRecord, len(v.Decrypt))
	for i, r := range v.Decrypt {
		r.Plaintext = ""
		out.Decrypt[i] = r
	}
	return out
}

func randBytes(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}

// leadingOnes returns n bytes whose first ones bits are set.
func leadingOnes(n, ones int) []byte {
	b := make([]byte, n)
	for i := 0; i < ones; i++ {
		b[i/8] |= 0x80 >> (i % 8)
	}
	return b
}

func normalizeMode(mode string) (string, error) {
	mode = strings.ToUpper(strings.TrimSpace(mode))
	for _, m := range allModes() {
		if m == mode {
			return mode, nil
		}
	}
	return "", aes.ConfigErrorf("mode", "unsupported mode %q, allowed %v", mode, allModes())
}

// Generate builds a test vector set for algorithm in mode. Expected outputs
// are always filled in; see WithoutExpected.
func Generate(algorithm, mode, test string, p GenParams) (TestVector, error) {
	alg, ok := Lookup(algorithm)
	if !ok {
		return TestVector{}, aes.ConfigErrorf("algorithm", "unsupported algorithm %q", algorithm)
	}
	if !alg.supportsKeyBits(p.KeyBits) {
		return TestVector{}, aes.ConfigErrorf("key_bits", "%d, %s accepts %v", p.KeyBits, alg.Name, alg.KeyBits)
	}
	mode, err := normalizeMode(mode)
	if err != nil {
		return TestVector{}, err
	}
	if p.Count < 0 || p.Count > maxCount {
		return TestVector{}, aes.ConfigErrorf("count", "%d, must be between 1 and %d", p.Count, maxCount)
	}
	if p.Rand == nil {
		p.Rand = rand.Reader
	}

	out := TestVector{
		Algorithm: alg.Name,
		Mode:      mode,
		TestMode:  strings.ToUpper(strings.TrimSpace(test)),
		KeyBits:   p.KeyBits,
	}
	g := generator{alg: alg.Name, mode: mode, keyLen: p.KeyBits / 8, rand: p.Rand}

	switch TestMode(out.TestMode) {
	case KAT:
		variant := strings.ToUpper(strings.TrimSpace(p.KatVariant))
		if variant == "" {
			variant = KatGFSbox
		}
		out.KatVariant = variant
		err = g.kat(&out, variant, p.Count)
	case MMT:
		err = g.mmt(&out, countOr(p.Count, defaultCount))
	case MCT:
		err = g.mct(&out, countOr(p.Count, defaultCount))
	default:
		return TestVector{}, aes.ConfigErrorf("test_mode", "unsupported test mode %q", test)
	}
	if err != nil {
		return TestVector{}, err
	}
	return out, nil
}

func countOr(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}

type generator struct {
	alg    string
	mode   string
	keyLen int
	rand   io.Reader
}

func (g generator) ivFor(iv []byte) string {
	if g.mode == ModeECB {
		return ""
	}
	return hex.EncodeToString(iv)
}

// pair runs one encryption and one decryption of the same material and
// appends both records.
func (g generator) pair(out *TestVector, count int, key, iv, pt []byte) error {
	b, err := NewBlock(g.alg, key)
	if err != nil {
		return err
	}
	ct, err := transform(b, g.mode, true, pt, iv)
	if err != nil {
		return err
	}
	out.Encrypt = append(out.Encrypt, EncRecord{
		Count: count, KeyHex: hex.EncodeToString(key), IVHex: g.ivFor(iv),
		Plaintext: hex.EncodeToString(pt), Ciphertext: hex.EncodeToString(ct),
	})
	out.Decrypt = append(out.Decrypt, DecRecord{
		Count: count, KeyHex: hex.EncodeToString(key), IVHex: g.ivFor(iv),
		Ciphertext: hex.EncodeToString(ct), Plaintext: hex.EncodeToString(pt),
	})
	return nil
}

func (g generator) kat(out *TestVector, variant string, count int) error {
	zeroIV := make([]byte, aes.BlockSize)
	switch variant {
	case KatGFSbox:
		for i := 0; i < countOr(count, defaultCount); i++ {
			pt, err := randBytes(g.rand, aes.BlockSize)
			if err != nil {
				return err
			}
			if err := g.pair(out, i, make([]byte, g.keyLen), zeroIV, pt); err != nil {
				return err
			}
		}
	case KatKeySbox:
		for i := 0; i < countOr(count, defaultCount); i++ {
			key, err := randBytes(g.rand, g.keyLen)
			if err != nil {
				return err
			}
			if err := g.pair(out, i, key, zeroIV, make([]byte, aes.BlockSize)); err != nil {
				return err
			}
		}
	case KatVarKey:
		n := countOr(count, g.keyLen*8)
		if n > g.keyLen*8 {
			n = g.keyLen * 8
		}
		for i := 0; i < n; i++ {
			if err := g.pair(out, i, leadingOnes(g.keyLen, i+1), zeroIV, make([]byte, aes.BlockSize)); err != nil {
				return err
			}
		}
	case KatVarTxt:
		n := countOr(count, aes.BlockSize*8)
		if n > aes.BlockSize*8 {
			n = aes.BlockSize * 8
		}
		for i := 0; i < n; i++ {
			if err := g.pair(out, i, make([]byte, g.keyLen), zeroIV, leadingOnes(aes.BlockSize, i+1)); err != nil {
				return err
			}
		}
	default:
		return aes.ConfigErrorf("kat_variant", "unsupported variant %q, allowed %v",
			variant, []string{KatGFSbox, KatKeySbox, KatVarKey, KatVarTxt})
	}
	return nil
}

// mmt emits messages of 1 through mmtMaxBlocks blocks under fresh keys and IVs.
func (g generator) mmt(out *TestVector, count int) error {
	for i := 0; i < count; i++ {
		key, err := randBytes(g.rand, g.keyLen)
		if err != nil {
			return err
		}
		iv, err := randBytes(g.rand, aes.BlockSize)
		if err != nil {
			return err
		}
		msg, err := randBytes(g.rand, aes.BlockSize*(i%mmtMaxBlocks+1))
		if err != nil {
			return err
		}
		if err := g.pair(out, i, key, iv, msg); err != nil {
			return err
		}
	}
	return nil
}

// mct feeds each output block back as the next input MCTIterations times
// under a fixed key and IV. The record holds the seed and the final output.
func (g generator) mct(out *TestVector, count int) error {
	for i := 0; i < count; i++ {
		key, err := randBytes(g.rand, g.keyLen)
		if err != nil {
			return err
		}
		iv, err := randBytes(g.rand, aes.BlockSize)
		if err != nil {
			return err
		}
		seedPT, err := randBytes(g.rand, aes.BlockSize)
		if err != nil {
			return err
		}
		seedCT, err := randBytes(g.rand, aes.BlockSize)
		if err != nil {
			return err
		}
		b, err := NewBlock(g.alg, key)
		if err != nil {
			return err
		}
		ct, err := chain(b, g.mode, true, seedPT, iv, MCTIterations)
		if err != nil {
			return err
		}
		pt, err := chain(b, g.mode, false, seedCT, iv, MCTIterations)
		if err != nil {
			return err
		}
		out.Encrypt = append(out.Encrypt, EncRecord{
			Count: i, KeyHex: hex.EncodeToString(key), IVHex: g.ivFor(iv),
			Plaintext: hex.EncodeToString(seedPT), Ciphertext: hex.EncodeToString(ct),
			Iterations: MCTIterations,
		})
		out.Decrypt = append(out.Decrypt, DecRecord{
			Count: i, KeyHex: hex.EncodeToString(key), IVHex: g.ivFor(iv),
			Ciphertext: hex.EncodeToString(seedCT), Plaintext: hex.EncodeToString(pt),
			Iterations: MCTIterations,
		})
	}
	return nil
}
