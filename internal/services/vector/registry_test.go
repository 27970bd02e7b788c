package vector_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"aescore/internal/aes"
	"aescore/internal/services/vector"
)

func TestNewBlock(t *testing.T) {
	for _, alg := range vector.Catalogue() {
		for _, bits := range alg.KeyBits {
			b, err := vector.NewBlock(alg.Name, make([]byte, bits/8))
			if err != nil {
				t.Fatalf("NewBlock(%s, %d bits) = %v", alg.Name, bits, err)
			}
			if got, want := b.BlockSize(), aes.BlockSize; got != want {
				t.Errorf("%s BlockSize() = %d, want = %d", alg.Name, got, want)
			}

			pt := []byte("sixteen byte msg")
			ct := make([]byte, 16)
			b.Encrypt(ct, pt)
			back := make([]byte, 16)
			b.Decrypt(back, ct)
			if !bytes.Equal(back, pt) {
				t.Errorf("%s-%d Decrypt(Encrypt(p)) = %x, want = %x", alg.Name, bits, back, pt)
			}
		}
	}
}

func TestNewBlockAESUsesInTreeCipher(t *testing.T) {
	b, err := vector.NewBlock("aes", make([]byte, 16))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := b.(*aes.Cipher); !ok {
		t.Fatalf("NewBlock(aes) = %T, want = *aes.Cipher", b)
	}

	pt, _ := hex.DecodeString("f34481ec3cc627bacd5dc3fb08f273e6")
	ct := make([]byte, 16)
	b.Encrypt(ct, pt)
	if got, want := hex.EncodeToString(ct), "0336763e966d92595a567cc9ce537f5e"; got != want {
		t.Errorf("Encrypt = %s, want = %s", got, want)
	}
}

func TestNewBlockRejectsKeyLength(t *testing.T) {
	cases := []struct {
		alg    string
		keyLen int
	}{
		{"AES", 15},
		{"AES", 0},
		{"CAMELLIA", 20},
		{"SEED", 24},
		{"SEED", 32},
	}
	for _, c := range cases {
		_, err := vector.NewBlock(c.alg, make([]byte, c.keyLen))
		var ce *aes.ConfigurationError
		if !errors.As(err, &ce) || ce.Param != "key" {
			t.Errorf("NewBlock(%s, %d bytes) err = %v, want key ConfigurationError", c.alg, c.keyLen, err)
		}
	}
}

func TestNewBlockUnknownAlgorithm(t *testing.T) {
	if _, err := vector.NewBlock("DES", make([]byte, 8)); err == nil {
		t.Fatal("NewBlock(DES) succeeded")
	}
}

func TestCatalogueModes(t *testing.T) {
	alg, ok := vector.Lookup(" seed ")
	if !ok {
		t.Fatal("Lookup(seed) not found")
	}
	want := []string{"ECB", "CBC", "PCBC", "CFB", "OFB", "CTR"}
	if len(alg.Modes) != len(want) {
		t.Fatalf("Modes = %v, want = %v", alg.Modes, want)
	}
	for i := range want {
		if alg.Modes[i] != want[i] {
			t.Errorf("Modes[%d] = %s, want = %s", i, alg.Modes[i], want[i])
		}
	}
	if got, want := alg.KeyBits, []int{128}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("KeyBits = %v, want = %v", got, want)
	}
}
