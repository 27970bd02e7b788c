// Package aes implements the AES block cipher (FIPS-197) for 128, 192 and
// 256-bit keys without relying on crypto/aes.
//
// A *Cipher holds only the expanded round keys and is never modified after
// NewCipher returns, so one value may be shared by any number of goroutines.
package aes

import "strconv"

// BlockSize is the AES block size in bytes.
const BlockSize = 16

// Cipher is an AES instance keyed by NewCipher.
type Cipher struct {
	rounds    int
	roundKeys []state
}

// NewCipher expands key into a ready-to-use cipher. The key must be 16, 24
// or 32 bytes long; the caller's slice is not retained.
func NewCipher(key []byte) (*Cipher, error) {
	keys, err := expandKey(key)
	if err != nil {
		return nil, err
	}
	return &Cipher{rounds: len(keys) - 1, roundKeys: keys}, nil
}

// Rounds reports 10, 12 or 14 depending on the key size.
func (c *Cipher) Rounds() int { return c.rounds }

// BlockSize returns 16; it satisfies crypto/cipher.Block.
func (c *Cipher) BlockSize() int { return BlockSize }

// EncryptBlock encrypts exactly one 16-byte block into a new slice.
func (c *Cipher) EncryptBlock(src []byte) ([]byte, error) {
	if len(src) != BlockSize {
		return nil, ConfigErrorf("block", "length %d, must be %d bytes", len(src), BlockSize)
	}
	s := loadState(src)
	c.encrypt(&s)
	out := make([]byte, BlockSize)
	s.store(out)
	return out, nil
}

// DecryptBlock decrypts exactly one 16-byte block into a new slice.
func (c *Cipher) DecryptBlock(src []byte) ([]byte, error) {
	if len(src) != BlockSize {
		return nil, ConfigErrorf("block", "length %d, must be %d bytes", len(src), BlockSize)
	}
	s := loadState(src)
	c.decrypt(&s)
	out := make([]byte, BlockSize)
	s.store(out)
	return out, nil
}

// Encrypt implements crypto/cipher.Block. Like the standard library it
// panics when either buffer is shorter than a block; dst and src may alias.
func (c *Cipher) Encrypt(dst, src []byte) {
	checkBuffers(dst, src)
	s := loadState(src)
	c.encrypt(&s)
	s.store(dst)
}

// Decrypt implements crypto/cipher.Block.
func (c *Cipher) Decrypt(dst, src []byte) {
	checkBuffers(dst, src)
	s := loadState(src)
	c.decrypt(&s)
	s.store(dst)
}

func checkBuffers(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block (" + strconv.Itoa(len(src)) + " bytes)")
	}
	if len(dst) < BlockSize {
		panic("aes: output not full block (" + strconv.Itoa(len(dst)) + " bytes)")
	}
}

func (c *Cipher) encrypt(s *state) {
	addRoundKey(s, &c.roundKeys[0])
	for i := 1; i < c.rounds; i++ {
		subBytes(s)
		shiftRows(s)
		mixColumns(s)
		addRoundKey(s, &c.roundKeys[i])
	}
	subBytes(s)
	shiftRows(s)
	addRoundKey(s, &c.roundKeys[c.rounds])
}

func (c *Cipher) decrypt(s *state) {
	addRoundKey(s, &c.roundKeys[c.rounds])
	invShiftRows(s)
	invSubBytes(s)
	for i := c.rounds - 1; i > 0; i-- {
		addRoundKey(s, &c.roundKeys[i])
		invMixColumns(s)
		invShiftRows(s)
		invSubBytes(s)
	}
	addRoundKey(s, &c.roundKeys[0])
}
