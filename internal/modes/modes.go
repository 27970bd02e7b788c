// Package modes runs a 128-bit block cipher over messages of any length in
// one of five chaining modes: CBC and PCBC with PKCS#7 padding, and the
// keystream modes CFB, OFB and CTR, which never pad.
//
// Every call is self-contained: chaining state lives on the stack for the
// duration of one Encrypt or Decrypt and is discarded afterwards. Inputs are
// never modified and outputs are always freshly allocated.
//
// None of these modes authenticates its output. A wrong key or a modified
// ciphertext surfaces as padding.ErrPadding at best (CBC, PCBC) and as silently
// wrong plaintext at worst (CFB, OFB, CTR); callers needing integrity must add
// a MAC.
package modes

import (
	"aescore/internal/aes"
	"aescore/internal/padding"
)

const blockSize = aes.BlockSize

// Block is a block cipher with 16-byte blocks. *aes.Cipher satisfies it, as
// does any crypto/cipher.Block with a 16-byte block size.
type Block interface {
	BlockSize() int
	Encrypt(dst, src []byte)
	Decrypt(dst, src []byte)
}

// Encrypt pads plaintext when m requires it and enciphers it under b with
// the 16-byte iv (the initial counter block for CTR).
func Encrypt(b Block, m Mode, plaintext, iv []byte) ([]byte, error) {
	if err := checkParams(b, iv); err != nil {
		return nil, err
	}
	switch m {
	case CBC:
		return encryptCBC(b, padding.Pad(plaintext), iv), nil
	case PCBC:
		return encryptPCBC(b, padding.Pad(plaintext), iv), nil
	case CFB:
		return encryptCFB(b, plaintext, iv), nil
	case OFB:
		return xorOFB(b, plaintext, iv), nil
	case CTR:
		return xorCTR(b, plaintext, iv), nil
	default:
		return nil, aes.ConfigErrorf("mode", "unknown mode %d", uint8(m))
	}
}

// Decrypt reverses Encrypt. For CBC and PCBC the ciphertext must be a
// non-zero multiple of 16 bytes, and a padding failure is returned as an
// error matching padding.ErrPadding.
func Decrypt(b Block, m Mode, ciphertext, iv []byte) ([]byte, error) {
	if err := checkParams(b, iv); err != nil {
		return nil, err
	}
	switch m {
	case CBC, PCBC:
		if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
			return nil, aes.ConfigErrorf("ciphertext", "length %d, must be a non-zero multiple of %d", len(ciphertext), blockSize)
		}
		var pt []byte
		if m == CBC {
			pt = decryptCBC(b, ciphertext, iv)
		} else {
			pt = decryptPCBC(b, ciphertext, iv)
		}
		return padding.Unpad(pt)
	case CFB:
		return decryptCFB(b, ciphertext, iv), nil
	case OFB:
		return xorOFB(b, ciphertext, iv), nil
	case CTR:
		return xorCTR(b, ciphertext, iv), nil
	default:
		return nil, aes.ConfigErrorf("mode", "unknown mode %d", uint8(m))
	}
}

// EncryptBlocks applies the raw chaining transform of m without padding, as
// used by published test vectors. CBC and PCBC input must be block-aligned.
func EncryptBlocks(b Block, m Mode, plaintext, iv []byte) ([]byte, error) {
	if err := checkParams(b, iv); err != nil {
		return nil, err
	}
	if m.Padded() && len(plaintext)%blockSize != 0 {
		return nil, aes.ConfigErrorf("plaintext", "length %d, must be a multiple of %d", len(plaintext), blockSize)
	}
	switch m {
	case CBC:
		return encryptCBC(b, plaintext, iv), nil
	case PCBC:
		return encryptPCBC(b, plaintext, iv), nil
	case CFB, OFB, CTR:
		return Encrypt(b, m, plaintext, iv)
	default:
		return nil, aes.ConfigErrorf("mode", "unknown mode %d", uint8(m))
	}
}

// DecryptBlocks reverses EncryptBlocks; no padding is checked or removed.
func DecryptBlocks(b Block, m Mode, ciphertext, iv []byte) ([]byte, error) {
	if err := checkParams(b, iv); err != nil {
		return nil, err
	}
	if m.Padded() && len(ciphertext)%blockSize != 0 {
		return nil, aes.ConfigErrorf("ciphertext", "length %d, must be a multiple of %d", len(ciphertext), blockSize)
	}
	switch m {
	case CBC:
		return decryptCBC(b, ciphertext, iv), nil
	case PCBC:
		return decryptPCBC(b, ciphertext, iv), nil
	case CFB, OFB, CTR:
		return Decrypt(b, m, ciphertext, iv)
	default:
		return nil, aes.ConfigErrorf("mode", "unknown mode %d", uint8(m))
	}
}

func checkParams(b Block, iv []byte) error {
	if b.BlockSize() != blockSize {
		return aes.ConfigErrorf("block", "cipher block size %d, must be %d", b.BlockSize(), blockSize)
	}
	if len(iv) != blockSize {
		return aes.ConfigErrorf("iv", "length %d, must be %d bytes", len(iv), blockSize)
	}
	return nil
}

// xorBytes sets dst[i] = a[i] ^ b[i] for i < len(dst).
func xorBytes(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}
