// Package padding implements PKCS#7 padding for 16-byte blocks.
package padding

import (
	"errors"
	"fmt"
)

const blockSize = 16

// ErrPadding is matched (via errors.Is) by every Unpad failure. For padded
// chaining modes it is the only signal of a wrong key or corrupted
// ciphertext, and it is not an integrity check.
var ErrPadding = errors.New("padding: invalid PKCS#7 padding")

// Error describes why Unpad rejected its input.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return ErrPadding.Error() + ": " + e.Reason }

func (e *Error) Unwrap() error { return ErrPadding }

// Pad returns a copy of data extended with k bytes of value k, where
// k = 16 - len(data)%16. Aligned input gains a whole block, so the padding
// is never empty.
func Pad(data []byte) []byte {
	k := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+k)
	copy(out, data)
	for range k {
		out = append(out, byte(k))
	}
	return out
}

// Unpad validates and strips PKCS#7 padding. The result aliases data.
func Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, &Error{Reason: fmt.Sprintf("length %d is not a positive multiple of %d", len(data), blockSize)}
	}
	k := int(data[len(data)-1])
	if k == 0 || k > blockSize {
		return nil, &Error{Reason: fmt.Sprintf("pad length %d out of range", k)}
	}
	for _, b := range data[len(data)-k:] {
		if int(b) != k {
			return nil, &Error{Reason: "inconsistent pad bytes"}
		}
	}
	return data[:len(data)-k], nil
}
