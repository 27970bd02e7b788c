package util

import (
	"encoding/hex"
	"strings"
)

// IsLikelyHex reports whether s, ignoring spaces, is non-empty even-length hex.
func IsLikelyHex(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" || len(s)%2 != 0 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// ToHex returns s lower-cased with spaces dropped when it already looks like
// hex, and the hex encoding of its bytes otherwise.
func ToHex(s string) (string, error) {
	t := strings.TrimSpace(s)
	if IsLikelyHex(t) {
		return strings.ToLower(strings.ReplaceAll(t, " ", "")), nil
	}
	return hex.EncodeToString([]byte(s)), nil
}
