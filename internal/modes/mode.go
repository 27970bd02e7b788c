package modes

import (
	"strconv"
	"strings"

	"aescore/internal/aes"
)

// Mode selects a chaining mode. The zero value is not a valid mode.
type Mode uint8

const (
	CBC Mode = iota + 1
	PCBC
	CFB
	OFB
	CTR
)

var modeNames = [...]string{
	CBC:  "CBC",
	PCBC: "PCBC",
	CFB:  "CFB",
	OFB:  "OFB",
	CTR:  "CTR",
}

// All lists every supported mode in declaration order.
func All() []Mode {
	return []Mode{CBC, PCBC, CFB, OFB, CTR}
}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m >= CBC && m <= CTR
}

// Padded reports whether m applies PKCS#7 padding. CBC and PCBC do;
// the keystream modes never do.
func (m Mode) Padded() bool {
	return m == CBC || m == PCBC
}

// ParseMode accepts a mode name in any case, ignoring surrounding space.
func ParseMode(s string) (Mode, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, m := range All() {
		if modeNames[m] == name {
			return m, nil
		}
	}
	return 0, aes.ConfigErrorf("mode", "unsupported mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, aes.ConfigErrorf("mode", "unknown mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
