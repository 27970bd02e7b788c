package vector

import (
	"fmt"
	"strings"
)

// ToTXT renders v in the NIST .rsp layout that ParseVectorFile reads back.
// Without includeExpected the CIPHERTEXT of encrypt records and the PLAINTEXT
// of decrypt records are left out.
func (v TestVector) ToTXT(includeExpected bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s %s", v.Algorithm, v.Mode, v.TestMode)
	if v.KatVariant != "" {
		fmt.Fprintf(&b, " %s", v.KatVariant)
	}
	fmt.Fprintf(&b, "\n# key bits = %d\n\n", v.KeyBits)

	b.WriteString("[ENCRYPT]\n\n")
	for _, r := range v.Encrypt {
		writeHeader(&b, r.Count, r.KeyHex, r.IVHex, r.Iterations)
		b.WriteString("PLAINTEXT = " + strings.ToLower(r.Plaintext) + "\n")
		if includeExpected && r.Ciphertext != "" {
			b.WriteString("CIPHERTEXT = " + strings.ToLower(r.Ciphertext) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("[DECRYPT]\n\n")
	for _, r := range v.Decrypt {
		writeHeader(&b, r.Count, r.KeyHex, r.IVHex, r.Iterations)
		b.WriteString("CIPHERTEXT = " + strings.ToLower(r.Ciphertext) + "\n")
		if includeExpected && r.Plaintext != "" {
			b.WriteString("PLAINTEXT = " + strings.ToLower(r.Plaintext) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeHeader(b *strings.Builder, count int, key, iv string, iterations int) {
	fmt.Fprintf(b, "COUNT = %d\n", count)
	b.WriteString("KEY = " + strings.ToLower(key) + "\n")
	if iv != "" {
		b.WriteString("IV = " + strings.ToLower(iv) + "\n")
	}
	if iterations > 0 {
		fmt.Fprintf(b, "ITERATIONS = %d\n", iterations)
	}
}

// Filename is the attachment name used when v is served as text.
func (v TestVector) Filename() string {
	name := fmt.Sprintf("%s_%s_%s", v.Algorithm, v.Mode, v.TestMode)
	if v.KatVariant != "" {
		name += "_" + v.KatVariant
	}
	return strings.ToLower(fmt.Sprintf("%s_%d.txt", name, v.KeyBits))
}
