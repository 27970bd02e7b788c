package vector

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"aescore/internal/aes"
)

type Record struct {
	Count      int
	Key        []byte
	IV         []byte
	PT         []byte
	CT         []byte
	Iterations int
	Direction  string // ENCRYPT or DECRYPT
}

type Mismatch struct {
	Count     int    `json:"count"`
	Direction string `json:"direction"`
	Expected  string `json:"expected"`
	Got       string `json:"got"`
}

type ValidationResult struct {
	Algorithm string     `json:"algorithm"`
	Mode      string     `json:"mode"`
	Total     int        `json:"total"`
	Passed    int        `json:"passed"`
	Failed    int        `json:"failed"`
	Failures  []Mismatch `json:"failures,omitempty"`
}

// ParseVectorFile reads records from a NIST .rsp style file. Sections are
// opened by [ENCRYPT] or [DECRYPT]; other bracketed headers such as key
// lengths are ignored. A malformed hex or integer value is an error, as is
// an ITERATIONS count outside [1, MCTIterations].
func ParseVectorFile(r io.Reader) ([]Record, error) {
	var recs []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	section := ""
	var cur Record
	started := false

	flush := func() {
		if started {
			cur.Direction = section
			recs = append(recs, cur)
		}
		cur = Record{}
		started = false
	}

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.ToUpper(strings.TrimSpace(strings.Trim(line, "[]")))
			if name == "ENCRYPT" || name == "DECRYPT" {
				flush()
				section = name
			}
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.ToUpper(strings.TrimSpace(k))
		v = strings.TrimSpace(v)

		var err error
		switch k {
		case "COUNT":
			flush()
			if section == "" {
				return nil, fmt.Errorf("line %d: COUNT outside [ENCRYPT] or [DECRYPT]", lineNo)
			}
			started = true
			cur.Count, err = strconv.Atoi(v)
		case "ITERATIONS":
			cur.Iterations, err = strconv.Atoi(v)
			if err == nil && (cur.Iterations < 1 || cur.Iterations > MCTIterations) {
				err = fmt.Errorf("%d outside [1, %d]", cur.Iterations, MCTIterations)
			}
		case "KEY":
			cur.Key, err = hex.DecodeString(v)
		case "IV":
			cur.IV, err = hex.DecodeString(v)
		case "PLAINTEXT":
			cur.PT, err = hex.DecodeString(v)
		case "CIPHERTEXT":
			cur.CT, err = hex.DecodeString(v)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, k, err)
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Validate recomputes every record with algorithm in mode and counts the
// records whose output matches. Records that cannot be evaluated at all,
// such as a bad key length or a missing IV, abort with an error.
func Validate(algorithm, mode string, recs []Record) (ValidationResult, error) {
	alg, ok := Lookup(algorithm)
	if !ok {
		return ValidationResult{}, aes.ConfigErrorf("algorithm", "unsupported algorithm %q", algorithm)
	}
	mode, err := normalizeMode(mode)
	if err != nil {
		return ValidationResult{}, err
	}
	res := ValidationResult{Algorithm: alg.Name, Mode: mode, Total: len(recs)}
	for _, r := range recs {
		b, err := NewBlock(alg.Name, r.Key)
		if err != nil {
			return res, fmt.Errorf("COUNT=%d: %w", r.Count, err)
		}
		iv := r.IV
		if mode == ModeECB {
			iv = make([]byte, aes.BlockSize)
		}

		var in, want []byte
		encrypt := false
		switch r.Direction {
		case "ENCRYPT":
			in, want, encrypt = r.PT, r.CT, true
		case "DECRYPT":
			in, want = r.CT, r.PT
		default:
			return res, fmt.Errorf("COUNT=%d: unknown section %q", r.Count, r.Direction)
		}

		got, err := chain(b, mode, encrypt, in, iv, r.Iterations)
		if err != nil {
			return res, fmt.Errorf("COUNT=%d: %w", r.Count, err)
		}
		if bytes.Equal(got, want) {
			res.Passed++
			continue
		}
		res.Failed++
		res.Failures = append(res.Failures, Mismatch{
			Count:     r.Count,
			Direction: r.Direction,
			Expected:  hex.EncodeToString(want),
			Got:       hex.EncodeToString(got),
		})
	}
	return res, nil
}
