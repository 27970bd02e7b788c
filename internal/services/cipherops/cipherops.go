// Package cipherops serves one-shot encrypt and decrypt requests on top of
// the mode layer and the cipher registry.
package cipherops

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"aescore/internal/aes"
	"aescore/internal/modes"
	"aescore/internal/services/vector"
	"aescore/internal/util"
)

// ModeBlock selects a single raw block operation instead of a chaining mode.
const ModeBlock = "BLOCK"

// ErrInvalidRequest marks malformed request fields such as bad hex.
var ErrInvalidRequest = errors.New("invalid request")

// Input encodings. EncodingAuto treats even-length hex as hex and anything
// else as text.
const (
	EncodingAuto = "auto"
	EncodingHex  = "hex"
	EncodingText = "text"
)

type Request struct {
	Algorithm string `json:"algorithm"`
	Mode      string `json:"mode"`
	KeyHex    string `json:"key"`
	IVHex     string `json:"iv,omitempty"`
	Input     string `json:"input"`
	Encoding  string `json:"input_encoding,omitempty"`
}

type Result struct {
	Algorithm  string `json:"algorithm"`
	Mode       string `json:"mode"`
	IVHex      string `json:"iv,omitempty"`
	OutputHex  string `json:"output"`
	OutputText string `json:"output_text,omitempty"`
	InputBytes int    `json:"input_bytes"`
}

type Service struct {
	rand io.Reader
}

// New returns a Service drawing IVs from r, or from crypto/rand when r is nil.
func New(r io.Reader) *Service {
	if r == nil {
		r = rand.Reader
	}
	return &Service{rand: r}
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidRequest, field, fmt.Sprintf(format, args...))
}

func decodeHex(field, s string) ([]byte, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, invalid(field, "not hex: %v", err)
	}
	return b, nil
}

type prepared struct {
	block     modes.Block
	algorithm string
	mode      string
	chain     modes.Mode
	iv        []byte
	input     []byte
}

func prepare(req Request, encrypt bool) (prepared, error) {
	var p prepared
	p.algorithm = strings.ToUpper(strings.TrimSpace(req.Algorithm))
	if p.algorithm == "" {
		p.algorithm = "AES"
	}
	key, err := decodeHex("key", req.KeyHex)
	if err != nil {
		return p, err
	}
	if p.block, err = vector.NewBlock(p.algorithm, key); err != nil {
		return p, err
	}

	p.mode = strings.ToUpper(strings.TrimSpace(req.Mode))
	if p.mode != ModeBlock {
		if p.chain, err = modes.ParseMode(p.mode); err != nil {
			return p, err
		}
		p.mode = p.chain.String()
		if strings.TrimSpace(req.IVHex) != "" {
			if p.iv, err = decodeHex("iv", req.IVHex); err != nil {
				return p, err
			}
		}
	}

	p.input, err = decodeInput(req.Input, req.Encoding, encrypt)
	return p, err
}

func decodeInput(in, encoding string, encrypt bool) ([]byte, error) {
	encoding = strings.ToLower(strings.TrimSpace(encoding))
	switch encoding {
	case "", EncodingAuto:
		if !encrypt {
			return decodeHex("input", in)
		}
		h, err := util.ToHex(in)
		if err != nil {
			return nil, invalid("input", "%v", err)
		}
		return decodeHex("input", h)
	case EncodingHex:
		return decodeHex("input", in)
	case EncodingText:
		if !encrypt {
			return nil, invalid("input_encoding", "ciphertext must be hex")
		}
		return []byte(in), nil
	default:
		return nil, invalid("input_encoding", "unknown encoding %q", encoding)
	}
}

func runBlock(b modes.Block, in []byte, encrypt bool) ([]byte, error) {
	if len(in) != aes.BlockSize {
		return nil, aes.ConfigErrorf("block", "length %d, want %d", len(in), aes.BlockSize)
	}
	out := make([]byte, aes.BlockSize)
	if encrypt {
		b.Encrypt(out, in)
	} else {
		b.Decrypt(out, in)
	}
	return out, nil
}

// Encrypt enciphers req.Input. Chaining modes pad as the mode requires; a
// missing IV is generated and returned in the result.
func (s *Service) Encrypt(req Request) (Result, error) {
	p, err := prepare(req, true)
	if err != nil {
		return Result{}, err
	}
	res := Result{Algorithm: p.algorithm, Mode: p.mode, InputBytes: len(p.input)}

	var out []byte
	if p.mode == ModeBlock {
		out, err = runBlock(p.block, p.input, true)
	} else {
		if p.iv == nil {
			p.iv = make([]byte, aes.BlockSize)
			if _, err := io.ReadFull(s.rand, p.iv); err != nil {
				return Result{}, fmt.Errorf("generate iv: %w", err)
			}
		}
		res.IVHex = hex.EncodeToString(p.iv)
		out, err = modes.Encrypt(p.block, p.chain, p.input, p.iv)
	}
	if err != nil {
		return Result{}, err
	}
	res.OutputHex = hex.EncodeToString(out)
	return res, nil
}

// Decrypt reverses Encrypt. The IV is required for every chaining mode.
func (s *Service) Decrypt(req Request) (Result, error) {
	p, err := prepare(req, false)
	if err != nil {
		return Result{}, err
	}
	res := Result{Algorithm: p.algorithm, Mode: p.mode, InputBytes: len(p.input)}

	var out []byte
	if p.mode == ModeBlock {
		out, err = runBlock(p.block, p.input, false)
	} else {
		if p.iv == nil {
			return Result{}, invalid("iv", "required for decryption")
		}
		res.IVHex = hex.EncodeToString(p.iv)
		out, err = modes.Decrypt(p.block, p.chain, p.input, p.iv)
	}
	if err != nil {
		return Result{}, err
	}
	res.OutputHex = hex.EncodeToString(out)
	if len(out) > 0 && utf8.Valid(out) {
		res.OutputText = string(out)
	}
	return res, nil
}
