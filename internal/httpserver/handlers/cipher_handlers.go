package handlers

import (
	"net/http"

	"aescore/internal/services/cipherops"

	"go.uber.org/zap"
)

type cipherFunc func(cipherops.Request) (cipherops.Result, error)

// cipherHandler decodes a cipherops.Request, runs op and audits the call
// with sizes only.
func cipherHandler(op cipherFunc, action string, a Auditor, lg *zap.SugaredLogger, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cipherops.Request
		if err := decodeJSON(w, r, maxBytes, &req); err != nil {
			badRequestBody(w, err)
			return
		}
		res, err := op(req)
		if err != nil {
			lg.Debugw("cipher request rejected", "action", action, "algorithm", req.Algorithm, "mode", req.Mode, "error", err)
			respondError(w, lg, err)
			return
		}
		audit(r, a, lg, action, map[string]any{
			"algorithm":    res.Algorithm,
			"mode":         res.Mode,
			"input_bytes":  res.InputBytes,
			"output_bytes": len(res.OutputHex) / 2,
		})
		respondJSON(w, res)
	}
}

// POST /v1/cipher/encrypt
func CipherEncrypt(svc *cipherops.Service, a Auditor, lg *zap.SugaredLogger, maxBytes int64) http.HandlerFunc {
	return cipherHandler(svc.Encrypt, "CIPHER_ENCRYPT", a, lg, maxBytes)
}

// POST /v1/cipher/decrypt
func CipherDecrypt(svc *cipherops.Service, a Auditor, lg *zap.SugaredLogger, maxBytes int64) http.HandlerFunc {
	return cipherHandler(svc.Decrypt, "CIPHER_DECRYPT", a, lg, maxBytes)
}
