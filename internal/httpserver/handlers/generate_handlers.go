package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"aescore/internal/auth"
	"aescore/internal/services/vector"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type generateReq struct {
	Algorithm       string `json:"algorithm"`
	Mode            string `json:"mode"`
	TestMode        string `json:"test_mode"`
	KatVariant      string `json:"kat_variant"`
	KeyBits         int    `json:"key_bits"`
	Count           int    `json:"count"`
	IncludeExpected bool   `json:"include_expected"`
	Format          string `json:"format"`
}

// POST /v1/vectors/generate
func GenerateVectors(vs VectorStore, a Auditor, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateReq
		if err := decodeJSON(w, r, maxAuthBody, &req); err != nil {
			badRequestBody(w, err)
			return
		}
		if req.Algorithm == "" || req.Mode == "" || req.TestMode == "" {
			http.Error(w, "algorithm, mode and test_mode are required", http.StatusBadRequest)
			return
		}
		format := strings.ToLower(strings.TrimSpace(req.Format))
		if format != "" && format != "json" && format != "txt" {
			http.Error(w, fmt.Sprintf("unknown format %q, want json or txt", req.Format), http.StatusBadRequest)
			return
		}

		vec, err := vector.Generate(req.Algorithm, req.Mode, req.TestMode, vector.GenParams{
			KeyBits:    req.KeyBits,
			Count:      req.Count,
			KatVariant: req.KatVariant,
		})
		if err != nil {
			respondError(w, lg, err)
			return
		}

		uid := auth.Subject(r.Context())
		batchID, err := vs.SaveVectors(r.Context(), uid, vec)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		audit(r, a, lg, "VECTOR_GENERATE", map[string]any{
			"batch_id":  batchID,
			"algorithm": vec.Algorithm,
			"mode":      vec.Mode,
			"test_mode": vec.TestMode,
			"key_bits":  vec.KeyBits,
			"records":   len(vec.Encrypt) + len(vec.Decrypt),
		})

		if format == "txt" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Content-Disposition", "attachment; filename="+vec.Filename())
			w.Header().Set("X-Batch-ID", batchID)
			_, _ = w.Write([]byte(vec.ToTXT(req.IncludeExpected)))
			return
		}
		if !req.IncludeExpected {
			vec = vec.WithoutExpected()
		}
		respondJSON(w, map[string]any{"batch_id": batchID, "vectors": vec})
	}
}

// GET /v1/vectors/{batch_id}
func GetBatch(vs VectorStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := vs.Batch(r.Context(), auth.Subject(r.Context()), chi.URLParam(r, "batch_id"))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"data": rows, "count": len(rows)})
	}
}
