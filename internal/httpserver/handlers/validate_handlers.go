package handlers

import (
	"net/http"

	"aescore/internal/services/vector"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// POST /v1/vectors/validate/{algorithm}/{mode}
func ValidateVectors(a Auditor, lg *zap.SugaredLogger, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		algorithm := chi.URLParam(r, "algorithm")
		mode := chi.URLParam(r, "mode")
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			badRequestBody(w, err)
			return
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		recs, err := vector.ParseVectorFile(file)
		if err != nil {
			http.Error(w, "parse error: "+err.Error(), http.StatusBadRequest)
			return
		}
		result, err := vector.Validate(algorithm, mode, recs)
		if err != nil {
			http.Error(w, "validate error: "+err.Error(), http.StatusBadRequest)
			return
		}
		audit(r, a, lg, "VECTOR_VALIDATE", map[string]any{
			"algorithm": result.Algorithm,
			"mode":      result.Mode,
			"filename":  hdr.Filename,
			"total":     result.Total,
			"passed":    result.Passed,
			"failed":    result.Failed,
		})
		respondJSON(w, result)
	}
}
