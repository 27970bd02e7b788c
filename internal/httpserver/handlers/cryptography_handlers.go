package handlers

import (
	"net/http"

	"aescore/internal/services/vector"
)

// GET /v1/cryptography
func ListCryptography() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows := vector.Catalogue()
		respondJSON(w, map[string]any{"data": rows, "count": len(rows)})
	}
}
