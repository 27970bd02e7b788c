package handlers

import (
	"net/http"
	"strconv"

	"aescore/internal/auth"

	"go.uber.org/zap"
)

const defaultLogLimit = 200

// MyLogs returns recent audit logs. Regular users see their own logs.
// Administrators can pass ?all=1 to see recent logs for everyone.
func MyLogs(logs LogReader, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		all := r.URL.Query().Get("all") == "1" && claims.HasRole(auth.RoleAdmin)
		limit := defaultLogLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}
		rows, err := logs.Logs(r.Context(), claims.Subject, all, limit)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, rows)
	}
}
