package handlers

import (
	"net/http"

	"aescore/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func ListUsers(users UserAdmin, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.ListUsers(r.Context())
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{"data": list, "count": len(list)})
	}
}

func CreateUser(users UserAdmin, a Auditor, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string   `json:"email"`
			Password string   `json:"password"`
			Roles    []string `json:"roles"`
		}
		if err := decodeJSON(w, r, maxAuthBody, &req); err != nil {
			badRequestBody(w, err)
			return
		}
		if req.Email == "" || req.Password == "" {
			http.Error(w, "email/password required", http.StatusBadRequest)
			return
		}
		u, err := users.CreateUser(r.Context(), req.Email, req.Password, req.Roles)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		audit(r, a, lg, "USER_CREATE", map[string]any{"target_user_id": u.ID})
		respondStatus(w, http.StatusCreated, map[string]any{"id": u.ID, "email": u.Email, "roles": u.RoleNames()})
	}
}

func UpdateUser(users UserAdmin, a Auditor, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req struct {
			Email    *string  `json:"email"`
			IsActive *bool    `json:"is_active"`
			Password *string  `json:"password,omitempty"`
			Roles    []string `json:"roles"`
		}
		if err := decodeJSON(w, r, maxAuthBody, &req); err != nil {
			badRequestBody(w, err)
			return
		}
		p := store.UserPatch{Email: req.Email, IsActive: req.IsActive, Password: req.Password, Roles: req.Roles}
		if err := users.UpdateUser(r.Context(), id, p); err != nil {
			respondError(w, lg, err)
			return
		}
		audit(r, a, lg, "USER_UPDATE", map[string]any{"target_user_id": id})
		respondJSON(w, map[string]any{"updated": true})
	}
}

func DeleteUser(users UserAdmin, a Auditor, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := users.DeleteUser(r.Context(), id); err != nil {
			respondError(w, lg, err)
			return
		}
		audit(r, a, lg, "USER_DELETE", map[string]any{"target_user_id": id})
		respondJSON(w, map[string]any{"deleted": true})
	}
}
