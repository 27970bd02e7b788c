package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"aescore/internal/auth"
	"aescore/internal/models"
	"aescore/internal/store"

	"go.uber.org/zap"
)

const maxAuthBody = 16 << 10

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(accounts Accounts, iss *auth.Issuer, a Auditor, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := decodeJSON(w, r, maxAuthBody, &req); err != nil {
			badRequestBody(w, err)
			return
		}
		u, err := accounts.UserByEmail(r.Context(), strings.ToLower(req.Email))
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				respondError(w, lg, err)
				return
			}
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if !u.IsActive || auth.CheckPassword(u.PasswordHash, req.Password) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, claims, err := iss.Sign(u.ID, u.RoleNames())
		if err != nil {
			respondError(w, lg, err)
			return
		}
		sess := models.Session{JTI: claims.JWTID, UserID: u.ID, ExpiresAt: claims.ExpiresAt}
		if err := accounts.CreateSession(r.Context(), sess); err != nil {
			respondError(w, lg, err)
			return
		}
		ctx := auth.WithClaims(r.Context(), claims)
		audit(r.WithContext(ctx), a, lg, "LOGIN", map[string]any{"jti": claims.JWTID})
		respondJSON(w, map[string]any{"token": tok, "expires_at": claims.ExpiresAt})
	}
}

func Logout(accounts Accounts, a Auditor, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		if err := accounts.RevokeSession(r.Context(), claims.JWTID, time.Now()); err != nil {
			respondError(w, lg, err)
			return
		}
		audit(r, a, lg, "LOGOUT", map[string]any{"jti": claims.JWTID})
		w.WriteHeader(http.StatusNoContent)
	}
}

func Me(accounts Accounts, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := accounts.UserByID(r.Context(), auth.Subject(r.Context()))
		if err != nil {
			respondError(w, lg, err)
			return
		}
		respondJSON(w, map[string]any{
			"id": u.ID, "email": u.Email, "roles": u.RoleNames(), "is_active": u.IsActive,
		})
	}
}

func ChangePassword(accounts Accounts, a Auditor, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Current string `json:"current_password"`
			New     string `json:"new_password"`
		}
		if err := decodeJSON(w, r, maxAuthBody, &req); err != nil {
			badRequestBody(w, err)
			return
		}
		uid := auth.Subject(r.Context())
		u, err := accounts.UserByID(r.Context(), uid)
		if err != nil {
			respondError(w, lg, err)
			return
		}
		if auth.CheckPassword(u.PasswordHash, req.Current) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err := accounts.UpdateUser(r.Context(), uid, store.UserPatch{Password: &req.New}); err != nil {
			respondError(w, lg, err)
			return
		}
		audit(r, a, lg, "PASSWORD_CHANGE", nil)
		w.WriteHeader(http.StatusNoContent)
	}
}
