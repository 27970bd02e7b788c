package httpserver

import (
	"context"
	"net/http"
	"time"

	"aescore/internal/auth"
	"aescore/internal/httpserver/handlers"
	"aescore/internal/services/cipherops"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Store is everything the routes need from persistence. *store.Store
// satisfies it.
type Store interface {
	handlers.Accounts
	handlers.UserAdmin
	handlers.LogReader
	handlers.VectorStore
	handlers.Auditor
	auth.SessionLookup
	Ping(ctx context.Context) error
}

type Deps struct {
	Store           Store
	Issuer          *auth.Issuer
	Cipher          *cipherops.Service
	Log             *zap.SugaredLogger
	MaxPayloadBytes int64
}

func NewRouter(d Deps) http.Handler {
	lg := d.Log
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(lg), middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/v1/auth/login", handlers.Login(d.Store, d.Issuer, d.Store, lg))
	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(d.Issuer, d.Store))
		protected.Get("/v1/me", handlers.Me(d.Store, lg))
		protected.Post("/v1/auth/logout", handlers.Logout(d.Store, d.Store, lg))
		protected.Post("/v1/auth/password", handlers.ChangePassword(d.Store, d.Store, lg))
		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(auth.RoleAdmin))
			admin.Get("/v1/admin/users", handlers.ListUsers(d.Store, lg))
			admin.Post("/v1/admin/users", handlers.CreateUser(d.Store, d.Store, lg))
			admin.Patch("/v1/admin/users/{id}", handlers.UpdateUser(d.Store, d.Store, lg))
			admin.Delete("/v1/admin/users/{id}", handlers.DeleteUser(d.Store, d.Store, lg))
		})

		protected.Post("/v1/cipher/encrypt", handlers.CipherEncrypt(d.Cipher, d.Store, lg, d.MaxPayloadBytes))
		protected.Post("/v1/cipher/decrypt", handlers.CipherDecrypt(d.Cipher, d.Store, lg, d.MaxPayloadBytes))
		protected.Get("/v1/cryptography", handlers.ListCryptography())
		protected.Post("/v1/vectors/generate", handlers.GenerateVectors(d.Store, d.Store, lg))
		protected.Get("/v1/vectors/{batch_id}", handlers.GetBatch(d.Store, lg))
		protected.Post("/v1/vectors/validate/{algorithm}/{mode}", handlers.ValidateVectors(d.Store, lg, d.MaxPayloadBytes))
		protected.Get("/v1/logs", handlers.MyLogs(d.Store, lg))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			lg.Warnw("readiness check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// requestLogger writes one structured line per request.
func requestLogger(lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				lg.Infow("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
					"remote", r.RemoteAddr,
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
