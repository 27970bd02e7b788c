package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aescore/internal/auth"
	"aescore/internal/services/cipherops"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// pingStore only answers Ping; routes that reach other methods panic.
type pingStore struct {
	Store
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func testRouter(st Store) (http.Handler, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return NewRouter(Deps{
		Store:           st,
		Issuer:          auth.NewIssuer("router-test", time.Hour),
		Cipher:          cipherops.New(nil),
		Log:             zap.New(core).Sugar(),
		MaxPayloadBytes: 1 << 20,
	}), logs
}

func TestHealthAndReadiness(t *testing.T) {
	h, logs := testRouter(pingStore{})
	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if got, want := w.Code, http.StatusOK; got != want {
			t.Errorf("GET %s = %d, want = %d", path, got, want)
		}
	}
	entries := logs.FilterMessage("http request").All()
	if got, want := len(entries), 2; got != want {
		t.Fatalf("request log lines = %d, want = %d", got, want)
	}
	if got := entries[0].ContextMap()["path"]; got != "/healthz" {
		t.Errorf("logged path = %v", got)
	}

	h, _ = testRouter(pingStore{err: errors.New("connection refused")})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if got, want := w.Code, http.StatusServiceUnavailable; got != want {
		t.Errorf("GET /readyz with db down = %d, want = %d", got, want)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h, _ := testRouter(pingStore{})
	routes := []struct{ method, path string }{
		{http.MethodGet, "/v1/me"},
		{http.MethodPost, "/v1/cipher/encrypt"},
		{http.MethodPost, "/v1/cipher/decrypt"},
		{http.MethodGet, "/v1/cryptography"},
		{http.MethodPost, "/v1/vectors/generate"},
		{http.MethodPost, "/v1/vectors/validate/aes/cbc"},
		{http.MethodGet, "/v1/logs"},
		{http.MethodGet, "/v1/admin/users"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if got, want := w.Code, http.StatusUnauthorized; got != want {
			t.Errorf("%s %s = %d, want = %d", rt.method, rt.path, got, want)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	h, _ := testRouter(pingStore{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))
	if got, want := w.Code, http.StatusNotFound; got != want {
		t.Errorf("GET /v1/nope = %d, want = %d", got, want)
	}
}
