package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aescore/internal/auth"

	"github.com/go-chi/chi/v5"
)

func authRouter(fs *fakeStore) http.Handler {
	iss := auth.NewIssuer("handler-test-secret", time.Hour)
	r := chi.NewRouter()
	r.Post("/v1/auth/login", Login(fs, iss, fs, testLog))
	r.Group(func(p chi.Router) {
		p.Use(auth.JWTAuth(iss, fs))
		p.Get("/v1/me", Me(fs, testLog))
		p.Post("/v1/auth/logout", Logout(fs, fs, testLog))
		p.Post("/v1/auth/password", ChangePassword(fs, fs, testLog))
		p.Get("/v1/logs", MyLogs(fs, testLog))
		p.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(auth.RoleAdmin))
			admin.Get("/v1/admin/users", ListUsers(fs, testLog))
			admin.Post("/v1/admin/users", CreateUser(fs, fs, testLog))
			admin.Patch("/v1/admin/users/{id}", UpdateUser(fs, fs, testLog))
			admin.Delete("/v1/admin/users/{id}", DeleteUser(fs, fs, testLog))
		})
	})
	return r
}

func login(t *testing.T, h http.Handler, email, password string) (string, int) {
	t.Helper()
	w := post(h, "/v1/auth/login", `{"email":"`+email+`","password":"`+password+`"}`)
	if w.Code != http.StatusOK {
		return "", w.Code
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	return body.Token, w.Code
}

func call(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestLoginMeLogout(t *testing.T) {
	fs := newFakeStore()
	u := fs.addUser(t, "alice@example.com", "pw-alice", true, auth.RoleUser)
	h := authRouter(fs)

	tok, code := login(t, h, "Alice@Example.com", "pw-alice")
	if code != http.StatusOK {
		t.Fatalf("login status = %d", code)
	}
	if len(fs.sessions) != 1 {
		t.Fatalf("sessions = %d, want = 1", len(fs.sessions))
	}
	if e := fs.lastAudit(t); e.action != "LOGIN" || e.userID != u.ID {
		t.Errorf("audit = %+v", e)
	}

	w := call(h, http.MethodGet, "/v1/me", tok, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "alice@example.com") {
		t.Fatalf("me = %d %s", w.Code, w.Body)
	}

	if w := call(h, http.MethodPost, "/v1/auth/logout", tok, ""); w.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d (%s)", w.Code, w.Body)
	}
	if w := call(h, http.MethodGet, "/v1/me", tok, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d, want = %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLoginRejects(t *testing.T) {
	fs := newFakeStore()
	fs.addUser(t, "bob@example.com", "pw-bob", true)
	fs.addUser(t, "carol@example.com", "pw-carol", false)
	h := authRouter(fs)

	cases := []struct{ email, password string }{
		{"bob@example.com", "wrong"},
		{"nobody@example.com", "pw-bob"},
		{"carol@example.com", "pw-carol"},
	}
	for _, c := range cases {
		if _, code := login(t, h, c.email, c.password); code != http.StatusUnauthorized {
			t.Errorf("login(%s) status = %d, want = %d", c.email, code, http.StatusUnauthorized)
		}
	}
	if len(fs.sessions) != 0 {
		t.Errorf("failed logins created sessions: %v", fs.sessions)
	}
}

func TestChangePassword(t *testing.T) {
	fs := newFakeStore()
	fs.addUser(t, "dave@example.com", "old-pw", true)
	h := authRouter(fs)
	tok, _ := login(t, h, "dave@example.com", "old-pw")

	if w := call(h, http.MethodPost, "/v1/auth/password", tok, `{"current_password":"nope","new_password":"x"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong current status = %d", w.Code)
	}
	if w := call(h, http.MethodPost, "/v1/auth/password", tok, `{"current_password":"old-pw","new_password":""}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty new status = %d", w.Code)
	}
	if w := call(h, http.MethodPost, "/v1/auth/password", tok, `{"current_password":"old-pw","new_password":"new-pw"}`); w.Code != http.StatusNoContent {
		t.Fatalf("change status = %d (%s)", w.Code, w.Body)
	}
	if _, code := login(t, h, "dave@example.com", "new-pw"); code != http.StatusOK {
		t.Errorf("login with new password status = %d", code)
	}
}

func TestMyLogs(t *testing.T) {
	fs := newFakeStore()
	user := fs.addUser(t, "erin@example.com", "pw", true, auth.RoleUser)
	admin := fs.addUser(t, "root@example.com", "pw", true, auth.RoleAdmin)
	h := authRouter(fs)
	userTok, _ := login(t, h, "erin@example.com", "pw")
	adminTok, _ := login(t, h, "root@example.com", "pw")

	if w := call(h, http.MethodGet, "/v1/logs?all=1", userTok, ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got, want := fs.lastLogs, (logsCall{user.ID, false, defaultLogLimit}); got != want {
		t.Errorf("user all=1 query = %+v, want = %+v", got, want)
	}

	call(h, http.MethodGet, "/v1/logs?all=1&limit=10", adminTok, "")
	if got, want := fs.lastLogs, (logsCall{admin.ID, true, 10}); got != want {
		t.Errorf("admin all=1 query = %+v, want = %+v", got, want)
	}

	if w := call(h, http.MethodGet, "/v1/logs?limit=-1", adminTok, ""); w.Code != http.StatusBadRequest {
		t.Errorf("negative limit status = %d", w.Code)
	}
}

func TestAdminUsers(t *testing.T) {
	fs := newFakeStore()
	fs.addUser(t, "root@example.com", "pw", true, auth.RoleAdmin)
	fs.addUser(t, "frank@example.com", "pw", true, auth.RoleUser)
	h := authRouter(fs)
	adminTok, _ := login(t, h, "root@example.com", "pw")
	userTok, _ := login(t, h, "frank@example.com", "pw")

	if w := call(h, http.MethodGet, "/v1/admin/users", userTok, ""); w.Code != http.StatusForbidden {
		t.Errorf("user list status = %d, want = %d", w.Code, http.StatusForbidden)
	}

	w := call(h, http.MethodPost, "/v1/admin/users", adminTok, `{"email":"Grace@Example.com","password":"pw-grace","roles":["User"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d (%s)", w.Code, w.Body)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if _, code := login(t, h, "grace@example.com", "pw-grace"); code != http.StatusOK {
		t.Errorf("new user login status = %d", code)
	}

	if w := call(h, http.MethodPost, "/v1/admin/users", adminTok, `{"email":"h@example.com","password":"pw","roles":["Root"]}`); w.Code != http.StatusBadRequest {
		t.Errorf("unknown role status = %d", w.Code)
	}

	if w := call(h, http.MethodPatch, "/v1/admin/users/"+created.ID, adminTok, `{"is_active":false}`); w.Code != http.StatusOK {
		t.Fatalf("deactivate status = %d (%s)", w.Code, w.Body)
	}
	if _, code := login(t, h, "grace@example.com", "pw-grace"); code != http.StatusUnauthorized {
		t.Errorf("inactive login status = %d", code)
	}

	if w := call(h, http.MethodDelete, "/v1/admin/users/"+created.ID, adminTok, ""); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := call(h, http.MethodDelete, "/v1/admin/users/"+created.ID, adminTok, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want = %d", w.Code, http.StatusNotFound)
	}
}

func TestDemotedAdminLosesAccess(t *testing.T) {
	fs := newFakeStore()
	fs.addUser(t, "root@example.com", "pw", true, auth.RoleAdmin)
	other := fs.addUser(t, "ivan@example.com", "pw-ivan", true, auth.RoleAdmin)
	h := authRouter(fs)
	rootTok, _ := login(t, h, "root@example.com", "pw")
	ivanTok, _ := login(t, h, "ivan@example.com", "pw-ivan")

	if w := call(h, http.MethodGet, "/v1/admin/users", ivanTok, ""); w.Code != http.StatusOK {
		t.Fatalf("admin list status = %d", w.Code)
	}
	if w := call(h, http.MethodPatch, "/v1/admin/users/"+other.ID, rootTok, `{"roles":["User"]}`); w.Code != http.StatusOK {
		t.Fatalf("demote status = %d (%s)", w.Code, w.Body)
	}
	if w := call(h, http.MethodGet, "/v1/admin/users", ivanTok, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("old token after demotion status = %d, want = %d", w.Code, http.StatusUnauthorized)
	}

	fresh, code := login(t, h, "ivan@example.com", "pw-ivan")
	if code != http.StatusOK {
		t.Fatalf("relogin status = %d", code)
	}
	if w := call(h, http.MethodGet, "/v1/admin/users", fresh, ""); w.Code != http.StatusForbidden {
		t.Errorf("new token after demotion status = %d, want = %d", w.Code, http.StatusForbidden)
	}
	if w := call(h, http.MethodGet, "/v1/admin/users", rootTok, ""); w.Code != http.StatusOK {
		t.Errorf("untouched admin status = %d", w.Code)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	fs := newFakeStore()
	fs.addUser(t, "root@example.com", "pw", true, auth.RoleAdmin)
	fs.addUser(t, "judy@example.com", "pw", true, auth.RoleUser)
	h := authRouter(fs)
	tok, _ := login(t, h, "root@example.com", "pw")

	w := call(h, http.MethodPost, "/v1/admin/users", tok, `{"email":"Judy@Example.com","password":"pw2"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want = %d (%s)", w.Code, http.StatusConflict, w.Body)
	}
}
