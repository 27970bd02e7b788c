package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"aescore/internal/auth"
	"aescore/internal/models"
	"aescore/internal/services/vector"
	"aescore/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type auditEntry struct {
	userID string
	action string
	md     map[string]any
}

type logsCall struct {
	userID string
	all    bool
	limit  int
}

// fakeStore keeps everything in memory.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]models.User
	sessions map[string]models.Session
	audits   []auditEntry
	saved    []vector.TestVector
	lastLogs logsCall
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]models.User{}, sessions: map[string]models.Session{}}
}

func (f *fakeStore) addUser(t *testing.T, email, password string, active bool, roles ...string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u := models.User{ID: fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID), Email: email, PasswordHash: hash, IsActive: active}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.Role{Name: r})
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeStore) UserByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateSession(_ context.Context, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.JTI] = s
	return nil
}

func (f *fakeStore) Session(_ context.Context, jti string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[jti]
	if !ok {
		return models.Session{}, store.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) RevokeSession(_ context.Context, jti string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[jti]
	if !ok || s.RevokedAt != nil {
		return store.ErrNotFound
	}
	s.RevokedAt = &at
	f.sessions[jti] = s
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, id string, p store.UserPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Password != nil {
		hash, err := auth.HashPassword(*p.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
		if !u.IsActive {
			f.revokeLocked(id)
		}
	}
	if p.Roles != nil {
		u.Roles = nil
		for _, r := range p.Roles {
			u.Roles = append(u.Roles, models.Role{Name: r})
		}
		f.revokeLocked(id)
	}
	f.users[id] = u
	return nil
}

// revokeLocked mirrors store.revokeSessions; f.mu must be held.
func (f *fakeStore) revokeLocked(userID string) {
	now := time.Now()
	for jti, s := range f.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			f.sessions[jti] = s
		}
	}
}

func (f *fakeStore) ListUsers(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeStore) CreateUser(_ context.Context, email, password string, roles []string) (models.User, error) {
	for _, r := range roles {
		if r != auth.RoleAdmin && r != auth.RoleUser {
			return models.User{}, fmt.Errorf("%w: %s", store.ErrUnknownRole, r)
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == strings.ToLower(email) {
			return models.User{}, gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	u := models.User{ID: fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID), Email: strings.ToLower(email), PasswordHash: hash, IsActive: true}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.Role{Name: r})
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) Audit(_ context.Context, userID, action string, md map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits = append(f.audits, auditEntry{userID, action, md})
	return nil
}

func (f *fakeStore) lastAudit(t *testing.T) auditEntry {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.audits) == 0 {
		t.Fatal("no audit entries")
	}
	return f.audits[len(f.audits)-1]
}

func (f *fakeStore) Logs(_ context.Context, userID string, all bool, limit int) ([]models.AuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogs = logsCall{userID, all, limit}
	return []models.AuditLog{{ID: 1, UserID: &userID, Action: "LOGIN"}}, nil
}

func (f *fakeStore) SaveVectors(_ context.Context, _ string, v vector.TestVector) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, v)
	return "11111111-1111-1111-1111-111111111111", nil
}

func (f *fakeStore) Batch(_ context.Context, userID, batchID string) ([]models.Vector, error) {
	if batchID != "11111111-1111-1111-1111-111111111111" {
		return nil, store.ErrNotFound
	}
	return []models.Vector{{BatchID: batchID, UserID: userID, Algorithm: "AES"}}, nil
}

// withClaims injects claims the way JWTAuth would.
func withClaims(c auth.Claims) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), c)))
		})
	}
}

func newTestRouter(c auth.Claims, mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(withClaims(c))
	mount(r)
	return r
}

var testLog = zap.NewNop().Sugar()
