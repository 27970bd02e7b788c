package handlers

import (
	"context"
	"time"

	"aescore/internal/models"
	"aescore/internal/services/vector"
	"aescore/internal/store"
)

// The interfaces below are the slices of *store.Store each handler needs.

type Auditor interface {
	Audit(ctx context.Context, userID, action string, metadata map[string]any) error
}

type Accounts interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	CreateSession(ctx context.Context, sess models.Session) error
	RevokeSession(ctx context.Context, jti string, at time.Time) error
	UpdateUser(ctx context.Context, id string, p store.UserPatch) error
}

type UserAdmin interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, email, password string, roles []string) (models.User, error)
	UpdateUser(ctx context.Context, id string, p store.UserPatch) error
	DeleteUser(ctx context.Context, id string) error
}

type LogReader interface {
	Logs(ctx context.Context, userID string, all bool, limit int) ([]models.AuditLog, error)
}

type VectorStore interface {
	SaveVectors(ctx context.Context, userID string, v vector.TestVector) (string, error)
	Batch(ctx context.Context, userID, batchID string) ([]models.Vector, error)
}
