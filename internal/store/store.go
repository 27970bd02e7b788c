// Package store keeps users, sessions, audit logs and generated vectors in
// Postgres through gorm.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"aescore/internal/auth"
	"aescore/internal/models"
	"aescore/internal/services/vector"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("not found")

const maxLogs = 500

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(models.All()...)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SeedRoles creates the built-in roles when missing.
func (s *Store) SeedRoles(ctx context.Context) error {
	for _, name := range []string{auth.RoleAdmin, auth.RoleUser} {
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Role{Name: name}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin creates the administrator account unless a user with that email
// exists. It reports whether a user was created.
func (s *Store) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, "name = ?", auth.RoleAdmin).Error; err != nil {
			return err
		}
		u := models.User{Email: email, PasswordHash: hash, IsActive: true, Roles: []models.Role{role}}
		return tx.Create(&u).Error
	})
	return err == nil, err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	return u, notFound(err)
}

func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	if err := uuid.Validate(id); err != nil {
		return u, ErrNotFound
	}
	err := s.db.WithContext(ctx).Preload("Roles").First(&u, "id = ?", id).Error
	return u, notFound(err)
}

func (s *Store) CreateSession(ctx context.Context, sess models.Session) error {
	return s.db.WithContext(ctx).Create(&sess).Error
}

func (s *Store) Session(ctx context.Context, jti string) (models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "jti = ?", jti).Error
	return sess, notFound(err)
}

func (s *Store) RevokeSession(ctx context.Context, jti string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Audit appends one audit row. An empty userID is stored as NULL.
func (s *Store) Audit(ctx context.Context, userID, action string, metadata map[string]any) error {
	row := models.AuditLog{Action: action, Metadata: models.MustJSONB(metadata)}
	if userID != "" {
		row.UserID = &userID
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) logsQuery(ctx context.Context, userID string, all bool, limit int) *gorm.DB {
	if limit <= 0 || limit > maxLogs {
		limit = maxLogs
	}
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if !all {
		q = q.Where("user_id = ?", userID)
	}
	return q.Order("created_at DESC").Limit(limit)
}

// Logs returns the newest audit rows, of userID only unless all is set.
func (s *Store) Logs(ctx context.Context, userID string, all bool, limit int) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := s.logsQuery(ctx, userID, all, limit).Find(&rows).Error
	return rows, err
}

// vectorRows flattens both directions of v into table rows.
func vectorRows(userID, batchID string, v vector.TestVector) []models.Vector {
	rows := make([]models.Vector, 0, len(v.Encrypt)+len(v.Decrypt))
	base := models.Vector{
		BatchID: batchID, UserID: userID, Algorithm: v.Algorithm, Mode: v.Mode,
		TestMode: v.TestMode, KatVariant: v.KatVariant, KeyBits: v.KeyBits, Status: "ready",
	}
	for _, r := range v.Encrypt {
		row := base
		row.Direction, row.Count, row.Iterations = "ENCRYPT", r.Count, r.Iterations
		row.KeyHex, row.IVHex = r.KeyHex, r.IVHex
		row.InputHex, row.OutputHex = r.Plaintext, r.Ciphertext
		rows = append(rows, row)
	}
	for _, r := range v.Decrypt {
		row := base
		row.Direction, row.Count, row.Iterations = "DECRYPT", r.Count, r.Iterations
		row.KeyHex, row.IVHex = r.KeyHex, r.IVHex
		row.InputHex, row.OutputHex = r.Ciphertext, r.Plaintext
		rows = append(rows, row)
	}
	return rows
}

// SaveVectors stores every record of v under a new batch ID in one
// transaction and returns the batch ID.
func (s *Store) SaveVectors(ctx context.Context, userID string, v vector.TestVector) (string, error) {
	batchID := uuid.NewString()
	rows := vectorRows(userID, batchID, v)
	if len(rows) == 0 {
		return batchID, nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return "", err
	}
	return batchID, nil
}

// Batch returns the stored records of one generate call owned by userID.
func (s *Store) Batch(ctx context.Context, userID, batchID string) ([]models.Vector, error) {
	if err := uuid.Validate(batchID); err != nil {
		return nil, ErrNotFound
	}
	var rows []models.Vector
	err := s.db.WithContext(ctx).
		Where("batch_id = ? AND user_id = ?", batchID, userID).
		Order("direction DESC, count ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}
