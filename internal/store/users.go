package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aescore/internal/auth"
	"aescore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUnknownRole = errors.New("unknown role")

// UserPatch holds the optional fields of an account update.
type UserPatch struct {
	Email    *string
	IsActive *bool
	Password *string
	Roles    []string
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Preload("Roles").Order("created_at desc").Find(&users).Error
	return users, err
}

// uniqueNames drops repeated names, keeping first-seen order.
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func rolesByName(tx *gorm.DB, names []string) ([]models.Role, error) {
	var roles []models.Role
	names = uniqueNames(names)
	if len(names) == 0 {
		return roles, nil
	}
	if err := tx.Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, err
	}
	if len(roles) != len(names) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownRole, names)
	}
	return roles, nil
}

// revokeSessions ends every open session of userID.
func revokeSessions(tx *gorm.DB, userID string, at time.Time) *gorm.DB {
	return tx.Model(&models.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at)
}

// CreateUser adds an active account. With no roles given it gets the User role.
func (s *Store) CreateUser(ctx context.Context, email, password string, roles []string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	if len(roles) == 0 {
		roles = []string{auth.RoleUser}
	}
	u := models.User{Email: strings.ToLower(strings.TrimSpace(email)), PasswordHash: hash, IsActive: true}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.Roles, err = rolesByName(tx, roles); err != nil {
			return err
		}
		return tx.Create(&u).Error
	})
	return u, err
}

// UpdateUser applies p. Deactivating an account or changing its roles revokes
// its open sessions; tokens carry the roles they were issued with.
func (s *Store) UpdateUser(ctx context.Context, id string, p UserPatch) error {
	if err := uuid.Validate(id); err != nil {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Preload("Roles").First(&u, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if p.Email != nil {
			u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
		}
		if p.IsActive != nil {
			u.IsActive = *p.IsActive
			if !u.IsActive {
				if err := revokeSessions(tx, u.ID, time.Now()).Error; err != nil {
					return err
				}
			}
		}
		if p.Password != nil {
			hash, err := auth.HashPassword(*p.Password)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
		}
		if p.Roles != nil {
			roles, err := rolesByName(tx, p.Roles)
			if err != nil {
				return err
			}
			if err := tx.Model(&u).Association("Roles").Replace(roles); err != nil {
				return err
			}
			if err := revokeSessions(tx, u.ID, time.Now()).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Roles").Save(&u).Error
	})
}

// DeleteUser removes the account together with its sessions and role links.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := uuid.Validate(id); err != nil {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
