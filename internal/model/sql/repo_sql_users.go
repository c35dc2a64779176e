package sql

import (
	"context"
	"fmt"
	"strings"

	"seeker/internal/entity"

	"gorm.io/gorm"
)

// CreateUser persists a new user record. A unique-constraint violation on
// external_id surfaces as gorm.ErrDuplicatedKey.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByExternalID loads a user by the identity provider's subject id.
func (r *GormRepository) GetUserByExternalID(ctx context.Context, externalID string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(externalID)
	if trimmed == "" {
		return nil, fmt.Errorf("external id is empty")
	}

	var user entity.DbUser
	if err := r.db.WithContext(ctx).Where("external_id = ?", trimmed).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users in creation order.
func (r *GormRepository) ListUsers(ctx context.Context) ([]entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var users []entity.DbUser
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole sets the role of the user with the given external id.
func (r *GormRepository) UpdateUserRole(ctx context.Context, externalID string, role string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(externalID)
	if trimmed == "" {
		return fmt.Errorf("external id is empty")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbUser{}).
		Where("external_id = ?", trimmed).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
