package service

import (
	"context"
	"errors"

	"seeker/internal/entity"
	"seeker/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RoleAuthority owns role transition rules. The only defined transition is
// pending → author; there is no demotion, and admins are created solely by
// the bootstrap email at provisioning time.
type RoleAuthority struct {
	repo model.Repository
}

// NewRoleAuthority creates the role authority.
func NewRoleAuthority(repo model.Repository) *RoleAuthority {
	return &RoleAuthority{repo: repo}
}

// ListUsers returns all users in creation order.
func (a *RoleAuthority) ListUsers(ctx context.Context) ([]entity.DbUser, error) {
	return a.repo.ListUsers(ctx)
}

// Approve transitions a pending user to author. Approving a user who is
// already author or admin is a no-op returning the current record, so
// repeated or concurrent approvals converge without error.
func (a *RoleAuthority) Approve(ctx context.Context, externalID string) (*entity.DbUser, error) {
	user, err := a.repo.GetUserByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if user.Role != entity.UserRolePending {
		return user, nil
	}

	if err := a.repo.UpdateUserRole(ctx, externalID, entity.UserRoleAuthor); err != nil {
		// A concurrent approval may have flipped the role between our read
		// and the update; the refetch below settles it either way.
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	updated, err := a.repo.GetUserByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	logrus.WithField("external_id", externalID).Info("approved user")
	return updated, nil
}
