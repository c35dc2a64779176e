package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"seeker/internal/auth"
	"seeker/internal/entity"
	"seeker/internal/identity"
	"seeker/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Bridge exchanges an external identity assertion for an internal session
// credential, provisioning an account on first sight. Provisioning is the
// only path by which a user enters the system.
type Bridge struct {
	verifier            identity.Verifier
	repo                model.Repository
	sessions            *auth.Manager
	bootstrapAdminEmail string
}

// NewBridge creates an identity bridge. bootstrapAdminEmail, when set,
// promotes the matching first-time login straight to admin.
func NewBridge(verifier identity.Verifier, repo model.Repository, sessions *auth.Manager, bootstrapAdminEmail string) *Bridge {
	return &Bridge{
		verifier:            verifier,
		repo:                repo,
		sessions:            sessions,
		bootstrapAdminEmail: strings.ToLower(strings.TrimSpace(bootstrapAdminEmail)),
	}
}

// EstablishSession verifies the assertion, resolves or provisions the user,
// and mints a session credential carrying the stored role. The embedded
// role is frozen until the credential expires or the user re-authenticates.
func (b *Bridge) EstablishSession(ctx context.Context, assertion string) (string, time.Time, *entity.DbUser, error) {
	external, err := b.verifier.Verify(ctx, assertion)
	if err != nil {
		return "", time.Time{}, nil, err
	}

	user, err := b.resolveUser(ctx, external)
	if err != nil {
		return "", time.Time{}, nil, err
	}

	token, expiresAt, err := b.sessions.IssueCredential(user)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}

// resolveUser looks the user up by external id and provisions one if
// absent. Two concurrent first logins race on the insert; the loser hits
// the external_id unique index and falls back to reading the winner's row.
func (b *Bridge) resolveUser(ctx context.Context, external *identity.ExternalIdentity) (*entity.DbUser, error) {
	user, err := b.repo.GetUserByExternalID(ctx, external.SubjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := entity.UserRolePending
	if b.bootstrapAdminEmail != "" && strings.ToLower(external.Email) == b.bootstrapAdminEmail {
		role = entity.UserRoleAdmin
	}

	created := &entity.DbUser{
		ExternalID:  external.SubjectID,
		Email:       external.Email,
		DisplayName: external.DisplayName,
		Role:        role,
	}

	if err := b.repo.CreateUser(ctx, created); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the provisioning race; the winner's row is authoritative.
			return b.repo.GetUserByExternalID(ctx, external.SubjectID)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"external_id": created.ExternalID,
		"role":        created.Role,
	}).Info("provisioned user")

	return created, nil
}
