package model

import (
	"context"

	"seeker/internal/entity"
)

// Repository is the persistence boundary. Implementations must surface
// gorm.ErrRecordNotFound for missing rows and gorm.ErrDuplicatedKey for
// unique-constraint violations; the service layer relies on both to close
// provisioning and slug races at the store.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByExternalID(ctx context.Context, externalID string) (*entity.DbUser, error)
	ListUsers(ctx context.Context) ([]entity.DbUser, error)
	UpdateUserRole(ctx context.Context, externalID string, role string) error

	// Articles
	CreateArticle(ctx context.Context, article *entity.DbArticle) error
	GetArticleByID(ctx context.Context, id uint) (*entity.DbArticle, error)
	GetArticleBySlug(ctx context.Context, slug string) (*entity.DbArticle, error)
	UpdateArticle(ctx context.Context, id uint, updates entity.ArticleUpdates) error
	DeleteArticle(ctx context.Context, id uint) error
	ListArticles(ctx context.Context, publishedOnly bool) ([]entity.DbArticle, error)
}
