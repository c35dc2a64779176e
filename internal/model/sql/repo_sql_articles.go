package sql

import (
	"context"
	"fmt"
	"strings"

	"seeker/internal/entity"

	"gorm.io/gorm"
)

// CreateArticle persists a new article. A slug collision surfaces as
// gorm.ErrDuplicatedKey.
func (r *GormRepository) CreateArticle(ctx context.Context, article *entity.DbArticle) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if article == nil {
		return fmt.Errorf("article is nil")
	}
	return r.db.WithContext(ctx).Create(article).Error
}

// GetArticleByID loads an article by primary key regardless of state.
func (r *GormRepository) GetArticleByID(ctx context.Context, id uint) (*entity.DbArticle, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid article id")
	}
	var article entity.DbArticle
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// GetArticleBySlug loads an article by slug regardless of state. The
// published filter belongs to the service layer.
func (r *GormRepository) GetArticleBySlug(ctx context.Context, slug string) (*entity.DbArticle, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, fmt.Errorf("slug is empty")
	}
	var article entity.DbArticle
	if err := r.db.WithContext(ctx).Where("slug = ?", trimmed).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle applies a partial update by primary key.
func (r *GormRepository) UpdateArticle(ctx context.Context, id uint, updates entity.ArticleUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid article id")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return nil
	}
	// RowsAffected is not inspected here: MySQL reports zero affected rows
	// for a no-op update, which existence checks must not confuse with a
	// missing record. Callers resolve NotFound via GetArticleByID.
	return r.db.WithContext(ctx).Model(&entity.DbArticle{}).Where("id = ?", id).Updates(values).Error
}

// DeleteArticle hard-deletes an article by primary key.
func (r *GormRepository) DeleteArticle(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid article id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbArticle{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListArticles returns articles newest first, optionally restricted to
// published ones.
func (r *GormRepository) ListArticles(ctx context.Context, publishedOnly bool) ([]entity.DbArticle, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.db.WithContext(ctx).Model(&entity.DbArticle{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	var articles []entity.DbArticle
	if err := query.Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}
