package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"seeker/internal/entity"
	"seeker/internal/model"

	"gorm.io/gorm"
)

// slugRetries bounds how many random-token retries a slug conflict gets
// before the conflict is treated as an internal failure.
const slugRetries = 3

// ArticleLifecycle implements the Draft/Published state machine. Role
// checks happen at the HTTP boundary; everything here assumes a canPost
// caller except the public read operations, which take no actor at all.
type ArticleLifecycle struct {
	repo model.Repository
	now  func() time.Time
}

// NewArticleLifecycle creates the article lifecycle service.
func NewArticleLifecycle(repo model.Repository) *ArticleLifecycle {
	return &ArticleLifecycle{repo: repo, now: time.Now}
}

// Create validates the input, derives a unique slug from the title, and
// persists the article in the caller-chosen initial state.
func (l *ArticleLifecycle) Create(ctx context.Context, in entity.ArticleCreateRequest) (*entity.DbArticle, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalidField("title", "must not be empty")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, invalidField("content", "must not be empty")
	}

	base := Slugify(title)
	if base == "" {
		return nil, invalidField("title", "must contain at least one letter or digit")
	}

	category := strings.TrimSpace(in.Category)
	if category != "" && !entity.IsValidCategory(category) {
		return nil, invalidField("category", "unknown category")
	}

	article := &entity.DbArticle{
		Title:     title,
		Content:   in.Content,
		Excerpt:   strings.TrimSpace(in.Excerpt),
		ImageURL:  strings.TrimSpace(in.ImageURL),
		Author:    strings.TrimSpace(in.Author),
		Category:  category,
		Published: in.Published,
	}

	// Timestamp token first, random tokens on conflict. The unique index on
	// slug is what actually guarantees uniqueness.
	token := slugToken(l.now())
	for attempt := 0; ; attempt++ {
		article.Slug = base + "-" + token
		err := l.repo.CreateArticle(ctx, article)
		if err == nil {
			return article, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt >= slugRetries {
			return nil, err
		}
		token = randomToken(8)
	}
}

// Update applies a partial update. The slug never changes, so title edits
// do not move the public URL.
func (l *ArticleLifecycle) Update(ctx context.Context, id uint, in entity.ArticleUpdateRequest) (*entity.DbArticle, error) {
	if _, err := l.repo.GetArticleByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, invalidField("title", "must not be empty")
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return nil, invalidField("content", "must not be empty")
	}
	if in.Category != nil && *in.Category != "" && !entity.IsValidCategory(*in.Category) {
		return nil, invalidField("category", "unknown category")
	}

	updates := entity.ArticleUpdates{
		Title:     in.Title,
		Content:   in.Content,
		Excerpt:   in.Excerpt,
		ImageURL:  in.ImageURL,
		Author:    in.Author,
		Category:  in.Category,
		Published: in.Published,
	}

	if err := l.repo.UpdateArticle(ctx, id, updates); err != nil {
		return nil, err
	}

	updated, err := l.repo.GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete hard-deletes an article in any state.
func (l *ArticleLifecycle) Delete(ctx context.Context, id uint) error {
	if err := l.repo.DeleteArticle(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// GetByID returns an article regardless of state, for the admin surface.
func (l *ArticleLifecycle) GetByID(ctx context.Context, id uint) (*entity.DbArticle, error) {
	article, err := l.repo.GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return article, nil
}

// ListAll returns every article, drafts included, newest first.
func (l *ArticleLifecycle) ListAll(ctx context.Context) ([]entity.DbArticle, error) {
	return l.repo.ListArticles(ctx, false)
}

// ListPublished returns published articles newest first.
func (l *ArticleLifecycle) ListPublished(ctx context.Context) ([]entity.DbArticle, error) {
	return l.repo.ListArticles(ctx, true)
}

// GetPublishedBySlug fetches one published article. A draft and a missing
// slug are both reported as ErrNotFound so the public surface cannot leak
// draft existence.
func (l *ArticleLifecycle) GetPublishedBySlug(ctx context.Context, slug string) (*entity.DbArticle, error) {
	article, err := l.repo.GetArticleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !article.Published {
		return nil, ErrNotFound
	}
	return article, nil
}
