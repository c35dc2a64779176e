package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"seeker/internal/entity"

	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository with the same error contract as the
// GORM implementation: gorm.ErrRecordNotFound for missing rows and
// gorm.ErrDuplicatedKey for unique-constraint violations on external_id,
// email, and slug.
type fakeRepo struct {
	mu sync.Mutex

	nextUserID    uint
	nextArticleID uint
	users         map[string]entity.DbUser
	emails        map[string]struct{}
	articles      map[uint]entity.DbArticle
	slugs         map[string]uint

	clock time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[string]entity.DbUser),
		emails:   make(map[string]struct{}),
		articles: make(map[uint]entity.DbArticle),
		slugs:    make(map[string]uint),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeRepo) CreateUser(ctx context.Context, user *entity.DbUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ExternalID]; exists {
		return gorm.ErrDuplicatedKey
	}
	email := strings.ToLower(user.Email)
	if _, exists := r.emails[email]; exists {
		return gorm.ErrDuplicatedKey
	}

	r.nextUserID++
	user.ID = r.nextUserID
	user.CreatedAt = r.tick()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ExternalID] = *user
	r.emails[email] = struct{}{}
	return nil
}

func (r *fakeRepo) GetUserByExternalID(ctx context.Context, externalID string) (*entity.DbUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[externalID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := user
	return &copied, nil
}

func (r *fakeRepo) ListUsers(ctx context.Context) ([]entity.DbUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]entity.DbUser, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeRepo) UpdateUserRole(ctx context.Context, externalID string, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[externalID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Role = role
	user.UpdatedAt = r.tick()
	r.users[externalID] = user
	return nil
}

func (r *fakeRepo) CreateArticle(ctx context.Context, article *entity.DbArticle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.slugs[article.Slug]; exists {
		return gorm.ErrDuplicatedKey
	}

	r.nextArticleID++
	article.ID = r.nextArticleID
	article.CreatedAt = r.tick()
	article.UpdatedAt = article.CreatedAt
	r.articles[article.ID] = *article
	r.slugs[article.Slug] = article.ID
	return nil
}

func (r *fakeRepo) GetArticleByID(ctx context.Context, id uint) (*entity.DbArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	article, ok := r.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := article
	return &copied, nil
}

func (r *fakeRepo) GetArticleBySlug(ctx context.Context, slug string) (*entity.DbArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.slugs[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	article := r.articles[id]
	return &article, nil
}

func (r *fakeRepo) UpdateArticle(ctx context.Context, id uint, updates entity.ArticleUpdates) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	article, ok := r.articles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if updates.Title != nil {
		article.Title = *updates.Title
	}
	if updates.Content != nil {
		article.Content = *updates.Content
	}
	if updates.Excerpt != nil {
		article.Excerpt = *updates.Excerpt
	}
	if updates.ImageURL != nil {
		article.ImageURL = *updates.ImageURL
	}
	if updates.Author != nil {
		article.Author = *updates.Author
	}
	if updates.Category != nil {
		article.Category = *updates.Category
	}
	if updates.Published != nil {
		article.Published = *updates.Published
	}
	article.UpdatedAt = r.tick()
	r.articles[id] = article
	return nil
}

func (r *fakeRepo) DeleteArticle(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	article, ok := r.articles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.slugs, article.Slug)
	delete(r.articles, id)
	return nil
}

func (r *fakeRepo) ListArticles(ctx context.Context, publishedOnly bool) ([]entity.DbArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles := make([]entity.DbArticle, 0, len(r.articles))
	for _, article := range r.articles {
		if publishedOnly && !article.Published {
			continue
		}
		articles = append(articles, article)
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return articles, nil
}
