package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"seeker/internal/config"
	"seeker/internal/entity"
	"seeker/internal/identity"
	"seeker/internal/llm"
	"seeker/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository mirroring the GORM error contract.
type fakeRepo struct {
	mu sync.Mutex

	nextUserID    uint
	nextArticleID uint
	users         map[string]entity.DbUser
	articles      map[uint]entity.DbArticle
	slugs         map[string]uint

	clock time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[string]entity.DbUser),
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
	r.nextUserID++
	user.ID = r.nextUserID
	user.CreatedAt = r.tick()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ExternalID] = *user
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

// fakeVerifier resolves assertions from a static map. Unknown assertions
// are rejected the way the real verifier rejects a bad signature.
type fakeVerifier struct {
	identities map[string]identity.ExternalIdentity
}

func (v *fakeVerifier) Verify(ctx context.Context, assertion string) (*identity.ExternalIdentity, error) {
	ext, ok := v.identities[assertion]
	if !ok {
		return nil, fmt.Errorf("%w: unknown assertion", identity.ErrInvalidAssertion)
	}
	copied := ext
	return &copied, nil
}

// fakeStorage records saved blobs and returns deterministic keys.
type fakeStorage struct {
	mu    sync.Mutex
	saved [][]byte
}

func (s *fakeStorage) Save(ctx context.Context, data []byte, opts storage.SaveOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, data)
	return fmt.Sprintf("%s/2024/01/01/%d.%s", opts.Category, len(s.saved), opts.Extension), nil
}

// fakeGenerator answers every prompt with a canned response.
type fakeGenerator struct {
	response string
	err      error
}

func (g *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

// testEnv wires a handler and a router registering the same routes as the
// server entrypoint.
type testEnv struct {
	repo     *fakeRepo
	verifier *fakeVerifier
	storage  *fakeStorage
	handler  *HTTPHandler
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeRepo()
	verifier := &fakeVerifier{identities: map[string]identity.ExternalIdentity{
		"assertion-admin": {SubjectID: "ext-admin", Email: "root@seeker.test", DisplayName: "Root"},
		"assertion-u2":    {SubjectID: "ext-2", Email: "writer@seeker.test", DisplayName: "Writer"},
		"assertion-u3":    {SubjectID: "ext-3", Email: "reader@seeker.test", DisplayName: "Reader"},
	}}
	store := &fakeStorage{}

	cfg := config.Config{
		Environment:          "development",
		SessionSecret:        "test-session-secret",
		SessionIssuer:        "seeker-test",
		SessionTTLHours:      168,
		BootstrapAdminEmail:  "root@seeker.test",
		StoragePublicBaseURL: "/files",
	}

	enricher := llm.NewEnricher(&fakeGenerator{response: "Generated text."})

	handler, err := NewHTTPHandler(cfg, repo, store, verifier, enricher)
	if err != nil {
		t.Fatalf("create handler: %v", err)
	}

	return &testEnv{
		repo:     repo,
		verifier: verifier,
		storage:  store,
		handler:  handler,
		router:   newTestRouter(handler),
	}
}

func newTestRouter(h *HTTPHandler) *gin.Engine {
	r := gin.New()

	authGroup := r.Group("/auth")
	authGroup.POST("/session", h.EstablishSession)
	authGroup.POST("/logout", h.Logout)
	authGroup.GET("/me", h.AuthMiddleware(), h.Me)

	users := r.Group("/users")
	users.Use(h.AuthMiddleware(), h.RequireAdmin())
	users.GET("", h.ListUsers)
	users.PUT("/:externalId/approve", h.ApproveUser)

	r.GET("/articles", h.ListPublicArticles)
	r.GET("/articles/:slug", h.GetPublicArticle)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware(), h.RequireCanPost())
	admin.GET("/articles", h.ListAdminArticles)
	admin.GET("/articles/:id", h.GetAdminArticle)
	admin.POST("/articles", h.CreateArticle)
	admin.PUT("/articles/:id", h.UpdateArticle)
	admin.DELETE("/articles/:id", h.DeleteArticle)
	admin.POST("/ai/excerpt", h.GenerateExcerpt)
	admin.POST("/ai/title", h.GenerateTitle)
	admin.POST("/ai/tags", h.GenerateTags)
	admin.POST("/uploads", h.UploadImage)

	return r
}

// do performs a request and returns the recorder. body may be nil or any
// JSON-marshalable value; cookie, when non-empty, is sent as the session
// cookie.
func (e *testEnv) do(t *testing.T, method, path string, body any, cookie string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login establishes a session for the given assertion and returns the
// session cookie value.
func (e *testEnv) login(t *testing.T, assertion string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/auth/session", entity.SessionRequest{Assertion: assertion}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("establish session for %q: status %d body %s", assertion, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie && c.Value != "" {
			return c.Value
		}
	}
	t.Fatalf("no session cookie set for %q", assertion)
	return ""
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d (body %s)", status, w.Code, w.Body.String())
	}
	var apiErr APIError
	decodeBody(t, w, &apiErr)
	if apiErr.Code != code {
		t.Fatalf("expected error code %s, got %s", code, apiErr.Code)
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
