package api

import (
	"strings"
	"time"

	"seeker/internal/auth"
	"seeker/internal/config"
	"seeker/internal/identity"
	"seeker/internal/llm"
	"seeker/internal/model"
	"seeker/internal/service"
	"seeker/internal/storage"
)

// HTTPHandler holds the wired components behind the HTTP surface.
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string
	secureCookies     bool

	sessions *auth.Manager
	bridge   *service.Bridge
	roles    *service.RoleAuthority
	articles *service.ArticleLifecycle
	enricher *llm.Enricher
}

// NewHTTPHandler wires the handler. enricher may be nil when no AI key is
// configured; the AI endpoints then report unavailable.
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage, verifier identity.Verifier, enricher *llm.Enricher) (*HTTPHandler, error) {
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	sessions, err := auth.NewManager(cfg.SessionSecret, cfg.SessionIssuer, ttl)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		secureCookies:     cfg.IsProduction(),
		sessions:          sessions,
		bridge:            service.NewBridge(verifier, repo, sessions, cfg.BootstrapAdminEmail),
		roles:             service.NewRoleAuthority(repo),
		articles:          service.NewArticleLifecycle(repo),
		enricher:          enricher,
	}, nil
}

func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}
