package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"seeker/internal/entity"

	"github.com/gin-gonic/gin"
)

// ListPublicArticles returns published articles, newest first. No auth.
func (h *HTTPHandler) ListPublicArticles(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "article repository not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	articles, err := h.articles.ListPublished(ctx)
	if err != nil {
		respondServiceError(c, err, "failed to list published articles")
		return
	}

	c.JSON(http.StatusOK, entity.ArticleListResponse{Articles: articles})
}

// GetPublicArticle fetches one published article by slug. A draft and a
// missing slug both return 404.
func (h *HTTPHandler) GetPublicArticle(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "article repository not available")
		return
	}

	slug := strings.TrimSpace(c.Param("slug"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	article, err := h.articles.GetPublishedBySlug(ctx, slug)
	if err != nil {
		respondServiceError(c, err, "failed to load article by slug")
		return
	}

	c.JSON(http.StatusOK, article)
}

// ListAdminArticles returns all articles, drafts included, newest first.
func (h *HTTPHandler) ListAdminArticles(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "article repository not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	articles, err := h.articles.ListAll(ctx)
	if err != nil {
		respondServiceError(c, err, "failed to list articles")
		return
	}

	c.JSON(http.StatusOK, entity.ArticleListResponse{Articles: articles})
}

// GetAdminArticle fetches one article by id regardless of state.
func (h *HTTPHandler) GetAdminArticle(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "article repository not available")
		return
	}

	id, ok := articleID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	article, err := h.articles.GetByID(ctx, id)
	if err != nil {
		respondServiceError(c, err, "failed to load article")
		return
	}

	c.JSON(http.StatusOK, article)
}

// CreateArticle creates an article in the caller-chosen state. When the
// payload carries no author display name, the caller's name is used.
func (h *HTTPHandler) CreateArticle(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "article repository not available")
		return
	}

	var req entity.ArticleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if strings.TrimSpace(req.Author) == "" {
		if user := CurrentUser(c); user != nil {
			req.Author = user.DisplayName
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	article, err := h.articles.Create(ctx, req)
	if err != nil {
		respondServiceError(c, err, "failed to create article")
		return
	}

	c.JSON(http.StatusCreated, article)
}

// UpdateArticle applies a partial update; the slug never moves.
func (h *HTTPHandler) UpdateArticle(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "article repository not available")
		return
	}

	id, ok := articleID(c)
	if !ok {
		return
	}

	var req entity.ArticleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	article, err := h.articles.Update(ctx, id, req)
	if err != nil {
		respondServiceError(c, err, "failed to update article")
		return
	}

	c.JSON(http.StatusOK, article)
}

// DeleteArticle hard-deletes an article in any state.
func (h *HTTPHandler) DeleteArticle(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "article repository not available")
		return
	}

	id, ok := articleID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.articles.Delete(ctx, id); err != nil {
		respondServiceError(c, err, "failed to delete article")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

func articleID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation,
			"invalid article id", gin.H{"field": "id"})
		return 0, false
	}
	return uint(id), true
}
