package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type aiRequest struct {
	Content string `json:"content"`
}

// GenerateExcerpt produces a short summary of the submitted content.
func (h *HTTPHandler) GenerateExcerpt(c *gin.Context) {
	content, ok := h.aiContent(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	excerpt, err := h.enricher.GenerateExcerpt(ctx, content)
	if err != nil {
		respondServiceError(c, err, "failed to generate excerpt")
		return
	}
	c.JSON(http.StatusOK, gin.H{"excerpt": excerpt})
}

// GenerateTitle produces a headline for the submitted content.
func (h *HTTPHandler) GenerateTitle(c *gin.Context) {
	content, ok := h.aiContent(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	title, err := h.enricher.GenerateTitle(ctx, content)
	if err != nil {
		respondServiceError(c, err, "failed to generate title")
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": title})
}

// GenerateTags produces up to five tags for the submitted content.
func (h *HTTPHandler) GenerateTags(c *gin.Context) {
	content, ok := h.aiContent(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	tags, err := h.enricher.GenerateTags(ctx, content)
	if err != nil {
		respondServiceError(c, err, "failed to generate tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// aiContent validates availability and input shared by the AI endpoints.
func (h *HTTPHandler) aiContent(c *gin.Context) (string, bool) {
	if h.enricher == nil {
		ServiceUnavailable(c, "AI generation is not configured")
		return "", false
	}

	var req aiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return "", false
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation,
			"content is required", gin.H{"field": "content"})
		return "", false
	}
	return content, true
}
