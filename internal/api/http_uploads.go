package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"seeker/internal/storage"
	"seeker/internal/utils"

	"github.com/gin-gonic/gin"
)

// uploadSizeLimit caps decoded cover images at 10 MiB.
const uploadSizeLimit = 10 << 20

type uploadRequest struct {
	// Image is a data URL or bare base64 payload.
	Image string `json:"image"`
}

// UploadImage stores an article cover image and returns its public URL.
func (h *HTTPHandler) UploadImage(c *gin.Context) {
	if h.storage == nil {
		ServiceUnavailable(c, "storage not available")
		return
	}

	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	data, ext, err := utils.DecodeMediaPayload(req.Image)
	if err != nil {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation,
			"invalid image payload", gin.H{"field": "image"})
		return
	}
	if len(data) > uploadSizeLimit {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation,
			"image exceeds size limit", gin.H{"field": "image"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	key, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  "covers",
		Extension: ext,
	})
	if err != nil {
		respondServiceError(c, err, "failed to store image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": h.publicURL(key)})
}

func (h *HTTPHandler) publicURL(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	base := h.storagePublicBase
	if base == "" {
		base = "/files"
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), strings.TrimLeft(trimmed, "/"))
}
