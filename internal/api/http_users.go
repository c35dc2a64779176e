package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"seeker/internal/entity"

	"github.com/gin-gonic/gin"
)

// ListUsers returns the full roster in creation order. Admin only.
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.roles.ListUsers(ctx)
	if err != nil {
		respondServiceError(c, err, "failed to list users")
		return
	}

	response := entity.UserListResponse{
		Users: make([]entity.UserSummary, 0, len(users)),
	}
	for idx := range users {
		response.Users = append(response.Users, makeUserSummary(&users[idx]))
	}

	c.JSON(http.StatusOK, response)
}

// ApproveUser transitions pending → author. Approving an already-approved
// user returns the current record unchanged.
func (h *HTTPHandler) ApproveUser(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	externalID := strings.TrimSpace(c.Param("externalId"))
	if externalID == "" {
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation,
			"externalId is required", gin.H{"field": "externalId"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.roles.Approve(ctx, externalID)
	if err != nil {
		respondServiceError(c, err, "failed to approve user")
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(user))
}
