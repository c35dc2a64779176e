package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"seeker/internal/entity"

	"github.com/gin-gonic/gin"
)

// EstablishSession exchanges an external identity assertion for a session
// cookie. The assertion arrives as a bearer header or in the JSON body.
func (h *HTTPHandler) EstablishSession(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	assertion := bearerAssertion(c)
	if assertion == "" {
		var req entity.SessionRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			assertion = strings.TrimSpace(req.Assertion)
		}
	}
	if assertion == "" {
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidAssertion, "missing identity assertion")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	token, expiresAt, user, err := h.bridge.EstablishSession(ctx, assertion)
	if err != nil {
		respondServiceError(c, err, "failed to establish session")
		return
	}

	h.setSessionCookie(c, token, int(time.Until(expiresAt).Seconds()))
	c.JSON(http.StatusOK, entity.SessionResponse{
		ExpiresAt: expiresAt,
		User:      makeUserSummary(user),
	})
}

// Logout clears the session cookie. There is no revocation list; the
// credential itself stays valid until it expires.
func (h *HTTPHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the caller's identity as resolved from the session
// credential, without touching the store.
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthenticated(c, "authentication required")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"external_id":  user.ExternalID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"role":         user.Role,
	})
}

func bearerAssertion(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func makeUserSummary(user *entity.DbUser) entity.UserSummary {
	if user == nil {
		return entity.UserSummary{}
	}
	return entity.UserSummary{
		ID:          user.ID,
		ExternalID:  user.ExternalID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
}
