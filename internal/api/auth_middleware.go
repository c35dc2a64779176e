package api

import (
	"errors"
	"net/http"

	"seeker/internal/auth"
	"seeker/internal/entity"

	"github.com/gin-gonic/gin"
)

const currentUserContextKey = "current-user"

// RequestUser is the authenticated identity resolved from the session
// cookie. Its role was frozen when the credential was minted; an approval
// after that point is invisible until the user re-authenticates.
type RequestUser struct {
	ExternalID  string
	Email       string
	DisplayName string
	Role        string
}

// IsAdmin reports whether the user may manage the roster.
func (u *RequestUser) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.Role == entity.UserRoleAdmin
}

// CanPost reports whether the user may create, edit, publish, or delete
// articles.
func (u *RequestUser) CanPost() bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case entity.UserRoleAuthor, entity.UserRoleAdmin:
		return true
	default:
		return false
	}
}

// AuthMiddleware authenticates the session cookie. The check is purely
// local (signature + expiry) and performs no repository lookup, trading
// immediate role-update propagation for hot-path latency.
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionCookieValue(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthenticated,
				Message: "missing session cookie",
			})
			return
		}

		claims, err := h.sessions.ParseCredential(token)
		if err != nil {
			code := ErrCodeUnauthenticated
			message := "invalid session credential"
			if errors.Is(err, auth.ErrExpired) {
				code = ErrCodeSessionExpired
				message = "session expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    code,
				Message: message,
			})
			return
		}

		c.Set(currentUserContextKey, &RequestUser{
			ExternalID:  claims.ExternalID(),
			Email:       claims.Email,
			DisplayName: claims.DisplayName,
			Role:        claims.Role,
		})
		c.Next()
	}
}

// RequireCanPost guards article mutation and the full-roster article list.
func (h *HTTPHandler) RequireCanPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.CanPost() {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "author privileges required",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin guards the user management surface.
func (h *HTTPHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "admin privileges required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the request context.
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}
