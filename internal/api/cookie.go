package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie carrying the signed session
// credential.
const SessionCookie = "session"

func (h *HTTPHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookie,
		token,
		maxAge,
		"/",
		"",
		h.secureCookies,
		true, // httpOnly, always
	)
}

func (h *HTTPHandler) clearSessionCookie(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
}

func sessionCookieValue(c *gin.Context) string {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return token
}
