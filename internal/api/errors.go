package api

import (
	"errors"
	"net/http"

	"seeker/internal/identity"
	"seeker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeUnauthenticated    = "ERR_UNAUTHENTICATED"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"
	ErrCodeInvalidAssertion   = "ERR_INVALID_ASSERTION"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// APIError is the uniform error envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse writes an error envelope with the given status.
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails writes an error envelope carrying details.
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// BadRequest 400
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthenticated 401
func Unauthenticated(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthenticated, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError 500. The message stays opaque; context goes to the log.
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable 503
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// InvalidPayload 400 for unparsable request bodies.
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeValidation, "invalid request payload")
}

// respondServiceError maps service-layer errors onto the envelope. Unknown
// errors are logged with context and surfaced as an opaque internal error.
func respondServiceError(c *gin.Context, err error, logMessage string) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation,
			validation.Error(), gin.H{"field": validation.Field})
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, "resource not found")
	case errors.Is(err, identity.ErrInvalidAssertion):
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidAssertion, "identity assertion rejected")
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error(logMessage)
		InternalError(c, "internal error")
	}
}
