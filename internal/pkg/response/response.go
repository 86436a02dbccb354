package response

import (
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Stable machine-readable error codes. Clients key on these; messages are
// presentation only and may be localized.
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeCredentialInvalid = "CREDENTIAL_INVALID"
	CodeSessionInvalid    = "SESSION_INVALID"
	CodeAuthRequired      = "AUTH_REQUIRED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
	CodeInternal          = "INTERNAL"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

type pagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"ok":      0,
		"code":    status,
		"error":   code,
		"message": message,
	})
}

// OK sends a 200 response. Arrays/slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{Data: data, Pagination: pagination})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, CodeValidationFailed, message)
}

// Unauthorized sends the single generic 401. The reason a token failed is
// logged, never surfaced, so the response can't be used as an oracle.
func Unauthorized(c *gin.Context) {
	fail(c, http.StatusUnauthorized, CodeAuthRequired, "authentication required")
}

// CredentialInvalid sends a 401 for a failed login.
func CredentialInvalid(c *gin.Context) {
	fail(c, http.StatusUnauthorized, CodeCredentialInvalid, "invalid email or password")
}

// SessionInvalid sends a 401 for a refresh with a dead session token.
func SessionInvalid(c *gin.Context) {
	fail(c, http.StatusUnauthorized, CodeSessionInvalid, "session is invalid or expired")
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context) {
	fail(c, http.StatusForbidden, CodeForbidden, "insufficient permissions")
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, CodeNotFound, "resource not found")
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	fail(c, http.StatusNotFound, CodeNotFound, message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	fail(c, http.StatusConflict, CodeConflict, message)
}

// TooManyRequests sends a 429 with the category's refill period as hint.
func TooManyRequests(c *gin.Context, retryAfterSeconds int64) {
	c.Header("Retry-After", strconv.FormatInt(retryAfterSeconds, 10))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"ok":                  0,
		"code":                http.StatusTooManyRequests,
		"error":               CodeRateLimitExceeded,
		"message":             "too many requests, please try again later",
		"retry_after_seconds": retryAfterSeconds,
	})
}

// ServiceUnavailable sends a 503 for a transient backing-store failure.
func ServiceUnavailable(c *gin.Context) {
	fail(c, http.StatusServiceUnavailable, CodeStoreUnavailable, "temporarily unavailable, please retry")
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, err error) {
	fail(c, http.StatusInternalServerError, CodeInternal, err.Error())
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	fail(c, http.StatusMethodNotAllowed, CodeValidationFailed, "method not allowed")
}
