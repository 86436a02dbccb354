package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kiennt169/quiz-core-go/internal/middleware"
	"github.com/kiennt169/quiz-core-go/internal/pkg/jwt"
)

func newGateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.SetSecret("test-secret")

	r := gin.New()
	r.Use(middleware.Authenticate(zap.NewNop(), []string{"/healthz"}))
	r.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"authenticated": middleware.IsAuthenticated(c),
			"user_id":       middleware.CurrentUserID(c),
			"email":         middleware.CurrentEmail(c),
			"roles":         middleware.CurrentRoles(c),
		})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	protected := r.Group("", middleware.RequireAuth())
	protected.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.CurrentUserID(c))
	})
	admin := r.Group("", middleware.RequireRoles("ROLE_ADMIN"))
	admin.GET("/admin", func(c *gin.Context) {
		c.String(http.StatusOK, "admin")
	})
	return r
}

func doGet(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_NoTokenIsAnonymous(t *testing.T) {
	r := newGateRouter(t)

	w := doGet(r, "/public", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestAuthenticate_ValidTokenSetsPrincipal(t *testing.T) {
	r := newGateRouter(t)
	token, err := jwt.Sign("user-1", "alice@example.com", []string{"ROLE_USER"}, time.Hour)
	require.NoError(t, err)

	w := doGet(r, "/public", token)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"authenticated":true`)
	assert.Contains(t, body, `"user_id":"user-1"`)
	assert.Contains(t, body, `"email":"alice@example.com"`)
}

func TestAuthenticate_InvalidTokenProceedsAnonymous(t *testing.T) {
	r := newGateRouter(t)

	expired, err := jwt.Sign("user-1", "alice@example.com", nil, -time.Minute)
	require.NoError(t, err)

	for _, token := range []string{expired, "garbage"} {
		w := doGet(r, "/public", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	}
}

func TestRequireAuth(t *testing.T) {
	r := newGateRouter(t)

	w := doGet(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_REQUIRED")

	token, err := jwt.Sign("user-1", "alice@example.com", []string{"ROLE_USER"}, time.Hour)
	require.NoError(t, err)
	w = doGet(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

// Expired and forged tokens must be indistinguishable from no token at all
// on protected routes.
func TestRequireAuth_NoTokenOracle(t *testing.T) {
	r := newGateRouter(t)

	expired, err := jwt.Sign("user-1", "alice@example.com", nil, -time.Minute)
	require.NoError(t, err)

	none := doGet(r, "/me", "")
	withExpired := doGet(r, "/me", expired)
	withForged := doGet(r, "/me", "forged.token.value")

	assert.Equal(t, none.Code, withExpired.Code)
	assert.Equal(t, none.Body.String(), withExpired.Body.String())
	assert.Equal(t, none.Code, withForged.Code)
	assert.Equal(t, none.Body.String(), withForged.Body.String())
}

func TestRequireRoles(t *testing.T) {
	r := newGateRouter(t)

	userToken, err := jwt.Sign("user-1", "alice@example.com", []string{"ROLE_USER"}, time.Hour)
	require.NoError(t, err)
	adminToken, err := jwt.Sign("admin-1", "admin@example.com", []string{"ROLE_ADMIN", "ROLE_USER"}, time.Hour)
	require.NoError(t, err)

	w := doGet(r, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	w = doGet(r, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_BypassSkipsExtraction(t *testing.T) {
	r := newGateRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Authorization", "Bearer total-garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestExtractBearer_SchemeRequired(t *testing.T) {
	r := newGateRouter(t)
	token, err := jwt.Sign("user-1", "alice@example.com", nil, time.Hour)
	require.NoError(t, err)

	// Raw token without the Bearer scheme is ignored.
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	// Scheme matching is case-insensitive.
	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}
