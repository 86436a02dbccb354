package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kiennt169/quiz-core-go/internal/middleware"
	"github.com/kiennt169/quiz-core-go/internal/models"
	"github.com/kiennt169/quiz-core-go/internal/modules/auth"
	"github.com/kiennt169/quiz-core-go/internal/pkg/jwt"
	sessionpkg "github.com/kiennt169/quiz-core-go/internal/pkg/session"
)

const testCookieName = "quiz_refresh_token"

func newAuthRouter(t *testing.T) (*gin.Engine, *stubUsers, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.SetSecret("test-secret")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := newStubUsers()
	svc := auth.NewService(users, sessionpkg.NewStore(rdb), time.Hour, 7*24*time.Hour)

	r := gin.New()
	r.Use(middleware.Authenticate(zap.NewNop(), nil))
	api := r.Group("/api/v1")
	auth.NewHandler(svc, testCookieName, false).RegisterRoutes(api)
	return r, users, mr
}

func postJSON(r *gin.Engine, path, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mutate {
		m(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == testCookieName {
			return ck
		}
	}
	return nil
}

func TestLoginHandler_SetsRefreshCookie(t *testing.T) {
	r, users, _ := newAuthRouter(t)
	users.add("user-1", "alice@example.com", "s3cret-pass", models.RoleUser)

	w := postJSON(r, "/api/v1/auth/login", `{"email":"alice@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
	assert.Contains(t, w.Body.String(), `"refresh_token"`)

	ck := refreshCookie(t, w)
	require.NotNil(t, ck)
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, "/api/v1/auth", ck.Path)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, int(7*24*time.Hour/time.Second), ck.MaxAge)
}

func TestLoginHandler_BadCredential(t *testing.T) {
	r, users, _ := newAuthRouter(t)
	users.add("user-1", "alice@example.com", "s3cret-pass")

	w := postJSON(r, "/api/v1/auth/login", `{"email":"alice@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "CREDENTIAL_INVALID")
	assert.Nil(t, refreshCookie(t, w))
}

func TestLoginHandler_Validation(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	w := postJSON(r, "/api/v1/auth/login", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")
}

func TestRegisterHandler(t *testing.T) {
	r, _, _ := newAuthRouter(t)
	body := `{"email":"bob@example.com","username":"bob","password":"s3cret-pass","confirm_password":"s3cret-pass","first_name":"Bob","last_name":"Builder"}`

	w := postJSON(r, "/api/v1/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotNil(t, refreshCookie(t, w))

	// Same email again conflicts.
	w = postJSON(r, "/api/v1/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}

func TestRefreshHandler_FromCookie(t *testing.T) {
	r, users, _ := newAuthRouter(t)
	users.add("user-1", "alice@example.com", "s3cret-pass", models.RoleUser)

	login := postJSON(r, "/api/v1/auth/login", `{"email":"alice@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, login.Code)
	ck := refreshCookie(t, login)
	require.NotNil(t, ck)

	w := postJSON(r, "/api/v1/auth/refresh", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: ck.Value})
	})
	require.Equal(t, http.StatusOK, w.Code)

	rotated := refreshCookie(t, w)
	require.NotNil(t, rotated)
	assert.NotEqual(t, ck.Value, rotated.Value)

	// The consumed cookie no longer refreshes.
	w = postJSON(r, "/api/v1/auth/refresh", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: ck.Value})
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_INVALID")
}

func TestRefreshHandler_FromBody(t *testing.T) {
	r, users, _ := newAuthRouter(t)
	users.add("user-1", "alice@example.com", "s3cret-pass", models.RoleUser)

	login := postJSON(r, "/api/v1/auth/login", `{"email":"alice@example.com","password":"s3cret-pass"}`)
	ck := refreshCookie(t, login)
	require.NotNil(t, ck)

	w := postJSON(r, "/api/v1/auth/refresh", `{"refresh_token":"`+ck.Value+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshHandler_NoToken(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	w := postJSON(r, "/api/v1/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_INVALID")
}

func TestRefreshHandler_StoreDown(t *testing.T) {
	r, users, mr := newAuthRouter(t)
	users.add("user-1", "alice@example.com", "s3cret-pass", models.RoleUser)

	login := postJSON(r, "/api/v1/auth/login", `{"email":"alice@example.com","password":"s3cret-pass"}`)
	ck := refreshCookie(t, login)
	require.NotNil(t, ck)

	mr.Close()
	w := postJSON(r, "/api/v1/auth/refresh", `{"refresh_token":"`+ck.Value+`"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORE_UNAVAILABLE")
}

func TestLogoutHandler(t *testing.T) {
	r, users, _ := newAuthRouter(t)
	users.add("user-1", "alice@example.com", "s3cret-pass", models.RoleUser)

	login := postJSON(r, "/api/v1/auth/login", `{"email":"alice@example.com","password":"s3cret-pass"}`)
	ck := refreshCookie(t, login)
	require.NotNil(t, ck)
	access, err := jwt.Sign("user-1", "alice@example.com", []string{models.RoleUser}, time.Hour)
	require.NoError(t, err)

	// Logout is a protected route.
	w := postJSON(r, "/api/v1/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/v1/auth/logout", "", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access)
	})
	require.Equal(t, http.StatusOK, w.Code)

	cleared := refreshCookie(t, w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// The old session token is gone.
	w = postJSON(r, "/api/v1/auth/refresh", `{"refresh_token":"`+ck.Value+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
