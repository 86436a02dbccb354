package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiennt169/quiz-core-go/internal/middleware"
	"github.com/kiennt169/quiz-core-go/internal/pkg/response"
	sessionpkg "github.com/kiennt169/quiz-core-go/internal/pkg/session"
)

const refreshCookiePath = "/api/v1/auth"

type Handler struct {
	svc          *Service
	cookieName   string
	cookieSecure bool
}

func NewHandler(svc *Service, cookieName string, cookieSecure bool) *Handler {
	return &Handler{svc: svc, cookieName: cookieName, cookieSecure: cookieSecure}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	a := rg.Group("/auth")

	a.POST("/login", h.login)
	a.POST("/register", h.register)
	a.POST("/refresh", h.refresh)
	a.POST("/logout", middleware.RequireAuth(), h.logout)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, pair, err := h.svc.Login(c.Request.Context(), dto.Email, dto.Password, middleware.ClientIdentity(c))
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, pair)
	response.OK(c, authResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.SessionToken,
		User:         u,
		Roles:        u.Roles,
	})
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, pair, err := h.svc.Register(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Conflict(c, "email already registered")
			return
		}
		if errors.Is(err, ErrCredentialInvalid) {
			response.BadRequest(c, "password confirmation does not match")
			return
		}
		h.writeAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, pair)
	response.Created(c, authResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.SessionToken,
		User:         u,
		Roles:        u.Roles,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	token := h.refreshTokenFromRequest(c)

	u, pair, err := h.svc.Refresh(c.Request.Context(), token)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, pair)
	response.OK(c, authResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.SessionToken,
		User:         u,
		Roles:        u.Roles,
	})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.CurrentEmail(c)); err != nil {
		h.writeAuthError(c, err)
		return
	}
	h.clearRefreshCookie(c)
	response.OK(c, gin.H{"success": true})
}

// refreshTokenFromRequest prefers the HTTP-only cookie; a JSON body keeps
// non-browser clients working.
func (h *Handler) refreshTokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
		return token
	}
	var dto RefreshDTO
	if err := c.ShouldBindJSON(&dto); err == nil {
		return dto.RefreshToken
	}
	return ""
}

func (h *Handler) setRefreshCookie(c *gin.Context, pair *TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookieName, pair.SessionToken, pair.SessionTokenMaxAge,
		refreshCookiePath, "", h.cookieSecure, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookieName, "", -1, refreshCookiePath, "", h.cookieSecure, true)
}

// writeAuthError maps lifecycle errors onto the response taxonomy. Store
// outages stay 503; they are never downgraded to a credential failure.
func (h *Handler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCredentialInvalid):
		response.CredentialInvalid(c)
	case errors.Is(err, ErrInvalidSession):
		response.SessionInvalid(c)
	case errors.Is(err, sessionpkg.ErrStoreUnavailable):
		response.ServiceUnavailable(c)
	default:
		response.InternalError(c, err)
	}
}
