package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiennt169/quiz-core-go/internal/middleware"
	"github.com/kiennt169/quiz-core-go/internal/modules/auth"
	"github.com/kiennt169/quiz-core-go/internal/modules/health"
	"github.com/kiennt169/quiz-core-go/internal/modules/quiz"
	"github.com/kiennt169/quiz-core-go/internal/modules/user"
	"github.com/kiennt169/quiz-core-go/internal/pkg/ratelimit"
	"github.com/kiennt169/quiz-core-go/internal/pkg/response"
	sessionpkg "github.com/kiennt169/quiz-core-go/internal/pkg/session"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	// Admission first, then the gate; business handlers only ever see
	// admitted requests with a settled principal context.
	limiter := ratelimit.NewStore(a.rc.Raw())
	r.Use(middleware.RateLimit(limiter, a.cfg, a.logger))
	r.Use(middleware.Authenticate(a.logger, a.cfg.BypassPrefixes))

	health.RegisterRoutes(r, a.db, a.rc)

	api := r.Group(apiPrefix)
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})

	userSvc := user.NewService(a.db)
	sessions := sessionpkg.NewStore(a.rc.Raw())
	authSvc := auth.NewService(userSvc, sessions,
		a.cfg.Security.AccessTokenTTL.Std(),
		a.cfg.Security.SessionTokenTTL.Std())

	auth.NewHandler(authSvc, a.cfg.Security.RefreshCookieName, a.cfg.CookieSecureValue()).
		RegisterRoutes(api)
	user.NewHandler(userSvc).RegisterRoutes(api)
	quiz.NewHandler(quiz.NewService(a.db)).RegisterRoutes(api)
}
