package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kiennt169/quiz-core-go/internal/config"
	"github.com/kiennt169/quiz-core-go/internal/pkg/ratelimit"
	"github.com/kiennt169/quiz-core-go/internal/pkg/response"
	"go.uber.org/zap"
)

// Bucket categories. Credential issuance gets a much tighter bucket than the
// rest of the API to blunt brute-force attempts.
const (
	CategoryAuth    = "auth"
	CategoryGeneral = "general"
)

// authPathPrefixes route to the auth category.
var authPathPrefixes = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/register",
}

// RateLimit admits or rejects every request before authentication runs.
// One token is consumed per request; an exhausted bucket answers 429 with a
// retry hint. A consumed token is never refunded, even if the request is
// aborted later. When the store is unreachable the request proceeds
// (fail-open): abuse control must not become an outage.
func RateLimit(store *ratelimit.Store, cfg *config.AppConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if HasPrefix(path, cfg.BypassPrefixes) {
			c.Next()
			return
		}

		category := CategoryGeneral
		catCfg := cfg.RateLimit.General
		if HasPrefix(path, authPathPrefixes) {
			category = CategoryAuth
			catCfg = cfg.RateLimit.Auth
		}
		if !catCfg.IsEnabled() {
			c.Next()
			return
		}

		limit := ratelimit.Limit{
			Capacity:     catCfg.Capacity,
			RefillTokens: catCfg.RefillTokens,
			RefillPeriod: catCfg.RefillPeriod.Std(),
		}

		res, err := store.Consume(c.Request.Context(), category, ClientIdentity(c), limit)
		if err != nil {
			log.Warn("rate limit store unreachable, admitting request",
				zap.String("path", path),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !res.Allowed {
			log.Warn("rate limit exceeded",
				zap.String("client", ClientIdentity(c)),
				zap.String("category", category),
				zap.String("path", path),
			)
			response.TooManyRequests(c, int64(res.RetryAfter.Seconds()))
			return
		}

		c.Next()
	}
}

// ClientIdentity derives the bucket key for a request: the first hop of
// X-Forwarded-For when present, else the socket peer.
func ClientIdentity(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}
