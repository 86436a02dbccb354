package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/kiennt169/quiz-core-go/internal/pkg/redis"
	"gorm.io/gorm"
)

// RegisterRoutes mounts liveness and readiness probes. Both paths are on
// the bypass list: they must answer even when auth or rate limiting is
// degraded.
func RegisterRoutes(r gin.IRouter, db *gorm.DB, rc *pkgredis.Client) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/healthz/ready", func(c *gin.Context) {
		checks := gin.H{}
		status := http.StatusOK

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}

		if err := rc.Ping(c.Request.Context()); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}

		c.JSON(status, gin.H{
			"status": http.StatusText(status),
			"checks": checks,
			"time":   time.Now().UTC(),
		})
	})
}
