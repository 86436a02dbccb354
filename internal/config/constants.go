package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort = 8080
	defaultEnv  = "development"

	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "quiz_core"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"

	defaultRedisHost = "localhost"
	defaultRedisPort = 6379
	defaultRedisDB   = 0

	defaultAccessTokenTTL    = 24 * time.Hour
	defaultSessionTokenTTL   = 7 * 24 * time.Hour
	defaultRefreshCookieName = "quiz_refresh_token"

	defaultAuthCapacity    = 5
	defaultGeneralCapacity = 100
	defaultRefillPeriod    = time.Minute

	defaultAdminEmail    = "admin@quiz.local"
	defaultAdminUsername = "admin"
)

// DefaultBypassPrefixes skip rate limiting and the authentication gate
// entirely. Credential-issuance paths are not listed here: they stay behind
// the stricter auth rate-limit category.
var DefaultBypassPrefixes = []string{
	"/swagger-ui",
	"/api-docs",
	"/healthz",
}
