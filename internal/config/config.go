package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at path, applies environment overrides and
// fills defaults. A missing file is not an error: env + defaults then apply.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	normalize(cfg)

	if cfg.Security.JWTSecret == "" {
		return nil, fmt.Errorf("security.jwt_secret is required (or QUIZ_JWT_SECRET)")
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := envString("QUIZ_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := envString("QUIZ_ENV"); v != "" {
		cfg.Env = v
	}
	if v := envString("QUIZ_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := envString("QUIZ_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := envString("QUIZ_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := envString("QUIZ_REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := envString("QUIZ_JWT_SECRET"); v != "" {
		cfg.Security.JWTSecret = v
	}
	if v := envString("QUIZ_ADMIN_PASSWORD"); v != "" {
		cfg.AdminSeed.Password = v
	}
}

func envString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func normalize(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}

	cfg.Database = normalizeDatabase(cfg.Database)
	cfg.Redis = normalizeRedis(cfg.Redis)
	cfg.Security = normalizeSecurity(cfg.Security)
	cfg.RateLimit.Auth = normalizeCategory(cfg.RateLimit.Auth, defaultAuthCapacity)
	cfg.RateLimit.General = normalizeCategory(cfg.RateLimit.General, defaultGeneralCapacity)

	if len(cfg.BypassPrefixes) == 0 {
		cfg.BypassPrefixes = append([]string(nil), DefaultBypassPrefixes...)
	}
	if cfg.AdminSeed.Email == "" {
		cfg.AdminSeed.Email = defaultAdminEmail
	}
	if cfg.AdminSeed.Username == "" {
		cfg.AdminSeed.Username = defaultAdminUsername
	}
}

func normalizeDatabase(db DatabaseRuntimeConfig) DatabaseRuntimeConfig {
	db.DSN = strings.TrimSpace(db.DSN)
	db.Host = strings.TrimSpace(db.Host)
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Password == "" {
		db.Password = defaultDBPassword
	}
	if db.Name == "" {
		db.Name = defaultDBName
	}
	if db.Charset == "" {
		db.Charset = defaultDBCharset
	}
	if db.Loc == "" {
		db.Loc = defaultDBLoc
	}
	return db
}

func normalizeRedis(r RedisRuntimeConfig) RedisRuntimeConfig {
	r.URL = strings.TrimSpace(r.URL)
	if r.Host == "" {
		r.Host = defaultRedisHost
	}
	if r.Port == 0 {
		r.Port = defaultRedisPort
	}
	return r
}

func normalizeSecurity(s SecurityConfig) SecurityConfig {
	s.JWTSecret = strings.TrimSpace(s.JWTSecret)
	if s.AccessTokenTTL <= 0 {
		s.AccessTokenTTL = Duration(defaultAccessTokenTTL)
	}
	if s.SessionTokenTTL <= 0 {
		s.SessionTokenTTL = Duration(defaultSessionTokenTTL)
	}
	if s.RefreshCookieName == "" {
		s.RefreshCookieName = defaultRefreshCookieName
	}
	return s
}

func normalizeCategory(c RateLimitCategory, capacity int) RateLimitCategory {
	if c.Capacity <= 0 {
		c.Capacity = capacity
	}
	if c.RefillTokens <= 0 {
		c.RefillTokens = c.Capacity
	}
	if c.RefillPeriod <= 0 {
		c.RefillPeriod = Duration(defaultRefillPeriod)
	}
	return c
}
