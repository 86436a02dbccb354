package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML values like "24h" or "1m" into a time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("config duration: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Security       SecurityConfig        `yaml:"security"`
	RateLimit      RateLimitConfig       `yaml:"rate_limit"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	BypassPrefixes []string              `yaml:"bypass_prefixes"`
	AdminSeed      AdminSeedConfig       `yaml:"admin_seed"`
}

type DatabaseRuntimeConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// SecurityConfig covers token issuance and the refresh cookie.
type SecurityConfig struct {
	JWTSecret         string   `yaml:"jwt_secret"`
	AccessTokenTTL    Duration `yaml:"access_token_ttl"`
	SessionTokenTTL   Duration `yaml:"session_token_ttl"`
	RefreshCookieName string   `yaml:"refresh_cookie_name"`
	CookieSecure      *bool    `yaml:"cookie_secure"`
}

// RateLimitConfig holds one bucket definition per request category.
type RateLimitConfig struct {
	Auth    RateLimitCategory `yaml:"auth"`
	General RateLimitCategory `yaml:"general"`
}

type RateLimitCategory struct {
	Enabled      *bool    `yaml:"enabled"`
	Capacity     int      `yaml:"capacity"`
	RefillTokens int      `yaml:"refill_tokens"`
	RefillPeriod Duration `yaml:"refill_period"`
}

// IsEnabled defaults to true when the flag is omitted.
func (c RateLimitCategory) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// AdminSeedConfig describes the bootstrap admin account created on an
// empty users table.
type AdminSeedConfig struct {
	Enabled  *bool  `yaml:"enabled"`
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

func (c AdminSeedConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// CookieSecureValue defaults to true outside development.
func (c *AppConfig) CookieSecureValue() bool {
	if c.Security.CookieSecure != nil {
		return *c.Security.CookieSecure
	}
	return !c.IsDev()
}
