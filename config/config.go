// Package config loads app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the DSN; defaults to a local sqlite file.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSigningKey is the HS256 secret. Required.
	JWTSigningKey string `mapstructure:"JWT_SIGNING_KEY"`
	// JWTIssuer is the iss claim.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// SessionTTLHours is the session token lifetime in hours (default 168 = 7d).
	SessionTTLHours int `mapstructure:"SESSION_TTL_HOURS"`
	// ResetTTLHours is the password reset token lifetime in hours (default 1).
	ResetTTLHours int `mapstructure:"RESET_TTL_HOURS"`
	// ContextKey is where middleware stores the authenticated user.
	ContextKey string `mapstructure:"AUTH_CONTEXT_KEY"`
	// AdminEmail and AdminPassword bootstrap the first admin account via cmd/seed.
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// DBDebug enables bun query logging.
	DBDebug bool `mapstructure:"DB_DEBUG"`
	// DBDriver selects the SQL driver ("sqlite" or "postgres").
	DBDriver string `mapstructure:"DB_DRIVER"`
	// DBPingTimeout is a duration expression for the startup ping (e.g. "5s").
	DBPingTimeout string `mapstructure:"DB_PING_TIMEOUT"`
}

// Persistence is the database view of Config consumed by go-persistence-bun.
type Persistence struct {
	Debug                 bool
	Driver                string
	Server                string
	PingTimeoutExpression string
}

func (p Persistence) GetDebug() bool { return p.Debug }

func (p Persistence) GetDriver() string { return p.Driver }

func (p Persistence) GetServer() string { return p.Server }

func (p Persistence) GetOtelIdentifier() string { return "" }

func (p Persistence) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

// GetPersistence exposes the database settings as a Persistence view.
func (c *Config) GetPersistence() Persistence {
	return Persistence{
		Debug:                 c.DBDebug,
		Driver:                c.DBDriver,
		Server:                c.DatabaseURL,
		PingTimeoutExpression: c.DBPingTimeout,
	}
}

// Load reads .env (if present), then builds and validates Config from
// the environment via Viper. Missing .env is ignored (e.g. in CI); env
// vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("DATABASE_URL", "file:community.db?cache=shared&_pragma=foreign_keys(1)")
	v.SetDefault("JWT_SIGNING_KEY", "")
	v.SetDefault("JWT_ISSUER", "community-api")
	v.SetDefault("JWT_AUDIENCE", "community-clients")
	v.SetDefault("SESSION_TTL_HOURS", 168)
	v.SetDefault("RESET_TTL_HOURS", 1)
	v.SetDefault("AUTH_CONTEXT_KEY", "user")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DEBUG", false)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PING_TIMEOUT", "5s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSigningKey == "" {
		return nil, errors.New("config: JWT_SIGNING_KEY must be set")
	}

	if cfg.SessionTTLHours <= 0 {
		cfg.SessionTTLHours = 168
	}
	if cfg.ResetTTLHours <= 0 {
		cfg.ResetTTLHours = 1
	}

	return &cfg, nil
}

// The methods below satisfy the community.Config interface.

func (c *Config) GetSigningKey() string { return c.JWTSigningKey }

func (c *Config) GetSigningMethod() string { return "HS256" }

func (c *Config) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c *Config) GetTokenExpiration() int { return c.SessionTTLHours }

func (c *Config) GetResetTokenExpiration() int { return c.ResetTTLHours }

func (c *Config) GetAuthScheme() string { return "Bearer" }

func (c *Config) GetIssuer() string { return c.JWTIssuer }

func (c *Config) GetAudience() []string {
	if c.JWTAudience == "" {
		return nil
	}
	return []string{c.JWTAudience}
}
