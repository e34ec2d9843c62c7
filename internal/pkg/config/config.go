package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Throttle backends accepted by THROTTLE_BACKEND.
const (
	ThrottleMemory = "memory"
	ThrottleRedis  = "redis"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth     AuthConfig
	Throttle ThrottleConfig
	Redis    RedisConfig
}

type AuthConfig struct {
	AdminUsername string        `env:"ADMIN_USERNAME, default=admin"`
	BcryptCost    int           `env:"BCRYPT_COST,    default=12"`
	SessionTTL    time.Duration `env:"SESSION_TTL,    default=0s"`
}

type ThrottleConfig struct {
	Backend     string        `env:"THROTTLE_BACKEND,     default=memory"`
	MaxFailures int           `env:"LOGIN_MAX_FAILURES,   default=0"`
	Window      time.Duration `env:"LOGIN_FAILURE_WINDOW, default=15m"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Production reports whether the service runs with ENV=production.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// ThrottleEnabled reports whether failed logins are counted at all.
func (c *Config) ThrottleEnabled() bool {
	return c.Throttle.MaxFailures > 0
}

// LoadWith reads configuration through lookuper (envconfig.OsLookuper for the
// process environment) and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Throttle.Backend {
	case ThrottleMemory, ThrottleRedis:
	default:
		return fmt.Errorf("THROTTLE_BACKEND: unknown backend %q", c.Throttle.Backend)
	}
	if c.Throttle.MaxFailures < 0 {
		return fmt.Errorf("LOGIN_MAX_FAILURES: must not be negative, got %d", c.Throttle.MaxFailures)
	}
	if c.ThrottleEnabled() && c.Throttle.Window <= 0 {
		return fmt.Errorf("LOGIN_FAILURE_WINDOW: must be positive when throttling is enabled")
	}
	if c.Auth.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL: must not be negative, got %s", c.Auth.SessionTTL)
	}
	return nil
}
