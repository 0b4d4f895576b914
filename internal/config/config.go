package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DatabaseOptions struct {
	URL            string `env:"DATABASE_URL"`
	Host           string `env:"DB_HOST" envDefault:"localhost"`
	Port           int    `env:"DB_PORT" envDefault:"5432"`
	User           string `env:"DB_USER" envDefault:"postgres"`
	Password       string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name           string `env:"DB_NAME" envDefault:"lambda"`
	SSLMode        string `env:"DB_SSLMODE" envDefault:"disable"`
	ConnectRetries int    `env:"DB_CONNECT_RETRIES" envDefault:"10"`
	AutoMigrate    bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

// DSN prefers DATABASE_URL and otherwise assembles a lib/pq keyword string.
func (d DatabaseOptions) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type AuthOptions struct {
	Secret              string        `env:"JWT_SECRET"`
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"192h"`
	RefreshTokenTTL     time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	RefreshCookieSecure bool          `env:"REFRESH_COOKIE_SECURE" envDefault:"false"`
}

type DefaultUserOptions struct {
	UserName  string `env:"DEFAULT_USER_NAME" envDefault:"admin"`
	Email     string `env:"DEFAULT_USER_EMAIL" envDefault:"admin@example.com"`
	Password  string `env:"DEFAULT_USER_PASSWORD" envDefault:"changeme"`
	FirstName string `env:"DEFAULT_USER_FIRST_NAME" envDefault:"Default"`
	LastName  string `env:"DEFAULT_USER_LAST_NAME" envDefault:"Admin"`
}

type RateLimitOptions struct {
	RedisURL    string        `env:"REDIS_URL"`
	LoginLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
}

type MetricsOptions struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

type LogOptions struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Config is built once at startup and is read-only afterwards.
type Config struct {
	Port        int      `env:"PORT" envDefault:"8000"`
	APIPrefix   string   `env:"API_PREFIX" envDefault:"/api/v1"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	Database    DatabaseOptions
	Auth        AuthOptions
	DefaultUser DefaultUserOptions
	RateLimit   RateLimitOptions
	Metrics     MetricsOptions
	Log         LogOptions
}

// Load reads .env files when present, then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.RateLimit.LoginLimit < 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be non-negative")
	}
	if c.RateLimit.RedisURL != "" && c.RateLimit.LoginWindow <= 0 {
		return fmt.Errorf("LOGIN_RATE_WINDOW must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
