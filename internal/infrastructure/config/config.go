package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT,         default=7000"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`

	Auth    AuthConfig
	Session SessionConfig
	Reset   ResetConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	SMTP    SMTPConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_PRIVATE_KEY, required"`
	TokenTTL   time.Duration `env:"AUTH_TOKEN_TTL,  default=3h"`
	BcryptCost int           `env:"AUTH_BCRYPT_COST, default=10"`
	RolesFile  string        `env:"AUTH_ROLES_FILE"`
}

type SessionConfig struct {
	Name   string        `env:"SESSION_NAME,   default=blog_session"`
	Secret string        `env:"SESSION_SECRET"`
	TTL    time.Duration `env:"SESSION_TTL,    default=24h"`
	Secure bool          `env:"SESSION_SECURE, default=false"`
}

type ResetConfig struct {
	TokenTTL           time.Duration `env:"RESET_TOKEN_TTL,             default=1h"`
	RequestCooldown    time.Duration `env:"RESET_REQUEST_COOLDOWN,      default=1m"`
	ConcealUnknownUser bool          `env:"RESET_CONCEAL_UNKNOWN_EMAIL, default=false"`
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,           default=blog_api"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT,     default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM,     default=no-reply@localhost"`
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	// Sessions fall back to the token secret when no dedicated key is set.
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = cfg.Auth.JWTSecret
	}
	return &cfg, nil
}

// IsDevelopment reports whether human-readable console logging is wanted.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
