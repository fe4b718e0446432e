package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8090"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Console ConsoleConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Mongo   MongoConfig
}

type ConsoleConfig struct {
	Secret   string        `env:"CONSOLE_SECRET, required"`
	TokenTTL time.Duration `env:"CONSOLE_TOKEN_TTL, default=12h"`
}

type APIConfig struct {
	BaseURL string `env:"PLM_API_BASE_URL, default=http://localhost:8080/api"`
}

type SessionConfig struct {
	Backend   string        `env:"SESSION_BACKEND,   default=memory"`
	Namespace string        `env:"SESSION_NAMESPACE, default=default"`
	TTL       time.Duration `env:"SESSION_TTL,       default=12h"`
	SealKey   string        `env:"SESSION_SEAL_KEY"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// MongoConfig configures the advance audit trail. An empty URI disables it.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=plm_console"`
}

// Load reads an optional .env file, then configuration from environment
// variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Pretty reports whether logs should be human-readable.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", SessionBackendMemory, SessionBackendRedis, c.Session.Backend)
	}
	if c.Console.TokenTTL <= 0 {
		return fmt.Errorf("CONSOLE_TOKEN_TTL must be positive")
	}
	return nil
}
