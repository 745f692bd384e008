package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port string `env:"PORT,default=8080"`
	Env  string `env:"ENV,default=production"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`

	StoreDriver     string        `env:"STORE_DRIVER,default=mongo"`
	MongoURI        string        `env:"MONGODB_URI"`
	MongoDatabase   string        `env:"MONGODB_DATABASE,default=fintrack"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT,default=5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTPublicKey string        `env:"JWT_PUBLIC_KEY"`
	JWTIssuer    string        `env:"JWT_ISSUER"`
	JWTLeeway    time.Duration `env:"JWT_LEEWAY,default=30s"`

	CORSOrigin string `env:"CORS_ORIGIN,default=*"`
}

// Load reads the process environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// LoadStore reads the process environment and checks only the store settings.
// Tools that never serve requests, like migrate, use it.
func LoadStore(ctx context.Context) (*Config, error) {
	c, err := process(ctx, envconfig.OsLookuper())
	if err != nil {
		return nil, err
	}
	if err := errors.Join(c.storeErrors()...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// LoadFrom reads configuration from m instead of the environment.
func LoadFrom(ctx context.Context, m map[string]string) (*Config, error) {
	return load(ctx, envconfig.MapLookuper(m))
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	c, err := process(ctx, l)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var c Config
	if err := envconfig.ProcessWith(ctx, &c, l); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	return &c, nil
}

func (c *Config) Validate() error {
	errs := c.storeErrors()

	if c.JWTSecret == "" && strings.TrimSpace(c.JWTPublicKey) == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PUBLIC_KEY must be set"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c *Config) storeErrors() []error {
	var errs []error
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is not set"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is not set"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	return errs
}

func (c *Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev")
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
