package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/arencloud/eksapp/internal/version"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"APP_ENV" envDefault:"dev"`
	Host     string `env:"HOST" envDefault:"0.0.0.0"`
	Port     string `env:"PORT"` // defaults to version.DefaultPort
	Greeting string // build-time only, see version.Greeting

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"true"`

	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	S3 S3Config
}

// S3Config overrides parts of the AWS SDK default chain. All fields are
// optional; left empty the SDK resolves region and credentials itself.
type S3Config struct {
	Region         string `env:"AWS_REGION"`
	Endpoint       string `env:"S3_ENDPOINT"` // custom S3-compatible endpoint (minio, ceph, ...)
	AccessKey      string `env:"S3_ACCESS_KEY"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	UseSSL         bool   `env:"S3_USE_SSL" envDefault:"true"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// Load reads the configuration from the environment. In the dev environment a
// local .env file is applied first when present; real env vars still win.
func Load() (*Config, error) {
	if e := os.Getenv("APP_ENV"); e == "" || e == "dev" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{Port: version.DefaultPort, Greeting: version.Greeting()}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid port: %q", c.Port)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
		return errors.New("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
