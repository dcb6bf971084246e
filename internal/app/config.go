package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"60s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	CoABaseURL      string        `envconfig:"COA_BASE_URL" default:"http://127.0.0.1:4000"`
	VoucherBaseURL  string        `envconfig:"VOUCHER_BASE_URL" default:"http://127.0.0.1:4100"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"45s"`

	RedisAddr   string        `envconfig:"REDIS_ADDR" default:""`
	SnapshotTTL time.Duration `envconfig:"SNAPSHOT_TTL" default:"5m"`

	ReportCacheTTL  time.Duration `envconfig:"REPORT_CACHE_TTL" default:"60s"`
	ExportRateLimit int           `envconfig:"EXPORT_RATE_LIMIT" default:"10"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`
}

// LoadConfig reads configuration from LEDGER_* environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("LEDGER", &cfg); err != nil {
		return nil, err
	}
	if cfg.CoABaseURL == "" {
		return nil, errors.New("chart-of-accounts base URL must be provided")
	}
	if cfg.VoucherBaseURL == "" {
		return nil, errors.New("voucher base URL must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
