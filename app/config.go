package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/lazyacme/core/server"
	"github.com/dmitrymomot/lazyacme/integration/storage/s3"
)

var (
	ErrInvalidInterval  = errors.New("UPDATE_INTERVAL_HOURS must be positive")
	ErrInvalidThreshold = errors.New("RENEWAL_THRESHOLD_DAYS must be positive")
	ErrInvalidLogFormat = errors.New("LOG_FORMAT must be text or json")
	ErrDirRequired      = errors.New("DIR_PATH is required")
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	Server server.Config
	S3     s3.Config

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// DirPath holds config.toml, the provider files and the lego working
	// directory. A leading ~ is expanded to the home directory.
	DirPath string `env:"DIR_PATH" envDefault:"~/lazy-acme"`
	// CertsDir defaults to <DirPath>/.lego/certificates.
	CertsDir string `env:"CERTS_DIR"`

	UpdateIntervalHours  int    `env:"UPDATE_INTERVAL_HOURS" envDefault:"24"`
	RenewalThresholdDays int    `env:"RENEWAL_THRESHOLD_DAYS" envDefault:"30"`
	IssuanceTool         string `env:"ISSUANCE_TOOL" envDefault:"lego"`
}

// Resolve validates cfg and fills in derived paths.
func (c Config) Resolve() (Config, error) {
	dir, err := expandHome(strings.TrimSpace(c.DirPath))
	if err != nil {
		return c, err
	}
	if dir == "" {
		return c, ErrDirRequired
	}
	c.DirPath = dir

	if strings.TrimSpace(c.CertsDir) == "" {
		c.CertsDir = filepath.Join(dir, ".lego", "certificates")
	} else if c.CertsDir, err = expandHome(strings.TrimSpace(c.CertsDir)); err != nil {
		return c, err
	}

	if c.UpdateIntervalHours <= 0 {
		return c, fmt.Errorf("%w: %d", ErrInvalidInterval, c.UpdateIntervalHours)
	}
	if c.RenewalThresholdDays <= 0 {
		return c, fmt.Errorf("%w: %d", ErrInvalidThreshold, c.RenewalThresholdDays)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return c, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}
	return c, nil
}

// Interval is the renewal scheduler period.
func (c Config) Interval() time.Duration {
	return time.Duration(c.UpdateIntervalHours) * time.Hour
}

// Threshold is how close to expiry a certificate is renewed.
func (c Config) Threshold() time.Duration {
	return time.Duration(c.RenewalThresholdDays) * 24 * time.Hour
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
