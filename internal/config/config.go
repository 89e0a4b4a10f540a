package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mirrorbox/mirrorbox/internal/utils"
)

const (
	DefaultRegion      = "us-east-1"
	DefaultExtension   = ".pdf"
	DefaultConcurrency = 4
	DefaultRetryLimit  = 3
	DefaultDebounce    = 500 * time.Millisecond
)

type Config struct {
	// Local side
	RootDir   string
	Extension string

	// Remote side
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string

	// Sync tuning
	Concurrency int
	RetryLimit  int
	Debounce    time.Duration
}

// Validate checks required fields, applies defaults and normalizes paths.
func (c *Config) Validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("root dir is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	rootDir, err := utils.ResolvePath(c.RootDir)
	if err != nil {
		return fmt.Errorf("root dir %q: %w", c.RootDir, err)
	}
	c.RootDir = rootDir

	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	c.Extension = strings.ToLower(c.Extension)

	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.RetryLimit <= 0 {
		c.RetryLimit = DefaultRetryLimit
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}

	return nil
}
