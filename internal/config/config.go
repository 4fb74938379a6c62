// Package config loads runtime settings for the docshare CLI. Values
// are layered: defaults, then an optional JSON file (-c/-config), then
// command-line flags. Later sources win.
package config

import (
	"time"

	"github.com/dsmirnov/docshare/internal/common"
)

// Config holds runtime settings.
//
// SingleFileSizeLimit and PartSize are in bytes. UploadConcurrency is
// the number of parts transferred at once; 1 means sequential.
// RetryDelay spaces out the attempts to load the remote index at
// startup.
type Config struct {
	Username string

	S3Region       string
	S3BaseEndpoint string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string

	DatabasePath string

	SingleFileSizeLimit int64
	PartSize            int64
	UploadConcurrency   int

	RetryDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000"
	c.S3Bucket = "docshare"
	c.DatabasePath = "docshare.db"
	c.SingleFileSizeLimit = common.SingleFileSizeLimit
	c.PartSize = common.DefaultPartSize
	c.UploadConcurrency = 1
	c.RetryDelay = time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
