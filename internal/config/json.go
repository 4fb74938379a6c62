package config

import (
	"encoding/json"
	"os"

	"github.com/dsmirnov/docshare/internal/flagx"
	"github.com/dsmirnov/docshare/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Parsed
// values are copied into the runtime Config.
type JsonConfig struct {
	Username            string `json:"username"`
	S3Region            string `json:"s3_region"`
	S3BaseEndpoint      string `json:"s3_base_endpoint"`
	S3Bucket            string `json:"s3_bucket"`
	S3AccessKey         string `json:"s3_access_key"`
	S3SecretKey         string `json:"s3_secret_key"`
	DatabasePath        string `json:"database_path"`
	SingleFileSizeLimit int64  `json:"single_file_size_limit"`
	PartSize            int64  `json:"part_size"`
	UploadConcurrency   int    `json:"upload_concurrency"`

	// RetryDelay accepts either a string like "3s" or integer
	// nanoseconds.
	RetryDelay timex.Duration `json:"retry_delay"`
}

// parseJson overlays cfg with values loaded from the JSON file named by
// the -c/-config flag. Missing flag means nothing is loaded. Zero-valued
// JSON fields are ignored so the file can set only what it needs.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Username != "" {
		cfg.Username = jc.Username
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SingleFileSizeLimit > 0 {
		cfg.SingleFileSizeLimit = jc.SingleFileSizeLimit
	}
	if jc.PartSize > 0 {
		cfg.PartSize = jc.PartSize
	}
	if jc.UploadConcurrency > 0 {
		cfg.UploadConcurrency = jc.UploadConcurrency
	}
	if jc.RetryDelay.Duration > 0 {
		cfg.RetryDelay = jc.RetryDelay.Duration
	}
}
