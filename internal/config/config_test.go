package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dsmirnov/docshare/internal/timex"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "docshare", cfg.S3Bucket)
	require.Equal(t, "docshare.db", cfg.DatabasePath)
	require.EqualValues(t, 5*1024*1024, cfg.SingleFileSizeLimit)
	require.EqualValues(t, 5*1024*1024, cfg.PartSize)
	require.Equal(t, 1, cfg.UploadConcurrency)
	require.Equal(t, time.Second, cfg.RetryDelay)
}

func TestParseJson_OverlaysOnlySetFields(t *testing.T) {
	jc := JsonConfig{
		Username:   "alice",
		PartSize:   1024,
		RetryDelay: timex.Duration{Duration: 3 * time.Second},
	}
	data, err := json.Marshal(jc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	oldArgs := os.Args
	os.Args = []string{"docshare", "-c", path}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, "alice", cfg.Username)
	require.EqualValues(t, 1024, cfg.PartSize)
	require.Equal(t, 3*time.Second, cfg.RetryDelay)
	// untouched by the file
	require.Equal(t, "docshare", cfg.S3Bucket)
	require.Equal(t, 1, cfg.UploadConcurrency)
}
