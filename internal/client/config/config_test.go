package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, 2, cfg.ParallelUploads)
	assert.Equal(t, int64(1), cfg.MinFileSize)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
}

func TestParseJson_OverlaysSetFieldsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_url": "http://example.com/files",
		"limit": 3,
		"timeout_seconds": 30
	}`), 0o660))

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, path)

	assert.Equal(t, "http://example.com/files", cfg.ServerURL)
	assert.Equal(t, 3, cfg.Limit)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	// Untouched fields keep their defaults.
	assert.Equal(t, 2, cfg.ParallelUploads)
}

func TestParseJson_MissingFilePanics(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Panics(t, func() {
		parseJson(cfg, filepath.Join(t.TempDir(), "nope.json"))
	})
}

func TestParseEnv(t *testing.T) {
	t.Setenv("FILEDROP_SERVER_URL", "http://env.example")
	t.Setenv("FILEDROP_PARALLEL_UPLOADS", "7")
	t.Setenv("FILEDROP_MAX_FILE_SIZE", "2048")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://env.example", cfg.ServerURL)
	assert.Equal(t, 7, cfg.ParallelUploads)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
}
