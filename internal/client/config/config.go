// Package config holds the runtime settings of the upload client. Sources
// are applied in order: defaults, an optional JSON file, then environment
// variables (including a .env file). Command-line flags are owned by the
// CLI layer and override on top.
package config

import "time"

type Config struct {
	// ServerURL is the base URL of the file server endpoint.
	ServerURL string

	// Single, Limit and LimitSize select the batching policy, in that
	// priority order.
	Single    bool
	Limit     int
	LimitSize int64

	// ParallelUploads bounds concurrently sending batches.
	ParallelUploads int

	MinFileSize     int64
	MaxFileSize     int64
	AcceptFileTypes string

	// Timeout applies to each HTTP request as a whole.
	Timeout time.Duration
}

// LoadDefaults populates c with sensible defaults for local use.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.ParallelUploads = 2
	c.MinFileSize = 1
	c.Timeout = 5 * time.Minute
}

// LoadConfig builds a Config from defaults, an optional JSON file and the
// environment. jsonPath may be empty.
func LoadConfig(jsonPath string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, jsonPath)
	parseEnv(cfg)
	return cfg
}
