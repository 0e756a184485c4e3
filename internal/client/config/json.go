package config

import (
	"encoding/json"
	"os"
	"time"
)

// JsonConfig is the DTO for JSON unmarshalling; set fields are copied into
// the runtime Config. Timeout is given in seconds.
type JsonConfig struct {
	ServerURL       *string `json:"server_url"`
	Single          *bool   `json:"single"`
	Limit           *int    `json:"limit"`
	LimitSize       *int64  `json:"limit_size"`
	ParallelUploads *int    `json:"parallel_uploads"`
	MinFileSize     *int64  `json:"min_file_size"`
	MaxFileSize     *int64  `json:"max_file_size"`
	AcceptFileTypes *string `json:"accept_file_types"`
	TimeoutSeconds  *int    `json:"timeout_seconds"`
}

// parseJson overlays Config with values from a JSON file. A missing or
// malformed file panics: a deployment that names a config file expects it
// to be used.
func parseJson(config *Config, path string) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.ServerURL != nil {
		config.ServerURL = *c.ServerURL
	}
	if c.Single != nil {
		config.Single = *c.Single
	}
	if c.Limit != nil {
		config.Limit = *c.Limit
	}
	if c.LimitSize != nil {
		config.LimitSize = *c.LimitSize
	}
	if c.ParallelUploads != nil {
		config.ParallelUploads = *c.ParallelUploads
	}
	if c.MinFileSize != nil {
		config.MinFileSize = *c.MinFileSize
	}
	if c.MaxFileSize != nil {
		config.MaxFileSize = *c.MaxFileSize
	}
	if c.AcceptFileTypes != nil {
		config.AcceptFileTypes = *c.AcceptFileTypes
	}
	if c.TimeoutSeconds != nil {
		config.Timeout = time.Duration(*c.TimeoutSeconds) * time.Second
	}
}
