package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from the process environment, loading a
// .env file first when one exists in the working directory.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("FILEDROP_SERVER_URL"); v != "" {
		config.ServerURL = v
	}
	if v := os.Getenv("FILEDROP_PARALLEL_UPLOADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.ParallelUploads = n
		}
	}
	if v := os.Getenv("FILEDROP_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MaxFileSize = n
		}
	}
	if v := os.Getenv("FILEDROP_ACCEPT_FILE_TYPES"); v != "" {
		config.AcceptFileTypes = v
	}
}
