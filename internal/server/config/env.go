package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from the process environment, loading a
// .env file first when one exists in the working directory. Only a small set
// of deployment-facing keys is supported; structured settings such as image
// versions belong in the JSON file.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("FILEDROP_ADDR"); v != "" {
		config.Addr = v
	}
	if v := os.Getenv("FILEDROP_UPLOAD_DIR"); v != "" {
		config.UploadDir = v
	}
	if v := os.Getenv("FILEDROP_UPLOAD_URL"); v != "" {
		config.UploadURL = v
	}
	if v := os.Getenv("FILEDROP_DEBUG"); v != "" {
		config.Debug = v == "1" || v == "true"
	}
	if v := os.Getenv("FILEDROP_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MaxFileSize = n
		}
	}
}
