// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment overlay, and command-line
// flags. Later sources take precedence over earlier ones.
package config

import "github.com/avolkov/filedrop/internal/server/models"

// File type alternations are pipe-separated extension lists compiled into
// case-insensitive suffix patterns, e.g. "jpg|jpeg|png".
type Config struct {
	// Addr is the bind address of the HTTP endpoint.
	Addr string

	// UploadDir is the base storage directory; UploadURL is the public URL
	// prefix file links are built from.
	UploadDir string
	UploadURL string

	// Debug surfaces internal error messages in 500 responses.
	Debug bool

	// Overwrite disables unique naming and replaces existing files.
	Overwrite bool

	// KeepOriginalImage preserves the raw file on crop; derivatives are
	// still regenerated from the cropped image.
	KeepOriginalImage bool

	// MaxFiles caps the total number of stored files (0 = unlimited).
	MaxFiles int

	MinFileSize int64
	MaxFileSize int64

	AcceptFileTypes string
	RejectFileTypes string
	ImageFileTypes  string
	InlineFileTypes string

	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int

	// Sort is the default listing order (see storage sort codes).
	Sort int

	// Versions maps derivative names to their specs. The empty name is the
	// base version applied to the uploaded file itself.
	Versions map[string]models.Version
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.UploadDir = "files"
	c.UploadURL = "/files"
	c.Debug = false
	c.MinFileSize = 1
	c.RejectFileTypes = "php|phtml|php3|php5|phps|cgi"
	c.ImageFileTypes = "gif|jpg|jpeg|png|webp|bmp"
	c.InlineFileTypes = "gif|jpg|jpeg|png|pdf"
	c.MinWidth = 1
	c.MinHeight = 1
	c.Sort = 2 // newest first

	c.Versions = map[string]models.Version{
		"": {AutoOrient: true},
	}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (including a .env file when
// present) and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
