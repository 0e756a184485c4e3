package config

import (
	"encoding/json"
	"os"

	"github.com/avolkov/filedrop/internal/flagx"
	"github.com/avolkov/filedrop/internal/server/models"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It is an intermediate DTO used only for reading JSON
// configuration files; after unmarshalling, set fields are copied into the
// runtime Config.
type JsonConfig struct {
	Addr              *string                   `json:"addr"`
	UploadDir         *string                   `json:"upload_dir"`
	UploadURL         *string                   `json:"upload_url"`
	Debug             *bool                     `json:"debug"`
	Overwrite         *bool                     `json:"overwrite"`
	KeepOriginalImage *bool                     `json:"keep_original_image"`
	MaxFiles          *int                      `json:"max_files"`
	MinFileSize       *int64                    `json:"min_file_size"`
	MaxFileSize       *int64                    `json:"max_file_size"`
	AcceptFileTypes   *string                   `json:"accept_file_types"`
	RejectFileTypes   *string                   `json:"reject_file_types"`
	ImageFileTypes    *string                   `json:"image_file_types"`
	InlineFileTypes   *string                   `json:"inline_file_types"`
	MinWidth          *int                      `json:"min_width"`
	MinHeight         *int                      `json:"min_height"`
	MaxWidth          *int                      `json:"max_width"`
	MaxHeight         *int                      `json:"max_height"`
	Sort              *int                      `json:"sort"`
	Versions          map[string]models.Version `json:"image_versions"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. A missing or malformed
// file panics: a deployment that names a config file expects it to be used.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	applyJson(config, c)
}

func applyJson(config *Config, c *JsonConfig) {
	if c.Addr != nil {
		config.Addr = *c.Addr
	}
	if c.UploadDir != nil {
		config.UploadDir = *c.UploadDir
	}
	if c.UploadURL != nil {
		config.UploadURL = *c.UploadURL
	}
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
	if c.Overwrite != nil {
		config.Overwrite = *c.Overwrite
	}
	if c.KeepOriginalImage != nil {
		config.KeepOriginalImage = *c.KeepOriginalImage
	}
	if c.MaxFiles != nil {
		config.MaxFiles = *c.MaxFiles
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
	if c.RejectFileTypes != nil {
		config.RejectFileTypes = *c.RejectFileTypes
	}
	if c.ImageFileTypes != nil {
		config.ImageFileTypes = *c.ImageFileTypes
	}
	if c.InlineFileTypes != nil {
		config.InlineFileTypes = *c.InlineFileTypes
	}
	if c.MinWidth != nil {
		config.MinWidth = *c.MinWidth
	}
	if c.MinHeight != nil {
		config.MinHeight = *c.MinHeight
	}
	if c.MaxWidth != nil {
		config.MaxWidth = *c.MaxWidth
	}
	if c.MaxHeight != nil {
		config.MaxHeight = *c.MaxHeight
	}
	if c.Sort != nil {
		config.Sort = *c.Sort
	}

	// Version specs from JSON are merged over the defaults so that a file
	// declaring only "thumb" keeps the base version.
	for name, v := range c.Versions {
		config.Versions[name] = v
	}
}
