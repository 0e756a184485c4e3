package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/filedrop/internal/server/models"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "files", c.UploadDir)
	assert.Equal(t, int64(1), c.MinFileSize)
	assert.Equal(t, "php|phtml|php3|php5|phps|cgi", c.RejectFileTypes)
	assert.Equal(t, 2, c.Sort)
	assert.False(t, c.Debug)

	base, ok := c.Versions[""]
	require.True(t, ok, "defaults must include the base version")
	assert.True(t, base.AutoOrient)
	assert.False(t, base.Raw)
}

func TestApplyJson_OverridesOnlySetFields(t *testing.T) {
	var c Config
	c.LoadDefaults()

	addr := ":9090"
	debug := true
	maxSize := int64(1 << 20)

	applyJson(&c, &JsonConfig{
		Addr:        &addr,
		Debug:       &debug,
		MaxFileSize: &maxSize,
		Versions: map[string]models.Version{
			"thumb": {Width: 120, Height: 120},
		},
	})

	assert.Equal(t, ":9090", c.Addr)
	assert.True(t, c.Debug)
	assert.Equal(t, int64(1<<20), c.MaxFileSize)

	// Untouched fields keep their defaults.
	assert.Equal(t, "files", c.UploadDir)
	assert.Equal(t, int64(1), c.MinFileSize)

	// Versions merge over the defaults.
	assert.Contains(t, c.Versions, "")
	assert.Equal(t, 120, c.Versions["thumb"].Width)
}
