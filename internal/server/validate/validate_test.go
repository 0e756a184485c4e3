package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/filedrop/internal/common"
)

func TestCheck_AcceptedTypes(t *testing.T) {
	v, err := New(Options{AcceptFileTypes: "jpg|jpeg|png"})
	require.NoError(t, err)

	assert.NoError(t, v.Check("a.png", 100))
	assert.NoError(t, v.Check("a.JPG", 100))

	err = v.Check("a.exe", 100)
	require.Error(t, err)

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "The file type is not accepted.", verr.Message)
}

func TestCheck_RejectedTypes(t *testing.T) {
	v, err := New(Options{RejectFileTypes: "php|phtml|cgi"})
	require.NoError(t, err)

	assert.NoError(t, v.Check("a.png", 100))
	assert.Error(t, v.Check("shell.php", 100))
	assert.Error(t, v.Check("shell.PHP", 100))
}

func TestCheck_AcceptWinsOverReject(t *testing.T) {
	v, err := New(Options{AcceptFileTypes: "php", RejectFileTypes: "php"})
	require.NoError(t, err)

	assert.NoError(t, v.Check("a.php", 100))
}

func TestCheck_SizeBounds(t *testing.T) {
	v, err := New(Options{MinFileSize: 10, MaxFileSize: 2048})
	require.NoError(t, err)

	assert.NoError(t, v.Check("a.bin", 10))
	assert.NoError(t, v.Check("a.bin", 2048))

	err = v.Check("a.bin", 4096)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 2 KB")

	err = v.Check("a.bin", 5)
	require.Error(t, err)
	assert.Equal(t, "The file size is too small.", err.Error())
}

func TestCheck_TypeFailureShortCircuitsSize(t *testing.T) {
	v, err := New(Options{AcceptFileTypes: "png", MaxFileSize: 10})
	require.NoError(t, err)

	err = v.Check("huge.exe", 1000)
	require.Error(t, err)
	assert.Equal(t, "The file type is not accepted.", err.Error())
}

func TestNeedsDimensions(t *testing.T) {
	// No bounds configured: never decode.
	v, err := New(Options{ImageFileTypes: "png|jpg"})
	require.NoError(t, err)
	assert.False(t, v.NeedsDimensions("a.png"))

	v, err = New(Options{ImageFileTypes: "png|jpg", MaxWidth: 800})
	require.NoError(t, err)
	assert.True(t, v.NeedsDimensions("a.png"))
	assert.False(t, v.NeedsDimensions("a.txt"), "non-image files skip dimension checks")
}

func TestCheckBounds(t *testing.T) {
	v, err := New(Options{
		ImageFileTypes: "png",
		MinWidth:       10, MinHeight: 10,
		MaxWidth: 800, MaxHeight: 600,
	})
	require.NoError(t, err)

	assert.NoError(t, v.CheckBounds(800, 600))
	assert.NoError(t, v.CheckBounds(10, 10))

	assert.Contains(t, v.CheckBounds(801, 100).Error(), "maximum width of 800")
	assert.Contains(t, v.CheckBounds(5, 100).Error(), "minimum width of 10")
	assert.Contains(t, v.CheckBounds(100, 601).Error(), "maximum height of 600")
	assert.Contains(t, v.CheckBounds(100, 5).Error(), "minimum height of 10")
}
