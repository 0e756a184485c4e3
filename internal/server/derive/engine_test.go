package derive

import (
	"context"
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/filedrop/internal/logging"
	"github.com/avolkov/filedrop/internal/server/models"
	"github.com/avolkov/filedrop/internal/server/storage"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestEngine(t *testing.T, versions map[string]models.Version) (*Engine, *storage.Store) {
	t.Helper()
	s, err := storage.New(t.TempDir(), false, versions, "gif|jpg|jpeg|png", "gif|jpg|jpeg|png")
	require.NoError(t, err)
	return New(s, versions, discardLogger()), s
}

func writeSource(t *testing.T, s *storage.Store, name string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, image.White.C)
	require.NoError(t, imaging.Save(img, s.Path(name, "")))
}

func dims(t *testing.T, s *storage.Store, name, version string) (int, int) {
	t.Helper()
	w, h, err := s.Dimensions(name, version)
	require.NoError(t, err)
	return w, h
}

func TestCoverBox(t *testing.T) {
	tests := []struct {
		name             string
		srcW, srcH, w, h int
		resizeW, resizeH int
		cropW, cropH     int
	}{
		{"landscape to square", 800, 600, 100, 100, 133, 100, 100, 100},
		{"portrait to square", 600, 800, 100, 100, 100, 133, 100, 100},
		{"same aspect", 800, 600, 400, 300, 400, 300, 400, 300},
		{"missing height derived", 800, 600, 400, 0, 400, 300, 400, 300},
		{"missing width derived", 800, 600, 0, 300, 400, 300, 400, 300},
		{"upscaling covers", 50, 50, 100, 200, 200, 200, 100, 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rw, rh, cw, ch := coverBox(tc.srcW, tc.srcH, tc.w, tc.h)
			assert.Equal(t, tc.resizeW, rw)
			assert.Equal(t, tc.resizeH, rh)
			assert.Equal(t, tc.cropW, cw)
			assert.Equal(t, tc.cropH, ch)
		})
	}
}

func TestFitBox(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, maxW, maxH int
		w, h                   int
		shrink                 bool
	}{
		{"shrinks to bounds", 800, 600, 400, 400, 400, 300, true},
		{"never upscales", 100, 80, 400, 400, 100, 80, false},
		{"exact fit untouched", 400, 300, 400, 300, 400, 300, false},
		{"only max width", 800, 600, 200, 0, 200, 150, true},
		{"only max height", 800, 600, 0, 150, 200, 150, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h, shrink := fitBox(tc.srcW, tc.srcH, tc.maxW, tc.maxH)
			assert.Equal(t, tc.w, w)
			assert.Equal(t, tc.h, h)
			assert.Equal(t, tc.shrink, shrink)
		})
	}
}

func TestGenerate_ExactBoxVersion(t *testing.T) {
	versions := map[string]models.Version{
		"":      {Raw: true},
		"thumb": {Width: 100, Height: 100},
	}
	e, s := newTestEngine(t, versions)

	writeSource(t, s, "photo.png", 800, 600)
	require.NoError(t, e.Generate(context.Background(), "photo.png"))

	w, h := dims(t, s, "photo.png", "thumb")
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)

	// Source untouched.
	w, h = dims(t, s, "photo.png", "")
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestGenerate_BoundedBoxVersion(t *testing.T) {
	versions := map[string]models.Version{
		"":      {Raw: true},
		"small": {MaxWidth: 200, MaxHeight: 200},
	}
	e, s := newTestEngine(t, versions)

	writeSource(t, s, "big.png", 800, 600)
	require.NoError(t, e.Generate(context.Background(), "big.png"))

	w, h := dims(t, s, "big.png", "small")
	assert.LessOrEqual(t, w, 200)
	assert.LessOrEqual(t, h, 200)
	assert.Equal(t, 200, w)
	assert.Equal(t, 150, h)
}

func TestGenerate_BoundedBoxNeverUpscales(t *testing.T) {
	versions := map[string]models.Version{
		"":      {Raw: true},
		"small": {MaxWidth: 400, MaxHeight: 400},
	}
	e, s := newTestEngine(t, versions)

	writeSource(t, s, "tiny.png", 50, 40)
	require.NoError(t, e.Generate(context.Background(), "tiny.png"))

	w, h := dims(t, s, "tiny.png", "small")
	assert.Equal(t, 50, w)
	assert.Equal(t, 40, h)
}

func TestGenerate_RawVersionsUntouched(t *testing.T) {
	versions := map[string]models.Version{
		"":    {Raw: true},
		"raw": {Raw: true},
	}
	e, s := newTestEngine(t, versions)

	writeSource(t, s, "a.png", 20, 20)
	require.NoError(t, e.Generate(context.Background(), "a.png"))

	// No derivative files are written for raw versions.
	_, err := s.Stat("a.png", "raw")
	assert.Error(t, err)
}

func TestGenerate_BeforeCallbackVetoesVersion(t *testing.T) {
	called := false
	versions := map[string]models.Version{
		"": {Raw: true},
		"thumb": {
			Width:  10,
			Height: 10,
			Before: func(img image.Image, filename, version string) bool {
				called = true
				return false
			},
		},
	}
	e, s := newTestEngine(t, versions)

	writeSource(t, s, "a.png", 20, 20)
	require.NoError(t, e.Generate(context.Background(), "a.png"))

	assert.True(t, called)
	_, err := s.Stat("a.png", "thumb")
	assert.Error(t, err, "vetoed version must not be written")
}

func TestGenerateFrom_SkipBaseLeavesOriginal(t *testing.T) {
	versions := map[string]models.Version{
		"":      {},
		"thumb": {Width: 10, Height: 10},
	}
	e, s := newTestEngine(t, versions)

	writeSource(t, s, "a.png", 40, 40)
	cropped := imaging.New(16, 16, image.Black.C)

	require.NoError(t, e.GenerateFrom(context.Background(), cropped, "a.png", true))

	// Base keeps its original dimensions, thumb derives from the cropped image.
	w, h := dims(t, s, "a.png", "")
	assert.Equal(t, 40, w)
	assert.Equal(t, 40, h)

	w, h = dims(t, s, "a.png", "thumb")
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)
}

func TestTransform_CropRectangle(t *testing.T) {
	img := imaging.New(100, 80, image.White.C)

	out := Transform(img, TransformParams{X: 10, Y: 10, Width: 30, Height: 20})

	assert.Equal(t, 30, out.Bounds().Dx())
	assert.Equal(t, 20, out.Bounds().Dy())
}

func TestTransform_RotateSwapsAxes(t *testing.T) {
	img := imaging.New(100, 80, image.White.C)

	out := Transform(img, TransformParams{Rotate: 90, Width: 80, Height: 100})

	assert.Equal(t, 80, out.Bounds().Dx())
	assert.Equal(t, 100, out.Bounds().Dy())
}
