// Package derive implements the image derivative engine: for each configured
// version it computes crop/resize geometry from a decoded source image and
// persists the result under the version's storage path.
package derive

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/avolkov/filedrop/internal/logging"
	"github.com/avolkov/filedrop/internal/server/models"
	"github.com/avolkov/filedrop/internal/server/storage"
)

type Engine struct {
	store    *storage.Store
	versions map[string]models.Version
	logger   logging.Logger
}

func New(store *storage.Store, versions map[string]models.Version, logger logging.Logger) *Engine {
	return &Engine{
		store:    store,
		versions: versions,
		logger:   logger.With("module", "derive"),
	}
}

// Generate decodes the stored file once and writes every non-raw version
// from the shared decoded image. EXIF orientation is applied at decode time
// when any version asks for it.
func (e *Engine) Generate(ctx context.Context, filename string) error {
	if !e.needsDecode() {
		return nil
	}

	img, err := imaging.Open(e.store.Path(filename, ""), imaging.AutoOrientation(e.autoOrient()))
	if err != nil {
		return fmt.Errorf("decode %s: %w", filename, err)
	}

	return e.GenerateFrom(ctx, img, filename, false)
}

// Load decodes the stored base file, applying EXIF orientation under the
// same rule Generate uses.
func (e *Engine) Load(filename string) (image.Image, error) {
	img, err := imaging.Open(e.store.Path(filename, ""), imaging.AutoOrientation(e.autoOrient()))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return img, nil
}

// SaveBase encodes an image over the stored base file using the base
// version's quality setting.
func (e *Engine) SaveBase(filename string, img image.Image) error {
	return save(img, e.store.Path(filename, ""), e.versions[""].Quality)
}

// GenerateFrom writes every non-raw version of filename from an already
// decoded image. skipBase leaves the stored base file untouched (used by
// crop when the original must be kept).
func (e *Engine) GenerateFrom(ctx context.Context, img image.Image, filename string, skipBase bool) error {
	var firstErr error

	for name, v := range e.versions {
		if v.Raw || (skipBase && name == "") {
			continue
		}

		if err := e.generateVersion(img, filename, name, v); err != nil {
			e.logger.Error(ctx, "version generation failed", "file", filename, "version", name, "error", err.Error())
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (e *Engine) generateVersion(img image.Image, filename, name string, v models.Version) error {
	if v.Before != nil && !v.Before(img, filename, name) {
		return nil
	}

	out := img

	switch {
	case v.Width > 0 || v.Height > 0:
		rw, rh, cw, ch := coverBox(img.Bounds().Dx(), img.Bounds().Dy(), v.Width, v.Height)
		out = imaging.CropCenter(imaging.Resize(img, rw, rh, imaging.Lanczos), cw, ch)
	case v.MaxWidth > 0 || v.MaxHeight > 0:
		if w, h, shrink := fitBox(img.Bounds().Dx(), img.Bounds().Dy(), v.MaxWidth, v.MaxHeight); shrink {
			out = imaging.Resize(img, w, h, imaging.Lanczos)
		}
	}

	path := e.store.Path(filename, name)
	if err := save(out, path, v.Quality); err != nil {
		return err
	}

	if v.After != nil {
		v.After(out, filename, name)
	}

	return nil
}

// needsDecode reports whether any version actually requires pixel data.
func (e *Engine) needsDecode() bool {
	for _, v := range e.versions {
		if !v.Raw {
			return true
		}
	}
	return false
}

func (e *Engine) autoOrient() bool {
	for _, v := range e.versions {
		if !v.Raw && v.AutoOrient {
			return true
		}
	}
	return false
}

func save(img image.Image, path string, quality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	var opts []imaging.EncodeOption
	if quality > 0 {
		opts = append(opts, imaging.JPEGQuality(quality))
	}

	if err := imaging.Save(img, path, opts...); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	return nil
}

// coverBox computes the resize box and crop box for exact-box ("cover-fit")
// geometry: scale so the resized image fully covers the target, then
// center-crop to exactly w×h. A missing edge is derived from the source
// aspect ratio.
func coverBox(srcW, srcH, w, h int) (resizeW, resizeH, cropW, cropH int) {
	if w == 0 {
		w = int(float64(srcW) / (float64(srcH) / float64(h)))
	} else if h == 0 {
		h = int(float64(srcH) / (float64(srcW) / float64(w)))
	}

	if float64(srcW)/float64(srcH) >= float64(w)/float64(h) {
		resizeH = h
		resizeW = int(float64(srcW) / (float64(srcH) / float64(h)))
	} else {
		resizeW = w
		resizeH = int(float64(srcH) / (float64(srcW) / float64(w)))
	}

	return resizeW, resizeH, w, h
}

// fitBox computes bounded-box geometry: scale down to fit inside
// maxW×maxH, never upscaling. shrink is false when the source already fits.
func fitBox(srcW, srcH, maxW, maxH int) (w, h int, shrink bool) {
	if maxW == 0 {
		maxW = srcW
	}
	if maxH == 0 {
		maxH = srcH
	}

	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	if scale >= 1 {
		return srcW, srcH, false
	}

	return int(float64(srcW) * scale), int(float64(srcH) * scale), true
}
