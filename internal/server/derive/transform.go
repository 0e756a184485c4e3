package derive

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// TransformParams describe an on-demand crop request. Rotate is in degrees
// as reported by the crop widget; ScaleX/ScaleY of -1 request a flip.
type TransformParams struct {
	X      int
	Y      int
	Width  int
	Height int
	Rotate int
	ScaleX int
	ScaleY int
}

// Transform applies a crop request in its fixed order: horizontal flip,
// vertical flip, rotate, then crop to the requested rectangle. The rotation
// sign is inverted to reconcile screen-space with image-space direction.
func Transform(img image.Image, p TransformParams) *image.NRGBA {
	out := imaging.Clone(img)

	if p.ScaleX == -1 {
		out = imaging.FlipH(out)
	}

	if p.ScaleY == -1 {
		out = imaging.FlipV(out)
	}

	if p.Rotate != 0 {
		out = imaging.Rotate(out, float64(-p.Rotate), color.Transparent)
	}

	return imaging.Crop(out, image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height))
}
