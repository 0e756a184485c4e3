// Package models holds the value types shared by the server's storage,
// validation and derivative layers.
package models

import "image"

// VersionFunc runs before or after a single derivative is generated. A
// "before" callback may return false to skip that version; the return value
// of an "after" callback is ignored.
type VersionFunc func(img image.Image, filename, version string) bool

// Version is the immutable configuration for one named image derivative.
//
// Exactly one geometry mode applies:
//   - Width/Height set: cover-fit to that exact box (scale to cover, then
//     center-crop). A missing edge is derived from the source aspect ratio.
//   - MaxWidth/MaxHeight set: scale down to fit inside the bounds; a smaller
//     source is left untouched.
//
// Raw versions are never regenerated; they are a pass-through reference to
// the original file.
type Version struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	MaxWidth   int    `json:"max_width"`
	MaxHeight  int    `json:"max_height"`
	Quality    int    `json:"quality"`
	Dir        string `json:"upload_dir"`
	URL        string `json:"upload_url"`
	Raw        bool   `json:"raw"`
	AutoOrient bool   `json:"auto_orient"`

	Before VersionFunc `json:"-"`
	After  VersionFunc `json:"-"`
}
