// Package validate implements the per-file acceptance rules applied before
// a file is placed into storage. Failures come back as ValidationError
// values attached to the file record; validation never aborts a request.
package validate

import (
	"fmt"
	"regexp"

	"github.com/avolkov/filedrop/internal/common"
)

type Validator struct {
	minFileSize int64
	maxFileSize int64

	minWidth  int
	minHeight int
	maxWidth  int
	maxHeight int

	acceptRe *regexp.Regexp
	rejectRe *regexp.Regexp
	imageRe  *regexp.Regexp
}

type Options struct {
	MinFileSize int64
	MaxFileSize int64

	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int

	// AcceptFileTypes wins over RejectFileTypes; with neither set every
	// extension is accepted.
	AcceptFileTypes string
	RejectFileTypes string
	ImageFileTypes  string
}

func New(o Options) (*Validator, error) {
	v := &Validator{
		minFileSize: o.MinFileSize,
		maxFileSize: o.MaxFileSize,
		minWidth:    o.MinWidth,
		minHeight:   o.MinHeight,
		maxWidth:    o.MaxWidth,
		maxHeight:   o.MaxHeight,
	}

	var err error
	if v.acceptRe, err = extPattern(o.AcceptFileTypes); err != nil {
		return nil, fmt.Errorf("accept_file_types: %w", err)
	}
	if v.rejectRe, err = extPattern(o.RejectFileTypes); err != nil {
		return nil, fmt.Errorf("reject_file_types: %w", err)
	}
	if v.imageRe, err = extPattern(o.ImageFileTypes); err != nil {
		return nil, fmt.Errorf("image_file_types: %w", err)
	}

	return v, nil
}

func extPattern(types string) (*regexp.Regexp, error) {
	if types == "" {
		return nil, nil
	}
	return regexp.Compile(`(?i)\.(` + types + `)$`)
}

// Check runs the non-image acceptance rules, short-circuiting on the first
// failure: extension test, max size, min size.
func (v *Validator) Check(name string, size int64) error {
	if !v.accepted(name) {
		return &common.ValidationError{Message: "The file type is not accepted."}
	}

	if v.maxFileSize > 0 && size > v.maxFileSize {
		return &common.ValidationError{
			Message: fmt.Sprintf("The file size is too big (limit is %d KB).", v.maxFileSize/1024),
		}
	}

	if v.minFileSize > 0 && size < v.minFileSize {
		return &common.ValidationError{Message: "The file size is too small."}
	}

	return nil
}

// NeedsDimensions reports whether CheckBounds applies to this file at all:
// only image files, and only when at least one image bound is configured.
// The caller decodes the dimensions lazily on a true result.
func (v *Validator) NeedsDimensions(name string) bool {
	if v.imageRe == nil || !v.imageRe.MatchString(name) {
		return false
	}
	return v.maxWidth > 0 || v.maxHeight > 0 || v.minWidth > 0 || v.minHeight > 0
}

// CheckBounds validates decoded image dimensions against the configured
// bounds, short-circuiting on the first failure.
func (v *Validator) CheckBounds(width, height int) error {
	if v.maxWidth > 0 && width > v.maxWidth {
		return &common.ValidationError{
			Message: fmt.Sprintf("Image exceeds maximum width of %d pixels.", v.maxWidth),
		}
	}

	if v.minWidth > 0 && width < v.minWidth {
		return &common.ValidationError{
			Message: fmt.Sprintf("Image requires a minimum width of %d pixels.", v.minWidth),
		}
	}

	if v.maxHeight > 0 && height > v.maxHeight {
		return &common.ValidationError{
			Message: fmt.Sprintf("Image exceeds maximum height of %d pixels.", v.maxHeight),
		}
	}

	if v.minHeight > 0 && height < v.minHeight {
		return &common.ValidationError{
			Message: fmt.Sprintf("Image requires a minimum height of %d pixels.", v.minHeight),
		}
	}

	return nil
}

func (v *Validator) accepted(name string) bool {
	if v.acceptRe != nil {
		return v.acceptRe.MatchString(name)
	}
	if v.rejectRe != nil {
		return !v.rejectRe.MatchString(name)
	}
	return true
}
