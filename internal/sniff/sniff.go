// Package sniff identifies the image format of extension-less files extracted
// from executable resource sections.
package sniff

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	ico "github.com/sergeymakinen/go-ico"
)

// ErrUnknown is returned when no supported image format matches.
var ErrUnknown = errors.New("unknown image format")

var extByFormat = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"bmp":  ".bmp",
	"tiff": ".tiff",
	"webp": ".webp",
	"ico":  ".ico",
	"cur":  ".cur",
}

// DetectExtension returns the file extension (with leading dot) for the image
// data, or ErrUnknown. ICO is tried explicitly first: generic prefix matching
// misreads some icons extracted from resource sections, particularly ones
// carrying cursor data.
func DetectExtension(data []byte) (string, error) {
	if _, err := ico.DecodeConfig(bytes.NewReader(data)); err == nil {
		return ".ico", nil
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrUnknown
	}
	ext, ok := extByFormat[format]
	if !ok {
		return "", fmt.Errorf("%w: unmapped format %q", ErrUnknown, format)
	}
	return ext, nil
}
