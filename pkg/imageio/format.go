package imageio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an image file format.
type Format string

// Supported formats. WebP and GIF are decode-only.
const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// extensions maps lower-case file extensions to formats.
var extensions = map[string]Format{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".webp": FormatWebP,
}

func (f Format) String() string {
	return string(f)
}

// CanEncode reports whether images can be written in this format.
func (f Format) CanEncode() bool {
	switch f {
	case FormatJPEG, FormatPNG, FormatBMP, FormatTIFF:
		return true
	}
	return false
}

// ParseFormat parses a format name such as "jpg" or "png".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := extensions["."+strings.TrimPrefix(s, ".")]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath returns the format implied by the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
}
