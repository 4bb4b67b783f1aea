// Package imageio decodes source panoramas and encodes rendered views.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes an image from r, detecting the format from its header.
func Decode(r io.Reader) (image.Image, Format, error) {
	img, name, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	if b := img.Bounds(); b.Empty() {
		return nil, "", &DecodeError{Err: fmt.Errorf("empty %dx%d image", b.Dx(), b.Dy())}
	}
	return img, Format(name), nil
}

// Load opens and decodes the image at path.
func Load(path string) (image.Image, Format, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	img, format, err := Decode(f)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: unwrapCause(err)}
	}
	return img, format, nil
}

// Config describes an image without decoding its pixels.
type Config struct {
	Format Format
	Width  int
	Height int
}

// LoadConfig reads only the header of the image at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Config{}, &DecodeError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	cfg, name, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return Config{}, &DecodeError{Path: path, Err: err}
	}
	return Config{Format: Format(name), Width: cfg.Width, Height: cfg.Height}, nil
}

// unwrapCause strips a DecodeError so that Load can re-wrap it with a path.
func unwrapCause(err error) error {
	if de, ok := err.(*DecodeError); ok {
		return de.Err
	}
	return err
}
