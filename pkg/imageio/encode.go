package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// EncodeOptions tunes the encoders.
type EncodeOptions struct {
	// Format overrides the format implied by the destination extension.
	Format Format

	// JPEGQuality is 1..100; zero means jpeg.DefaultQuality.
	JPEGQuality int

	// PNGCompression selects the PNG compression level.
	PNGCompression png.CompressionLevel
}

// DefaultEncodeOptions returns the encoder defaults.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		JPEGQuality:    jpeg.DefaultQuality,
		PNGCompression: png.DefaultCompression,
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format, opts EncodeOptions) error {
	var err error
	switch format {
	case FormatJPEG:
		quality := opts.JPEGQuality
		if quality == 0 {
			quality = jpeg.DefaultQuality
		}
		if quality < 1 || quality > 100 {
			return &EncodeError{Format: format, Err: fmt.Errorf("jpeg quality %d outside 1..100", quality)}
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: opts.PNGCompression}
		err = enc.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		err = fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return &EncodeError{Format: format, Err: err}
	}
	return nil
}

// Save encodes img to path, creating parent directories as needed.
// The format comes from opts.Format or, if unset, the path extension.
func Save(path string, img image.Image, opts EncodeOptions) (err error) {
	format := opts.Format
	if format == "" {
		format, err = FormatFromPath(path)
		if err != nil {
			return &EncodeError{Path: path, Err: err}
		}
	}
	if !format.CanEncode() {
		return &EncodeError{Path: path, Format: format, Err: fmt.Errorf("%w: %s is decode-only", ErrUnsupportedFormat, format)}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &EncodeError{Path: path, Format: format, Err: fmt.Errorf("creating output dir: %w", err)}
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return &EncodeError{Path: path, Format: format, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierr.Append(err, &EncodeError{Path: path, Format: format, Err: cerr})
		}
		// A failed write leaves no partial file behind.
		if err != nil {
			if rerr := os.Remove(f.Name()); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
				err = multierr.Append(err, rerr)
			}
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, img, format, opts); err != nil {
		return &EncodeError{Path: path, Format: format, Err: unwrapEncode(err)}
	}
	if err := bw.Flush(); err != nil {
		return &EncodeError{Path: path, Format: format, Err: err}
	}
	return nil
}

// unwrapEncode strips an EncodeError so that Save can re-wrap it with a path.
func unwrapEncode(err error) error {
	if ee, ok := err.(*EncodeError); ok {
		return ee.Err
	}
	return err
}
