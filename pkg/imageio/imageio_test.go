package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

func TestSaveLoadLossless(t *testing.T) {
	dir := t.TempDir()
	src := testImage(12, 6)

	for _, name := range []string{"out.png", "out.bmp", "nested/dir/out.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(path, src, DefaultEncodeOptions()); err != nil {
				t.Fatalf("Save: %v", err)
			}

			img, format, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			want, _ := FormatFromPath(path)
			if format != want {
				t.Errorf("format = %s, want %s", format, want)
			}
			if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 6 {
				t.Fatalf("size = %v, want 12x6", img.Bounds())
			}
			r, g, b, _ := img.At(5, 3).RGBA()
			if r>>8 != 80 || g>>8 != 48 || b>>8 != 128 {
				t.Errorf("pixel (5,3) = %d,%d,%d, want 80,48,128", r>>8, g>>8, b>>8)
			}
		})
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.jpg")
	if err := Save(path, testImage(16, 16), EncodeOptions{JPEGQuality: 90}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Format != FormatJPEG || cfg.Width != 16 || cfg.Height != 16 {
		t.Errorf("LoadConfig = %+v, want jpeg 16x16", cfg)
	}
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()
	img := testImage(4, 4)

	tests := []struct {
		name string
		path string
		opts EncodeOptions
		want error
	}{
		{"unknown extension", filepath.Join(dir, "out.xyz"), EncodeOptions{}, ErrUnsupportedFormat},
		{"decode-only format", filepath.Join(dir, "out.webp"), EncodeOptions{}, ErrUnsupportedFormat},
		{"bad jpeg quality", filepath.Join(dir, "out.jpg"), EncodeOptions{JPEGQuality: 150}, ErrEncode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Save(tt.path, img, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrEncode) {
				t.Errorf("expected error to match ErrEncode, got %v", err)
			}
			var ee *EncodeError
			if !errors.As(err, &ee) || ee.Path != tt.path {
				t.Errorf("expected *EncodeError for %s, got %#v", tt.path, err)
			}
			if _, err := os.Stat(tt.path); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("failed save left %s behind", tt.path)
			}
		})
	}
}

func TestSaveFailureRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.png")
	if err := os.WriteFile(path, []byte("previous run"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	// PNG refuses to encode an image with no pixels.
	err := Save(path, image.NewNRGBA(image.Rect(0, 0, 0, 0)), DefaultEncodeOptions())
	if !errors.Is(err, ErrEncode) {
		t.Fatalf("expected ErrEncode, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected %s to be removed, stat error %v", path, err)
	}
}

func TestSaveFormatOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-extension")
	if err := Save(path, testImage(4, 4), EncodeOptions{Format: FormatPNG}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, format, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if format != FormatPNG {
		t.Errorf("format = %s, want png", format)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := Load(filepath.Join(dir, "missing.jpg"))
	if !errors.Is(err, ErrDecode) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: expected ErrDecode and fs.ErrNotExist, got %v", err)
	}

	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("\x89PNG\r\n\x1a\nnot really"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	_, _, err = Load(corrupt)
	var de *DecodeError
	if !errors.As(err, &de) || de.Path != corrupt {
		t.Errorf("corrupt file: expected *DecodeError with path, got %v", err)
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("corrupt file: expected ErrDecode, got %v", err)
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("plain text, not an image")))
	if !errors.Is(err, ErrDecode) || !errors.Is(err, image.ErrFormat) {
		t.Errorf("expected ErrDecode wrapping image.ErrFormat, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"jpg":   FormatJPEG,
		"JPEG":  FormatJPEG,
		".png":  FormatPNG,
		"tif":   FormatTIFF,
		"webp":  FormatWebP,
		" bmp ": FormatBMP,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("exr"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
