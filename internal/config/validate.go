package config

import (
	"fmt"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/Faultbox/panoview/internal/logger"
	"github.com/Faultbox/panoview/pkg/imageio"
	"github.com/Faultbox/panoview/pkg/remap"
)

// Validate checks every section and reports the first problem found.
func (c *Config) Validate() error {
	if err := c.View.View().Validate(); err != nil {
		return fmt.Errorf("%w: view: %w", ErrInvalidConfig, err)
	}
	if _, err := c.RemapOptions(); err != nil {
		return err
	}
	if _, err := c.EncodeOptions(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Views))
	for i, v := range c.BatchViews() {
		if v.Name == "" {
			return fmt.Errorf("%w: views[%d]: missing name", ErrInvalidConfig, i)
		}
		if seen[v.Name] {
			return fmt.Errorf("%w: views[%d]: duplicate name %q", ErrInvalidConfig, i, v.Name)
		}
		seen[v.Name] = true
		if err := v.View().Validate(); err != nil {
			return fmt.Errorf("%w: views[%d] %q: %w", ErrInvalidConfig, i, v.Name, err)
		}
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging: %w", ErrInvalidConfig, err)
	}
	return nil
}

// RemapOptions converts the render section to resampler options.
func (c *Config) RemapOptions() (remap.Options, error) {
	r := c.Render
	opts := remap.DefaultOptions()

	var err error
	if r.Interpolation != "" {
		if opts.Interpolation, err = remap.ParseInterpolation(r.Interpolation); err != nil {
			return opts, fmt.Errorf("%w: render: %w", ErrInvalidConfig, err)
		}
	}
	if r.HorizontalBorder != "" {
		if opts.Horizontal, err = remap.ParseBorder(r.HorizontalBorder); err != nil {
			return opts, fmt.Errorf("%w: render: horizontal: %w", ErrInvalidConfig, err)
		}
	}
	if r.VerticalBorder != "" {
		if opts.Vertical, err = remap.ParseBorder(r.VerticalBorder); err != nil {
			return opts, fmt.Errorf("%w: render: vertical: %w", ErrInvalidConfig, err)
		}
	}
	if r.FillColor != "" {
		if opts.Fill, err = ParseColor(r.FillColor); err != nil {
			return opts, fmt.Errorf("%w: render: %w", ErrInvalidConfig, err)
		}
	}
	if r.Workers < 0 {
		return opts, fmt.Errorf("%w: render: workers %d must not be negative", ErrInvalidConfig, r.Workers)
	}
	opts.Workers = r.Workers
	return opts, nil
}

// EncodeOptions converts the output section to encoder options.
func (c *Config) EncodeOptions() (imageio.EncodeOptions, error) {
	o := c.Output
	opts := imageio.DefaultEncodeOptions()

	if o.Format != "" {
		f, err := imageio.ParseFormat(o.Format)
		if err != nil {
			return opts, fmt.Errorf("%w: output: %w", ErrInvalidConfig, err)
		}
		if !f.CanEncode() {
			return opts, fmt.Errorf("%w: output: %s is decode-only", ErrInvalidConfig, f)
		}
		opts.Format = f
	}

	if o.JPEGQuality != 0 {
		if o.JPEGQuality < 1 || o.JPEGQuality > 100 {
			return opts, fmt.Errorf("%w: output: jpeg_quality %d outside 1..100", ErrInvalidConfig, o.JPEGQuality)
		}
		opts.JPEGQuality = o.JPEGQuality
	}

	switch strings.ToLower(o.PNGCompression) {
	case "", "default":
		opts.PNGCompression = png.DefaultCompression
	case "none":
		opts.PNGCompression = png.NoCompression
	case "fast":
		opts.PNGCompression = png.BestSpeed
	case "best":
		opts.PNGCompression = png.BestCompression
	default:
		return opts, fmt.Errorf("%w: output: png_compression %q", ErrInvalidConfig, o.PNGCompression)
	}
	return opts, nil
}

// ParseColor parses #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("colour %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
