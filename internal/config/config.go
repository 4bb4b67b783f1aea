// Package config handles panoview configuration loading and management.
package config

import (
	"errors"

	"github.com/Faultbox/panoview/pkg/equirect"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all panoview settings.
type Config struct {
	Input   string        `yaml:"input"`
	View    ViewConfig    `yaml:"view"`
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Views   []NamedView   `yaml:"views"` // batch list
	Logging LoggingConfig `yaml:"logging"`
}

// ViewConfig describes one perspective view. Angles are in degrees.
type ViewConfig struct {
	FOV    float64 `yaml:"fov"`
	Theta  float64 `yaml:"theta"`
	Phi    float64 `yaml:"phi"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
}

// View converts the settings to an equirect.View.
func (v ViewConfig) View() equirect.View {
	return equirect.View{FOV: v.FOV, Theta: v.Theta, Phi: v.Phi, Width: v.Width, Height: v.Height}
}

// NamedView is a batch entry. An empty input or a zero fov, width or height
// is taken from the top-level config; an empty output becomes name+".jpg".
// Theta and phi never inherit, zero is a real angle.
type NamedView struct {
	Name       string `yaml:"name"`
	Input      string `yaml:"input"`
	Output     string `yaml:"output"`
	ViewConfig `yaml:",inline"`
}

// RenderConfig holds resampling settings.
type RenderConfig struct {
	Interpolation    string `yaml:"interpolation"`     // bicubic, bilinear, nearest
	HorizontalBorder string `yaml:"horizontal_border"` // wrap, clamp, constant
	VerticalBorder   string `yaml:"vertical_border"`
	FillColor        string `yaml:"fill_color"` // #RRGGBB or #RRGGBBAA
	Workers          int    `yaml:"workers"`    // 0 = all CPUs
}

// OutputConfig holds encoder settings.
type OutputConfig struct {
	Path           string `yaml:"path"`
	Format         string `yaml:"format"` // empty = from extension
	JPEGQuality    int    `yaml:"jpeg_quality"`
	PNGCompression string `yaml:"png_compression"` // default, none, fast, best
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		View: ViewConfig{
			FOV:    60,
			Width:  1080,
			Height: 720,
		},
		Render: RenderConfig{
			Interpolation:    "bicubic",
			HorizontalBorder: "wrap",
			VerticalBorder:   "constant",
			FillColor:        "#000000",
		},
		Output: OutputConfig{
			Path:           "view.jpg",
			JPEGQuality:    90,
			PNGCompression: "default",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Demo returns the defaults with the demo view: image.jpg looked at from
// yaw 80° and pitch 33°, written to final_image.jpg.
func Demo() *Config {
	cfg := Default()
	cfg.Input = "image.jpg"
	cfg.View.Theta = 80
	cfg.View.Phi = 33
	cfg.Output.Path = "final_image.jpg"
	return cfg
}

// BatchViews returns the batch list with input, fov, width and height filled
// from the top-level config where unset. Entries without an output path are
// named after the view.
func (c *Config) BatchViews() []NamedView {
	views := make([]NamedView, len(c.Views))
	for i, v := range c.Views {
		if v.Input == "" {
			v.Input = c.Input
		}
		if v.FOV == 0 {
			v.FOV = c.View.FOV
		}
		if v.Width == 0 {
			v.Width = c.View.Width
		}
		if v.Height == 0 {
			v.Height = c.View.Height
		}
		if v.Output == "" {
			v.Output = v.Name + ".jpg"
		}
		views[i] = v
	}
	return views
}
