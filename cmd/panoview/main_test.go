package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Faultbox/panoview/pkg/imageio"
)

// panorama writes a 2:1 test panorama and isolates the user config dir.
func panorama(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	img := image.NewNRGBA(image.Rect(0, 0, 128, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(2 * x), G: uint8(4 * y), B: 90, A: 255})
		}
	}
	path = filepath.Join(dir, "pano.png")
	if err := imageio.Save(path, img, imageio.DefaultEncodeOptions()); err != nil {
		t.Fatalf("failed to write panorama: %v", err)
	}
	return dir, path
}

func TestRender(t *testing.T) {
	dir, in := panorama(t)
	outPath := filepath.Join(dir, "out", "view.png")

	var out bytes.Buffer
	err := cmdRender(context.Background(), []string{"-fov", "90", "-theta", "45", "-width", "40", "-height", "30", in, outPath}, &out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	cfg, err := imageio.LoadConfig(outPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("view = %dx%d, want 40x30", cfg.Width, cfg.Height)
	}

	// The elapsed time is printed in seconds.
	if _, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64); err != nil {
		t.Errorf("expected elapsed seconds, got %q", out.String())
	}
}

func TestRenderErrors(t *testing.T) {
	dir, in := panorama(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no input", []string{"-width", "8", "-height", "8"}, "no input"},
		{"bad fov", []string{"-fov", "180", in}, "invalid parameter"},
		{"missing input", []string{filepath.Join(dir, "missing.jpg")}, "decoding"},
		{"decode-only output", []string{"-width", "8", "-height", "8", in, filepath.Join(dir, "v.webp")}, "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cmdRender(context.Background(), tt.args, &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestBatch(t *testing.T) {
	dir, in := panorama(t)

	cfgPath := filepath.Join(dir, "views.yaml")
	yaml := "input: " + in + `
view:
  width: 32
  height: 24
views:
  - name: front
    output: ` + filepath.Join(dir, "front.png") + `
  - name: broken
    output: ` + filepath.Join(dir, "broken.webp") + `
  - name: sky
    phi: 90
    fov: 120
    output: ` + filepath.Join(dir, "sky.bmp") + `
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var out bytes.Buffer
	err := cmdBatch(context.Background(), []string{"-config", cfgPath}, &out)
	if err == nil || !strings.Contains(err.Error(), `view "broken"`) {
		t.Fatalf("expected the broken view to be reported, got %v", err)
	}

	for _, name := range []string{"front.png", "sky.bmp"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s was not rendered: %v", name, err)
		}
	}
	if !strings.Contains(out.String(), "front\t") || !strings.Contains(out.String(), "sky\t") {
		t.Errorf("unexpected batch output %q", out.String())
	}
}

func TestBatchWithoutViews(t *testing.T) {
	_, in := panorama(t)
	if err := cmdBatch(context.Background(), []string{in}, &bytes.Buffer{}); err == nil {
		t.Error("expected an error without configured views")
	}
}

func TestProbe(t *testing.T) {
	panorama(t)

	var out bytes.Buffer
	err := cmdProbe([]string{"-src", "4000x2000", "-width", "1081", "-height", "721", "540", "360"}, &out)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !strings.Contains(out.String(), "Sample:  (1999.500, 999.500) in 4000x2000") {
		t.Errorf("centre pixel should sample the panorama centre:\n%s", out.String())
	}
}

func TestProbeFromImage(t *testing.T) {
	_, in := panorama(t)

	var out bytes.Buffer
	if err := cmdProbe([]string{"-in", in, "-theta", "90", "-width", "9", "-height", "9", "4", "4"}, &out); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !strings.Contains(out.String(), "Lon/Lat: 90.0000°") || !strings.Contains(out.String(), "in 128x64") {
		t.Errorf("unexpected probe output:\n%s", out.String())
	}
}

func TestProbeErrors(t *testing.T) {
	panorama(t)

	for _, args := range [][]string{
		{"-src", "4000x2000", "1"},
		{"-src", "4000x2000", "a", "1"},
		{"-src", "4000by2000", "1", "1"},
		{"-src", "0x10", "1", "1"},
		{"1", "1"},
		{"-src", "400x200", "-width", "10", "-height", "10", "10", "0"},
	} {
		if err := cmdProbe(args, &bytes.Buffer{}); err == nil {
			t.Errorf("probe %v: expected error", args)
		}
	}
}

func TestInfo(t *testing.T) {
	_, in := panorama(t)

	var out bytes.Buffer
	if err := cmdInfo([]string{in}, &out); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Format:     png", "Size:       128 x 64", "fov=60"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("info output missing %q:\n%s", want, out.String())
		}
	}
}

func TestFootprint(t *testing.T) {
	dir, in := panorama(t)

	cfgPath := filepath.Join(dir, "views.yaml")
	yaml := "views:\n  - name: back\n    theta: 180\n    input: " + in + "\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := cmdFootprint(context.Background(), []string{"-config", cfgPath, in}, &bytes.Buffer{}); err != nil {
		t.Fatalf("footprint: %v", err)
	}
	cfg, err := imageio.LoadConfig(filepath.Join(dir, "pano_footprint.png"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Width != 128 || cfg.Height != 64 {
		t.Errorf("footprint image = %dx%d, want the panorama size", cfg.Width, cfg.Height)
	}
}

func TestFootprintPath(t *testing.T) {
	if got := footprintPath("shots/pano.jpg"); got != "shots/pano_footprint.jpg" {
		t.Errorf("footprintPath = %q", got)
	}
}

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("4000X2000")
	if err != nil || w != 4000 || h != 2000 {
		t.Errorf("parseSize = %d, %d, %v", w, h, err)
	}
}
