package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/panoview/pkg/equirect"
	"github.com/Faultbox/panoview/pkg/imageio"
)

func cmdProbe(args []string, out io.Writer) error {
	cmd := newCommand("probe")
	srcSize := cmd.fs.String("src", "", "Panorama size WxH instead of reading -in")
	cfg, err := cmd.setup(args)
	if err != nil {
		return err
	}
	if cmd.fs.NArg() != 2 {
		return errors.New("usage: panoview probe [options] <x> <y>")
	}
	x, err := strconv.Atoi(cmd.fs.Arg(0))
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(cmd.fs.Arg(1))
	if err != nil {
		return fmt.Errorf("y: %w", err)
	}

	var srcW, srcH int
	switch {
	case *srcSize != "":
		if srcW, srcH, err = parseSize(*srcSize); err != nil {
			return err
		}
	case cfg.Input != "":
		ic, err := imageio.LoadConfig(cfg.Input)
		if err != nil {
			return err
		}
		srcW, srcH = ic.Width, ic.Height
	default:
		return errors.New("probe needs -in <image> or -src WxH")
	}

	v := cfg.View.View()
	p, err := equirect.ProbePixel(v, x, y, srcW, srcH)
	if err != nil {
		return err
	}

	ll := p.LonLat.Degrees()
	fmt.Fprintf(out, "View:    %s\n", v)
	fmt.Fprintf(out, "Pixel:   (%d, %d)\n", x, y)
	fmt.Fprintf(out, "Ray:     (%.6f, %.6f, %.6f)\n", p.Ray.X, p.Ray.Y, p.Ray.Z)
	fmt.Fprintf(out, "Rotated: (%.6f, %.6f, %.6f)\n", p.World.X, p.World.Y, p.World.Z)
	fmt.Fprintf(out, "Lon/Lat: %.4f°, %.4f°\n", ll.X, ll.Y)
	fmt.Fprintf(out, "Sample:  (%.3f, %.3f) in %dx%d\n", p.Sample.X, p.Sample.Y, srcW, srcH)
	return nil
}

// parseSize parses WxH.
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return w, h, nil
}
