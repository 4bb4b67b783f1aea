package main

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/logger"
	"github.com/Faultbox/panoview/pkg/imageio"
)

func cmdInfo(args []string, out io.Writer) error {
	cmd := newCommand("info")
	cfg, err := cmd.setup(args)
	if err != nil {
		return err
	}
	if cmd.fs.NArg() > 0 {
		cfg.Input = cmd.fs.Arg(0)
	}
	if cfg.Input == "" {
		return errors.New("usage: panoview info [options] <image>")
	}

	ic, err := imageio.LoadConfig(cfg.Input)
	if err != nil {
		return err
	}
	if ic.Width != 2*ic.Height {
		logger.Warn("panorama is not 2:1, longitude and latitude scales differ",
			zap.Int("width", ic.Width), zap.Int("height", ic.Height))
	}

	// Degrees per source pixel along each axis.
	lonRes := 360 / float64(ic.Width-1)
	latRes := 180 / float64(ic.Height-1)
	if ic.Width == 1 {
		lonRes = 360
	}
	if ic.Height == 1 {
		latRes = 180
	}

	v := cfg.View
	viewRes := v.FOV / float64(v.Width)

	fmt.Fprintf(out, "Image:      %s\n", cfg.Input)
	fmt.Fprintf(out, "Format:     %s\n", ic.Format)
	fmt.Fprintf(out, "Size:       %d x %d\n", ic.Width, ic.Height)
	fmt.Fprintf(out, "Resolution: %.4f°/px longitude, %.4f°/px latitude\n", lonRes, latRes)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "View:       %s\n", v.View())
	fmt.Fprintf(out, "View res:   %.4f°/px at the centre\n", viewRes)
	fmt.Fprintf(out, "Match:      width %d keeps the source resolution at fov %g\n", int(v.FOV/lonRes+0.5), v.FOV)
	return nil
}
