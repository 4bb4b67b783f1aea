package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/logger"
	"github.com/Faultbox/panoview/internal/overlay"
	"github.com/Faultbox/panoview/pkg/equirect"
	"github.com/Faultbox/panoview/pkg/imageio"
)

// cmdFootprint draws the configured view, and every batch view reading the
// same panorama, onto a copy of the panorama.
func cmdFootprint(ctx context.Context, args []string, out io.Writer) error {
	start := time.Now()

	cmd := newCommand("footprint")
	lineWidth := cmd.fs.Float64("line", 3, "Outline width in panorama pixels")
	cfg, err := cmd.setup(args)
	if err != nil {
		return err
	}
	if cmd.fs.NArg() > 0 {
		cfg.Input = cmd.fs.Arg(0)
	}
	if cfg.Input == "" {
		return errNoInput
	}
	dst := footprintPath(cfg.Input)
	if cmd.fs.NArg() > 1 {
		dst = cmd.fs.Arg(1)
	}
	enc, err := cfg.EncodeOptions()
	if err != nil {
		return err
	}

	srcs, err := newSources(cfg)
	if err != nil {
		return err
	}
	src, err := srcs.Open(cfg.Input)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	named := []struct {
		label string
		view  equirect.View
	}{{"view", cfg.View.View()}}
	for _, v := range cfg.BatchViews() {
		if filepath.Clean(v.Input) == filepath.Clean(cfg.Input) {
			named = append(named, struct {
				label string
				view  equirect.View
			}{v.Name, v.View()})
		}
	}

	// One outline point every ~10 output pixels is smooth at any panorama scale.
	var footprints []overlay.Footprint
	for _, n := range named {
		paths, err := equirect.Outline(n.view, src.Width(), src.Height(), 10)
		if err != nil {
			return fmt.Errorf("%s: %w", n.label, err)
		}
		footprints = append(footprints, overlay.Footprint{Label: n.label, Paths: paths})
		logger.Debug("footprint traced", zap.String("label", n.label), zap.Int("paths", len(paths)))
	}

	img := overlay.Draw(src.Source(), footprints, *lineWidth)
	if err := imageio.Save(dst, img, enc); err != nil {
		return err
	}
	logger.Info("footprints written", zap.Int("views", len(footprints)), zap.String("path", dst))

	fmt.Fprintf(out, "%.6f\n", time.Since(start).Seconds())
	return nil
}

// footprintPath derives the default output path, pano.jpg -> pano_footprint.jpg.
func footprintPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_footprint" + ext
}
