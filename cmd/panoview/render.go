package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/panoview/internal/config"
	"github.com/Faultbox/panoview/internal/logger"
	"github.com/Faultbox/panoview/internal/sources"
	"github.com/Faultbox/panoview/pkg/equirect"
	"github.com/Faultbox/panoview/pkg/imageio"
)

var errNoInput = errors.New("no input image (pass it as an argument, -in or input: in the config)")

// newSources returns a panorama cache that opens files with the render settings.
func newSources(cfg *config.Config) (*sources.Manager, error) {
	remapOpts, err := cfg.RemapOptions()
	if err != nil {
		return nil, err
	}
	return sources.NewManager(logger.Named("sources"),
		equirect.WithWorkers(cfg.Render.Workers),
		equirect.WithLogger(logger.Named("equirect")),
		equirect.WithRemapOptions(remapOpts),
	), nil
}

// renderView cuts one view from src and writes it to path.
func renderView(ctx context.Context, src *equirect.Equirectangular, v equirect.View, path string, enc imageio.EncodeOptions) error {
	img, err := src.Perspective(ctx, v)
	if err != nil {
		return err
	}
	if err := imageio.Save(path, img, enc); err != nil {
		return err
	}
	logger.Info("view written", zap.Stringer("view", v), zap.String("path", path))
	return nil
}

func cmdRender(ctx context.Context, args []string, out io.Writer) error {
	start := time.Now()

	cmd := newCommand("render")
	cfg, err := cmd.setup(args)
	if err != nil {
		return err
	}
	if cmd.fs.NArg() > 0 {
		cfg.Input = cmd.fs.Arg(0)
	}
	if cmd.fs.NArg() > 1 {
		cfg.Output.Path = cmd.fs.Arg(1)
	}
	if cfg.Input == "" {
		return errNoInput
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
	if err := renderView(ctx, src, cfg.View.View(), cfg.Output.Path, enc); err != nil {
		return err
	}

	fmt.Fprintf(out, "%.6f\n", time.Since(start).Seconds())
	return nil
}

func cmdBatch(ctx context.Context, args []string, out io.Writer) error {
	start := time.Now()

	cmd := newCommand("batch")
	cfg, err := cmd.setup(args)
	if err != nil {
		return err
	}
	if cmd.fs.NArg() > 0 {
		cfg.Input = cmd.fs.Arg(0)
	}
	views := cfg.BatchViews()
	if len(views) == 0 {
		return errors.New("no views configured (add a views: list to the config)")
	}
	enc, err := cfg.EncodeOptions()
	if err != nil {
		return err
	}
	srcs, err := newSources(cfg)
	if err != nil {
		return err
	}

	// A failed view does not stop the batch; every failure is reported.
	var errs error
	rendered := 0
	for _, v := range views {
		if ctx.Err() != nil {
			errs = multierr.Append(errs, ctx.Err())
			break
		}
		viewStart := time.Now()
		if err := batchView(ctx, srcs, v, enc); err != nil {
			logger.Error("view failed", zap.String("name", v.Name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("view %q: %w", v.Name, err))
			continue
		}
		rendered++
		fmt.Fprintf(out, "%s\t%s\t%.6f\n", v.Name, v.Output, time.Since(viewStart).Seconds())
	}

	hits, misses := srcs.Stats()
	logger.Info("batch finished",
		zap.Int("rendered", rendered),
		zap.Int("failed", len(multierr.Errors(errs))),
		zap.Int("panoramas", misses),
		zap.Int("reused", hits),
		zap.Duration("elapsed", time.Since(start)),
	)
	fmt.Fprintf(out, "%.6f\n", time.Since(start).Seconds())
	return errs
}

func batchView(ctx context.Context, srcs *sources.Manager, v config.NamedView, enc imageio.EncodeOptions) error {
	if v.Input == "" {
		return errNoInput
	}
	src, err := srcs.Open(v.Input)
	if err != nil {
		return err
	}
	return renderView(ctx, src, v.View(), v.Output, enc)
}
