// panoview cuts perspective views out of 360° equirectangular panoramas.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Faultbox/panoview/internal/config"
	"github.com/Faultbox/panoview/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "render":
		err = cmdRender(ctx, args, os.Stdout)
	case "batch":
		err = cmdBatch(ctx, args, os.Stdout)
	case "probe":
		err = cmdProbe(args, os.Stdout)
	case "info":
		err = cmdInfo(args, os.Stdout)
	case "footprint":
		err = cmdFootprint(ctx, args, os.Stdout)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `panoview - perspective views from equirectangular panoramas

Usage:
  panoview <command> [options]

Commands:
  render [options] [in] [out]   Render one view
  batch  [options] [in]         Render every view listed in the config
  probe  [options] <x> <y>      Trace one output pixel onto the panorama
  info   [options] <image>      Show panorama size and angular resolution
  footprint [options] [in] [out]
                                Outline the configured views on the panorama

Common options:
  -config <file>   YAML config (default ./panoview.yaml or the user config dir)
  -fov, -theta, -phi, -width, -height
  -interp bicubic|bilinear|nearest
  -demo            Demo view: image.jpg, yaw 80, pitch 33, final_image.jpg
  -debug           Debug logging with stage timings

Examples:
  panoview render -fov 90 -theta 45 pano.jpg view.jpg
  panoview render -demo
  panoview batch -config views.yaml pano.tif
  panoview probe -in pano.jpg -theta 180 540 360`)
}

// command is a subcommand flag set carrying the shared config flags.
type command struct {
	fs    *flag.FlagSet
	flags *config.Flags
}

func newCommand(name string) *command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &command{fs: fs, flags: config.RegisterFlags(fs)}
}

// setup parses the flags, loads the config and starts logging.
func (c *command) setup(args []string) (*config.Config, error) {
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(c.flags)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	opts := logger.Options{
		Level:   cfg.Logging.Level,
		JSON:    cfg.Logging.JSON,
		Console: os.Stderr,
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("config: %+v", cfg)

	return cfg, nil
}
