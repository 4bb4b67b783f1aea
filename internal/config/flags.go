package config

import "flag"

// Flags holds the command-line overrides registered on one flag set.
type Flags struct {
	fs *flag.FlagSet

	config  *string
	debug   *bool
	demo    *bool
	input   *string
	output  *string
	fov     *float64
	theta   *float64
	phi     *float64
	width   *int
	height  *int
	interp  *string
	workers *int
	quality *int
}

// RegisterFlags adds the config flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:      fs,
		config:  fs.String("config", "", "Path to config file"),
		debug:   fs.Bool("debug", false, "Enable debug logging"),
		demo:    fs.Bool("demo", false, "Start from the demo view (image.jpg, yaw 80, pitch 33, final_image.jpg)"),
		input:   fs.String("in", "", "Equirectangular input image"),
		output:  fs.String("out", "", "Output image path"),
		fov:     fs.Float64("fov", 0, "Horizontal field of view in degrees, in (0, 180)"),
		theta:   fs.Float64("theta", 0, "Yaw in degrees"),
		phi:     fs.Float64("phi", 0, "Pitch in degrees"),
		width:   fs.Int("width", 0, "Output width in pixels"),
		height:  fs.Int("height", 0, "Output height in pixels"),
		interp:  fs.String("interp", "", "Interpolation: bicubic, bilinear or nearest"),
		workers: fs.Int("workers", -1, "Concurrent scanline bands (0 = all CPUs)"),
		quality: fs.Int("quality", 0, "JPEG quality 1-100"),
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func (f *Flags) ConfigPath() string {
	return *f.config
}

// Demo reports whether --demo was given.
func (f *Flags) Demo() bool {
	return *f.demo
}

// set reports whether the named flag was given on the command line, so that
// zero angles can override a file.
func (f *Flags) set(name string) bool {
	found := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// applyFlags applies CLI flag overrides to the config.
func (f *Flags) applyFlags(cfg *Config) {
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.input != "" {
		cfg.Input = *f.input
	}
	if *f.output != "" {
		cfg.Output.Path = *f.output
	}
	if f.set("fov") {
		cfg.View.FOV = *f.fov
	}
	if f.set("theta") {
		cfg.View.Theta = *f.theta
	}
	if f.set("phi") {
		cfg.View.Phi = *f.phi
	}
	if *f.width > 0 {
		cfg.View.Width = *f.width
	}
	if *f.height > 0 {
		cfg.View.Height = *f.height
	}
	if *f.interp != "" {
		cfg.Render.Interpolation = *f.interp
	}
	if *f.workers >= 0 {
		cfg.Render.Workers = *f.workers
	}
	if *f.quality != 0 {
		cfg.Output.JPEGQuality = *f.quality
	}
}
