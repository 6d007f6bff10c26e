//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"aberled/app"
	"aberled/hal"
	"aberled/matrix"
)

func main() {
	var (
		hcfg     hal.HeadlessConfig
		mode     string
		rev      string
		palette  string
		noIRQ    bool
		frames   int
		noBanner bool
		useGPIO  bool
	)
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.DurationVar(&hcfg.AutoFire, "auto-fire", 0, "Headless: press fire at this period (0 = never).")
	flag.StringVar(&mode, "mode", "tft", "Display: tft or led.")
	flag.StringVar(&rev, "rev", "1", "Board revision: 0 (beige) or 1 (black).")
	flag.StringVar(&palette, "palette", "", "TFT colours for off,green,red,yellow as RRGGBB,RRGGBB,RRGGBB,RRGGBB.")
	flag.BoolVar(&noIRQ, "no-interrupt", false, "Refresh by hand instead of from the timer.")
	flag.IntVar(&frames, "frames", 0, "Stop after N frames (0 = run forever).")
	flag.BoolVar(&noBanner, "no-banner", false, "Skip the start-up banner.")
	flag.BoolVar(&useGPIO, "gpio", false, "Drive a real shield from host GPIO (LED mode only).")
	flag.Parse()

	cfg, err := buildConfig(mode, rev, palette)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.NoInterrupt = noIRQ
	cfg.Frames = frames
	if noBanner {
		cfg.Banner = 0
	}

	run := func(ctx context.Context, h hal.HAL) error {
		return app.Run(ctx, h, cfg)
	}
	switch {
	case useGPIO:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunGPIO(ctx, run, hal.DefaultGPIOConfig())
	case hcfg.Enabled:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, run, hcfg)
	default:
		err = hal.RunWindow(run, keysFor(cfg.Revision))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildConfig(mode, rev, palette string) (app.Config, error) {
	cfg := app.DefaultConfig()
	var err error
	if cfg.Mode, err = matrix.ParseMode(mode); err != nil {
		return cfg, err
	}
	if cfg.Revision, err = matrix.ParseRevision(rev); err != nil {
		return cfg, err
	}
	if cfg.Palette, err = app.ParsePaletteFlag(palette); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// keysFor binds the arrow keys to whichever inputs carry those roles on rev.
func keysFor(rev matrix.Revision) hal.Keys {
	b := rev.Buttons()
	return hal.Keys{
		Up:    rev.PinIndex(b.Up),
		Down:  rev.PinIndex(b.Down),
		Left:  rev.PinIndex(b.Left),
		Right: rev.PinIndex(b.Right),
		Fire:  rev.PinIndex(b.Fire),
	}
}
