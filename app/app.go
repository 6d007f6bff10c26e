// Package app runs the demo program on top of the matrix engine: snake on
// the 8x8 grid, steered with the shield's buttons.
package app

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"aberled/hal"
	"aberled/matrix"
	"aberled/matrix/shiftreg"
	"aberled/matrix/tft"
)

// DefaultBanner is how long the start-up text stays on the panel.
const DefaultBanner = 2 * time.Second

var black = color.RGBA{A: 0xFF}

// Config is the start-up configuration.
type Config struct {
	Mode        matrix.Mode
	Revision    matrix.Revision
	NoInterrupt bool
	Palette     matrix.Palette
	// Banner is how long the start-up text is shown in TFT mode; 0 skips it.
	Banner time.Duration
	// Frames stops the loop after this many exchanges; 0 runs until ctx ends.
	Frames int
	Seed   uint32
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Mode:     matrix.ModeTFT,
		Revision: matrix.Rev01,
		Palette:  matrix.DefaultPalette,
		Banner:   DefaultBanner,
		Seed:     0x12345678,
	}
}

// pace blocks between manual refreshes.
var pace = time.Sleep

// Run starts the engine on h and plays until ctx is done or cfg.Frames
// exchanges have happened.
func Run(ctx context.Context, h hal.HAL, cfg Config) error {
	log := h.Logger()
	sh := h.Shield()
	if sh == nil {
		return errors.New("app: no shield")
	}

	out, err := newOutput(ctx, h, cfg)
	if err != nil {
		return err
	}

	timer := h.Timer()
	e := matrix.New(out, matrix.Deps{
		Buttons: sh.Buttons,
		Timer:   timer,
		IRQ:     h.Interrupts(),
		Logger:  log,
	}, matrix.Config{
		Revision:    cfg.Revision,
		NoInterrupt: cfg.NoInterrupt,
	})
	if err := e.Begin(); err != nil {
		return err
	}
	logf(log, "app: mode=%s rev=%s", cfg.Mode, cfg.Revision)

	hz := out.TickHz()
	manual := cfg.NoInterrupt || timer == nil
	// One manual refresh paints a row per tick's worth of time.
	manualDelay := time.Duration(matrix.Size) * time.Second / time.Duration(hz)

	g := newSnakeGame(cfg.Revision.Buttons(), hz, cfg.Seed)
	led := h.LED()
	var heartbeat int
	var ledOn bool
	lastScore, wasAlive := 0, true

	for frame := 0; cfg.Frames <= 0 || frame < cfg.Frames; frame++ {
		if ctx.Err() != nil {
			break
		}
		if manual {
			if err := e.SampleButtons(); err != nil {
				return err
			}
			if err := e.RefreshAll(); err != nil {
				return err
			}
			pace(manualDelay)
		}
		e.Exchange()

		ticks := e.Ticks()
		if manual {
			ticks = matrix.Size
		}
		g.update(e, ticks)
		g.draw(e.Writable())
		g.label(e)

		if g.score != lastScore || g.alive != wasAlive {
			if !g.alive {
				logf(log, "app: game over score=%d", g.score)
			}
			lastScore, wasAlive = g.score, g.alive
		}

		if led != nil {
			heartbeat += ticks
			if heartbeat >= hz/2 {
				heartbeat = 0
				ledOn = !ledOn
				if ledOn {
					led.High()
				} else {
					led.Low()
				}
			}
		}
	}
	// Show the final state.
	e.Exchange()
	if manual {
		_ = e.RefreshAll()
	}
	return nil
}

func newOutput(ctx context.Context, h hal.HAL, cfg Config) (matrix.Output, error) {
	switch cfg.Mode {
	case matrix.ModeLED:
		return shiftreg.New(h.Shield()), nil
	case matrix.ModeTFT:
		panel := h.Panel()
		if panel == nil {
			return nil, errors.New("app: tft mode: no panel")
		}
		if cfg.Banner > 0 {
			showBanner(ctx, panel, cfg.Banner,
				fmt.Sprintf("mode %s", cfg.Mode),
				fmt.Sprintf("board %s", cfg.Revision),
			)
		}
		return tft.New(panel, cfg.Palette, h.Logger()), nil
	}
	return nil, fmt.Errorf("app: unknown mode %d", cfg.Mode)
}

// ParsePaletteFlag parses four comma-separated RRGGBB colours for off,
// green, red and yellow. An empty string selects the default palette.
func ParsePaletteFlag(s string) (matrix.Palette, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return matrix.DefaultPalette, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return matrix.Palette{}, fmt.Errorf("app: palette: want 4 colours, got %d", len(parts))
	}
	rgb := make([]byte, 0, 12)
	for _, p := range parts {
		p = strings.TrimPrefix(strings.TrimSpace(p), "#")
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 3 {
			return matrix.Palette{}, fmt.Errorf("app: palette: bad colour %q", p)
		}
		rgb = append(rgb, b...)
	}
	return matrix.ParsePalette(rgb)
}

func logf(l hal.Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf(format, args...))
}
