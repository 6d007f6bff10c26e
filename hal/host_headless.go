//go:build !tinygo

package hal

import (
	"context"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// AutoFire, when set, presses the D9 button for a short pulse at this
	// period so the input path runs without a keyboard.
	AutoFire time.Duration
}

const autoFirePulse = 100 * time.Millisecond

// RunHeadless runs the program without opening a window. It returns when
// run returns.
func RunHeadless(ctx context.Context, run func(context.Context, HAL) error, cfg HeadlessConfig) error {
	h := newHostHAL()
	defer h.close()

	if cfg.AutoFire > 0 {
		h.shield.Buttons[4] = newPulseInput(cfg.AutoFire, autoFirePulse)
	}
	return run(ctx, h)
}
