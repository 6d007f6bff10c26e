package app

import (
	"context"
	"fmt"
	"time"

	"aberled/hal"
	"aberled/internal/buildinfo"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// showBanner prints the start-up text on the panel and holds it for d.
func showBanner(ctx context.Context, panel hal.Panel, d time.Duration, lines ...string) {
	w, h := panel.Size()
	_ = panel.FillRectangle(0, 0, w, h, black)

	t := tinyterm.NewTerminal(panel)
	t.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: 10,
		FontOffset: 6,
	})
	fmt.Fprintf(t, "AberLED %s\n", buildinfo.Short())
	for _, l := range lines {
		fmt.Fprintf(t, "%s\n", l)
	}
	_ = panel.Display()

	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
