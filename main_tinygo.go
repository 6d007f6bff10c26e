//go:build tinygo

package main

import (
	"context"

	"aberled/app"
	"aberled/hal"
	"aberled/matrix"
)

// Set with -ldflags "-X main.displayMode=led" and so on.
var (
	displayMode   = "tft"
	boardRevision = "1"
	noInterrupt   = ""
)

func main() {
	h := hal.New()
	log := h.Logger()

	cfg := app.DefaultConfig()
	if m, err := matrix.ParseMode(displayMode); err == nil {
		cfg.Mode = m
	} else {
		log.WriteLineString(err.Error())
	}
	if r, err := matrix.ParseRevision(boardRevision); err == nil {
		cfg.Revision = r
	} else {
		log.WriteLineString(err.Error())
	}
	cfg.NoInterrupt = noInterrupt != ""

	if err := app.Run(context.Background(), h, cfg); err != nil {
		if cfg.Mode == matrix.ModeTFT {
			app.ShowFault(h, err)
		} else {
			log.WriteLineString(err.Error())
		}
	}
	select {}
}
