//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"os"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIOConfig names the host GPIO lines wired to the shield, as known to
// periph's registry (for example "GPIO17" on a Raspberry Pi).
type GPIOConfig struct {
	RowData, RowLatch, RowClock string
	ColData, ColClock, ColLatch string

	// Physical order: A0, A1, A2, A3, D9.
	Buttons [5]string
}

// DefaultGPIOConfig is a Raspberry Pi header wiring that leaves the SPI,
// I2C and UART pins free.
func DefaultGPIOConfig() GPIOConfig {
	return GPIOConfig{
		RowData:  "GPIO17",
		RowLatch: "GPIO27",
		RowClock: "GPIO22",
		ColData:  "GPIO23",
		ColClock: "GPIO24",
		ColLatch: "GPIO25",
		Buttons:  [5]string{"GPIO5", "GPIO6", "GPIO13", "GPIO19", "GPIO26"},
	}
}

// RunGPIO drives a real shield from host GPIO lines. There is no panel, so
// only the LED output works. It returns when run returns.
func RunGPIO(ctx context.Context, run func(context.Context, HAL) error, cfg GPIOConfig) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("hal: gpio: %w", err)
	}
	sh, err := openShield(cfg, gpioreg.ByName)
	if err != nil {
		return err
	}
	h := &gpioHAL{
		logger: &hostLogger{w: os.Stdout},
		shield: sh,
		irq:    NewSoftIRQ(),
	}
	defer h.irq.Stop()
	return run(ctx, h)
}

func openShield(cfg GPIOConfig, lookup func(name string) gpio.PinIO) (Shield, error) {
	var sh Shield
	out := []struct {
		name string
		dst  *Pin
	}{
		{cfg.RowData, &sh.RowData},
		{cfg.RowLatch, &sh.RowLatch},
		{cfg.RowClock, &sh.RowClock},
		{cfg.ColData, &sh.ColData},
		{cfg.ColClock, &sh.ColClock},
		{cfg.ColLatch, &sh.ColLatch},
	}
	for _, o := range out {
		p := lookup(o.name)
		if p == nil {
			return Shield{}, fmt.Errorf("hal: gpio: no pin %q", o.name)
		}
		if err := p.Out(gpio.Low); err != nil {
			return Shield{}, fmt.Errorf("hal: gpio: %s: %w", o.name, err)
		}
		*o.dst = periphOut{p: p}
	}
	for i, name := range cfg.Buttons {
		p := lookup(name)
		if p == nil {
			return Shield{}, fmt.Errorf("hal: gpio: no pin %q", name)
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return Shield{}, fmt.Errorf("hal: gpio: %s: %w", name, err)
		}
		sh.Buttons[i] = periphIn{p: p}
	}
	return sh, nil
}

type periphOut struct {
	p gpio.PinIO
}

func (o periphOut) High() { _ = o.p.Out(gpio.High) }
func (o periphOut) Low()  { _ = o.p.Out(gpio.Low) }

type periphIn struct {
	p gpio.PinIO
}

func (i periphIn) Get() bool { return i.p.Read() == gpio.High }

type gpioHAL struct {
	logger *hostLogger
	shield Shield
	irq    *SoftIRQ
}

func (h *gpioHAL) Logger() Logger         { return h.logger }
func (h *gpioHAL) LED() LED               { return nil }
func (h *gpioHAL) Shield() *Shield        { return &h.shield }
func (h *gpioHAL) Panel() Panel           { return nil }
func (h *gpioHAL) Timer() Timer           { return h.irq }
func (h *gpioHAL) Interrupts() Interrupts { return h.irq }
