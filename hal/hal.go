package hal

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Pin is a minimal output pin abstraction. machine.Pin satisfies it.
type Pin interface {
	High()
	Low()
}

// InputPin reads a digital level. machine.Pin satisfies it.
type InputPin interface {
	Get() bool
}

// LED is the on-board indicator.
type LED = Pin

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrTimerRunning   = errors.New("hal: timer: already running")

	errNilISR = errors.New("hal: timer: nil isr")
)

// Panel is a colour display that can fill rectangles.
//
// It matches the method set of the TinyGo drivers' SPI TFT devices so a
// *st7735.Device can be used directly.
type Panel interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
	SetScroll(line int16)
	SetRotation(rotation drivers.Rotation) error
}

// Shield is the pin set of the LED shield.
//
// Buttons are in physical order: A0, A1, A2, A3, D9. They are wired
// active-low with pull-ups.
type Shield struct {
	RowData  Pin
	RowLatch Pin
	RowClock Pin

	ColData  Pin
	ColClock Pin
	ColLatch Pin

	Buttons [5]InputPin
}

// InterruptState is the saved mask returned by Interrupts.Disable.
type InterruptState uintptr

// Interrupts masks the periodic tick.
//
// Disable/Restore pairs must not nest.
type Interrupts interface {
	Disable() InterruptState
	Restore(state InterruptState)
}

// Timer drives a periodic interrupt.
//
// The isr is never re-entered and never runs while interrupts are disabled.
type Timer interface {
	Start(hz int, isr func()) error
	Running() bool
}

// HAL provides the only contact point between the engine and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Shield() *Shield
	Panel() Panel
	Timer() Timer
	Interrupts() Interrupts
}
