//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	led    *tinyGoHostLED
	sim    *VirtualShield
	panel  *MemoryPanel
	irq    *SoftIRQ
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU
// pin mapping: the shield is simulated and the panel lives in memory.
func New() HAL {
	l := &tinyGoHostLogger{}
	return &tinyGoHostHAL{
		logger: l,
		led:    &tinyGoHostLED{logger: l},
		sim:    NewVirtualShield(),
		panel:  NewMemoryPanel(128, 160),
		irq:    NewSoftIRQ(),
	}
}

func (h *tinyGoHostHAL) Logger() Logger         { return h.logger }
func (h *tinyGoHostHAL) LED() LED               { return h.led }
func (h *tinyGoHostHAL) Shield() *Shield        { return h.sim.Shield() }
func (h *tinyGoHostHAL) Panel() Panel           { return h.panel }
func (h *tinyGoHostHAL) Timer() Timer           { return h.irq }
func (h *tinyGoHostHAL) Interrupts() Interrupts { return h.irq }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	on     bool
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	l.on = true
	l.logger.WriteLineString(fmt.Sprintf("led: HIGH (tinygo/%s)", runtime.GOOS))
}

func (l *tinyGoHostLED) Low() {
	l.on = false
	l.logger.WriteLineString(fmt.Sprintf("led: LOW (tinygo/%s)", runtime.GOOS))
}
