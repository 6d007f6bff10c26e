//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

// Host panel size, matching the 1.8" shield.
const (
	hostPanelWidth  = 128
	hostPanelHeight = 160
)

// Keys maps the host arrow keys and space bar to shield buttons, as
// indexes into Shield.Buttons. A negative index leaves the key unbound.
type Keys struct {
	Up, Down, Left, Right, Fire int
}

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	sim    *VirtualShield
	shield Shield
	panel  *MemoryPanel
	irq    *SoftIRQ
}

// New returns a host HAL implementation.
func New() HAL {
	return newHostHAL()
}

func newHostHAL() *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	sim := NewVirtualShield()
	return &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		sim:    sim,
		shield: *sim.Shield(),
		panel:  NewMemoryPanel(hostPanelWidth, hostPanelHeight),
		irq:    NewSoftIRQ(),
	}
}

func (h *hostHAL) Logger() Logger         { return h.logger }
func (h *hostHAL) LED() LED               { return h.led }
func (h *hostHAL) Shield() *Shield        { return &h.shield }
func (h *hostHAL) Panel() Panel           { return h.panel }
func (h *hostHAL) Timer() Timer           { return h.irq }
func (h *hostHAL) Interrupts() Interrupts { return h.irq }

// close stops the refresh timer and reports what the shield saw.
func (h *hostHAL) close() {
	h.irq.Stop()
	if h.sim.Active() {
		h.logger.WriteLineString(fmt.Sprintf("host: %s latches=%d", h.sim, h.sim.Latches()))
	}
	h.logger.WriteLineString(fmt.Sprintf("host: refresh ticks=%d", h.irq.Fired()))
}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// hostLED tracks the indicator state and logs only changes.
type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() { l.set(true) }
func (l *hostLED) Low()  { l.set(false) }

func (l *hostLED) set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on == on {
		return
	}
	l.on = on
	if on {
		l.logger.WriteLineString("led: HIGH")
	} else {
		l.logger.WriteLineString("led: LOW")
	}
}

func (l *hostLED) isOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
