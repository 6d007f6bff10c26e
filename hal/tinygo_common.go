//go:build tinygo && baremetal

package hal

import (
	"machine"
	"runtime/interrupt"
)

type serialLogger struct {
	s machine.Serialer
}

func (l *serialLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.s.WriteByte(s[i])
	}
	l.s.WriteByte('\r')
	l.s.WriteByte('\n')
}

func (l *serialLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.s.WriteByte(b[i])
	}
	l.s.WriteByte('\r')
	l.s.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// tinyGoInterrupts masks every interrupt on the core.
type tinyGoInterrupts struct{}

func (tinyGoInterrupts) Disable() InterruptState {
	return InterruptState(interrupt.Disable())
}

func (tinyGoInterrupts) Restore(state InterruptState) {
	interrupt.Restore(interrupt.State(state))
}
