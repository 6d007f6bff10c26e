//go:build tinygo && baremetal && cortexm

package hal

import (
	"device/arm"
	"fmt"
	"machine"
)

var sysTickISR func()

// sysTickTimer runs the isr from the SysTick exception.
type sysTickTimer struct {
	running bool
}

func newTimer() Timer { return &sysTickTimer{} }

func (t *sysTickTimer) Start(hz int, isr func()) error {
	if hz <= 0 {
		return fmt.Errorf("hal: timer: invalid frequency %d", hz)
	}
	if isr == nil {
		return errNilISR
	}
	if t.running {
		return ErrTimerRunning
	}
	sysTickISR = isr
	if err := arm.SetupSystemTimer(machine.CPUFrequency() / uint32(hz)); err != nil {
		sysTickISR = nil
		return fmt.Errorf("hal: timer: %w", err)
	}
	t.running = true
	return nil
}

func (t *sysTickTimer) Running() bool { return t.running }

//go:export SysTick_Handler
func handleSysTick() {
	if f := sysTickISR; f != nil {
		f()
	}
}
