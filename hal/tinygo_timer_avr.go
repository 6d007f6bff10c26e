//go:build tinygo && baremetal && avr

package hal

import (
	"device/avr"
	"machine"
	"runtime/interrupt"
)

// Timer1 control bits.
const (
	timer1WGM12  = 1 << 3 // TCCR1B: clear timer on compare match
	timer1OCIE1A = 1 << 1 // TIMSK1: compare A interrupt enable
)

var timer1ISR func()

// avrTimer1 runs the isr from the Timer1 compare A interrupt.
type avrTimer1 struct {
	running bool
}

func newTimer() Timer { return &avrTimer1{} }

func (t *avrTimer1) Start(hz int, isr func()) error {
	if isr == nil {
		return errNilISR
	}
	if t.running {
		return ErrTimerRunning
	}
	s, err := timer1Config(machine.CPUFrequency(), hz)
	if err != nil {
		return err
	}

	state := interrupt.Disable()
	timer1ISR = isr
	avr.TCCR1A.Set(0)
	avr.TCCR1B.Set(0)
	avr.TCNT1H.Set(0)
	avr.TCNT1L.Set(0)
	// High byte first: it is buffered until the low byte is written.
	avr.OCR1AH.Set(uint8(s.top >> 8))
	avr.OCR1AL.Set(uint8(s.top))
	avr.TCCR1B.Set(timer1WGM12 | s.clockSelect())
	avr.TIMSK1.SetBits(timer1OCIE1A)
	interrupt.New(avr.IRQ_TIMER1_COMPA, handleTimer1)
	t.running = true
	interrupt.Restore(state)
	return nil
}

func (t *avrTimer1) Running() bool { return t.running }

func handleTimer1(interrupt.Interrupt) {
	if f := timer1ISR; f != nil {
		f()
	}
}
