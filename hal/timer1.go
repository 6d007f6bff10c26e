package hal

import "fmt"

// timer1Setting is a clock-select/compare pair for a 16-bit CTC timer.
type timer1Setting struct {
	prescale uint16
	top      uint16
}

// timer1Prescalers are the dividers an ATmega Timer1 can select.
var timer1Prescalers = [...]uint16{1, 8, 64, 256, 1024}

// timer1Presets are the known-good settings at 16 MHz.
var timer1Presets = map[int]timer1Setting{
	500: {prescale: 8, top: 3999},
	200: {prescale: 64, top: 1249},
}

// timer1Config returns the prescaler and compare value giving hz
// interrupts per second from a cpuHz clock.
func timer1Config(cpuHz uint32, hz int) (timer1Setting, error) {
	if hz <= 0 {
		return timer1Setting{}, fmt.Errorf("hal: timer: invalid frequency %d", hz)
	}
	if cpuHz == 16_000_000 {
		if s, ok := timer1Presets[hz]; ok {
			return s, nil
		}
	}
	for _, p := range timer1Prescalers {
		ticks := uint64(cpuHz) / (uint64(p) * uint64(hz))
		if ticks >= 1 && ticks <= 1<<16 {
			return timer1Setting{prescale: p, top: uint16(ticks - 1)}, nil
		}
	}
	return timer1Setting{}, fmt.Errorf("hal: timer: %d Hz out of range", hz)
}

// clockSelect returns the CS1[2:0] bits for the prescaler.
func (s timer1Setting) clockSelect() uint8 {
	switch s.prescale {
	case 1:
		return 0b001
	case 8:
		return 0b010
	case 64:
		return 0b011
	case 256:
		return 0b100
	case 1024:
		return 0b101
	}
	return 0
}
