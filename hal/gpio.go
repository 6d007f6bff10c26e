package hal

import (
	"sync"
	"time"
)

// Button is a virtual active-low push-button with a pull-up.
//
// Get reports the electrical level: true when released.
type Button struct {
	mu      sync.Mutex
	name    string
	pressed bool
}

// NewButton returns a released button.
func NewButton(name string) *Button {
	return &Button{name: name}
}

func (b *Button) Name() string { return b.name }

func (b *Button) Get() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.pressed
}

// Set presses (true) or releases (false) the button.
func (b *Button) Set(pressed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pressed = pressed
}

func (b *Button) Press()   { b.Set(true) }
func (b *Button) Release() { b.Set(false) }

// pulseInput is an active-low input that reads "pressed" for the first
// active part of every period.
type pulseInput struct {
	mu     sync.Mutex
	t0     time.Time
	now    func() time.Time
	period time.Duration
	active time.Duration
}

func newPulseInput(period, active time.Duration) InputPin {
	return newPulseInputWithClock(period, active, time.Now)
}

func newPulseInputWithClock(period, active time.Duration, now func() time.Time) InputPin {
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = 1 * time.Second
	}
	if active < 0 {
		active = 0
	}
	if active > period {
		active = period
	}
	return &pulseInput{
		t0:     now(),
		now:    now,
		period: period,
		active: active,
	}
}

func (p *pulseInput) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := p.now().Sub(p.t0)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	phase := elapsed % p.period
	return phase >= p.active
}
