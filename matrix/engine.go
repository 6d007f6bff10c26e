package matrix

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"

	"aberled/hal"
)

// Mode selects the output device.
type Mode uint8

const (
	// ModeTFT relays the frame to a colour panel as filled cells.
	ModeTFT Mode = iota
	// ModeLED drives the bicolor matrix through its shift registers.
	ModeLED
)

// ParseMode accepts "tft" or "led" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tft", "":
		return ModeTFT, nil
	case "led":
		return ModeLED, nil
	}
	return ModeTFT, fmt.Errorf("matrix: unknown mode %q", s)
}

func (m Mode) String() string {
	if m == ModeLED {
		return "led"
	}
	return "tft"
}

// ErrAutoRefresh is returned by RefreshAll while the refresh interrupt is running.
var ErrAutoRefresh = errors.New("matrix: refresh: automatic refresh is running")

// Config is the start-up configuration.
type Config struct {
	Revision Revision
	// NoInterrupt leaves the refresh timer off; the caller must call
	// RefreshAll often enough to keep the display lit.
	NoInterrupt bool
}

// Deps are the platform pieces the engine runs on.
type Deps struct {
	// Buttons in physical order (A0, A1, A2, A3, D9), active-low.
	Buttons [NumButtons]hal.InputPin
	Timer   hal.Timer
	IRQ     hal.Interrupts
	Logger  hal.Logger
}

// Engine is the refresh and input engine. There must be only one per
// process; it owns the shared state of the tick and the application.
//
// Tick runs in interrupt context. Every other method is for the
// application and must not be called from the tick.
type Engine struct {
	out   Output
	text  TextPainter
	timer hal.Timer
	irq   hal.Interrupts
	log   hal.Logger
	cfg   Config

	// Shared with the tick; swapped under the mask.
	frames store
	live   atomic.Uint32

	// Tick-owned.
	scan scanner
	btn  debouncer

	// Application-owned snapshots, written only by Exchange.
	ticks    int
	states   [NumButtons]bool
	wentDown [NumButtons]bool

	overlay overlay
}

// New returns an engine painting on out. Begin must be called before use.
func New(out Output, deps Deps, cfg Config) *Engine {
	e := &Engine{
		out:   out,
		timer: deps.Timer,
		irq:   deps.IRQ,
		log:   deps.Logger,
		cfg:   cfg,
	}
	if tp, ok := out.(TextPainter); ok {
		e.text = tp
	}
	if e.irq == nil {
		e.irq = noMask{}
	}
	e.frames.reset()
	e.btn.reset(deps.Buttons, cfg.Revision)
	return e
}

// Begin clears both frames, blanks the output and, unless NoInterrupt is
// set, starts the refresh interrupt.
func (e *Engine) Begin() error {
	st := e.irq.Disable()
	e.frames.reset()
	e.scan = scanner{}
	e.btn.reset(e.btn.inputs, e.cfg.Revision)
	e.overlay = overlay{}
	e.live.Store(0)
	e.out.Reset()
	e.irq.Restore(st)

	hz := e.out.TickHz()
	if e.cfg.NoInterrupt || e.timer == nil {
		e.logf("matrix: started rev=%s hz=manual", e.cfg.Revision)
		return nil
	}
	if err := e.timer.Start(hz, e.Tick); err != nil {
		return fmt.Errorf("matrix: start refresh: %w", err)
	}
	e.logf("matrix: started rev=%s hz=%d", e.cfg.Revision, hz)
	return nil
}

// Tick is the interrupt body: scan one row of the visible frame and sample
// one button channel.
func (e *Engine) Tick() {
	e.scan.step(e.frames.front, e.out)
	e.btn.sample()
	e.live.Add(1)
}

// Writable returns the frame the application may draw into. It becomes a
// different frame after every Exchange.
func (e *Engine) Writable() *Frame { return e.frames.back }

// Set writes one pixel of the writable frame; out-of-range coordinates are ignored.
func (e *Engine) Set(x, y int, c Color) { e.frames.back.Set(x, y, c) }

// Clear blanks the writable frame.
func (e *Engine) Clear() { e.frames.back.Clear() }

// Exchange publishes the writable frame and snapshots the input state.
//
// When the refresh interrupt is running it returns only after the new
// visible frame has been scanned for at least two rows.
func (e *Engine) Exchange() {
	st := e.irq.Disable()
	e.btn.snapshot(&e.states, &e.wentDown)
	e.ticks = int(e.live.Swap(0))
	e.frames.swap()
	if e.text != nil {
		e.overlay.flush(e.text)
	}
	e.irq.Restore(st)

	// Stop may land mid-wait, so the timer is asked again each round.
	for e.timer != nil && e.timer.Running() && e.live.Load() < 2 {
		runtime.Gosched()
	}
}

// Ticks returns the number of refresh interrupts in the last exchange interval.
func (e *Engine) Ticks() int { return e.ticks }

// IsDown reports the debounced state of b as of the last Exchange.
func (e *Engine) IsDown(b Button) bool {
	if b < 1 || b > NumButtons {
		return false
	}
	return e.states[b-1]
}

// WentDown reports whether b was pressed during the interval ending at the
// last Exchange, however briefly.
func (e *Engine) WentDown(b Button) bool {
	if b < 1 || b > NumButtons {
		return false
	}
	return e.wentDown[b-1]
}

// ClearText empties the pending label. No-op without a text strip.
func (e *Engine) ClearText() {
	if e.text == nil {
		return
	}
	e.overlay.pending.reset()
}

// AppendText adds s to the pending label. It is dropped whole if the label
// would overflow. No-op without a text strip.
func (e *Engine) AppendText(s string) {
	if e.text == nil {
		return
	}
	e.overlay.pending.append(s)
}

// AppendInt adds the decimal form of n to the pending label.
func (e *Engine) AppendInt(n int) {
	if e.text == nil {
		return
	}
	e.overlay.appendInt(n)
}

// Text returns the pending label.
func (e *Engine) Text() string { return e.overlay.pending.String() }

// RefreshAll scans all eight rows of the visible frame by hand and then
// blanks the output. It refuses to run while the refresh interrupt owns
// the row cursor.
func (e *Engine) RefreshAll() error {
	if e.timer != nil && e.timer.Running() {
		return ErrAutoRefresh
	}
	e.scan.cursor = 0
	for i := 0; i < Size; i++ {
		e.scan.step(e.frames.front, e.out)
	}
	e.out.Settle()
	return nil
}

// SampleButtons runs one full round of the debouncer by hand, for callers
// that started without the refresh interrupt.
func (e *Engine) SampleButtons() error {
	if e.timer != nil && e.timer.Running() {
		return ErrAutoRefresh
	}
	for i := 0; i < NumButtons; i++ {
		e.btn.sample()
	}
	return nil
}

func (e *Engine) logf(format string, args ...any) {
	if e.log == nil {
		return
	}
	e.log.WriteLineString(fmt.Sprintf(format, args...))
}

type noMask struct{}

func (noMask) Disable() hal.InterruptState { return 0 }
func (noMask) Restore(hal.InterruptState)  {}
