package matrix

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"aberled/hal"
)

type paint struct {
	y   int
	row uint16
}

type recordOutput struct {
	mu      sync.Mutex
	hz      int
	paints  []paint
	resets  int
	settles int
}

func (o *recordOutput) TickHz() int {
	if o.hz == 0 {
		return 500
	}
	return o.hz
}

func (o *recordOutput) Reset() {
	o.mu.Lock()
	o.resets++
	o.mu.Unlock()
}

func (o *recordOutput) PaintRow(y int, row uint16) {
	o.mu.Lock()
	o.paints = append(o.paints, paint{y: y, row: row})
	o.mu.Unlock()
}

func (o *recordOutput) Settle() {
	o.mu.Lock()
	o.settles++
	o.mu.Unlock()
}

func (o *recordOutput) take() []paint {
	o.mu.Lock()
	defer o.mu.Unlock()
	p := o.paints
	o.paints = nil
	return p
}

type textOutput struct {
	recordOutput
	texts []string
}

func (o *textOutput) PaintText(s string) { o.texts = append(o.texts, s) }

type fakeTimer struct {
	hz      int
	isr     func()
	running bool
	err     error
}

func (t *fakeTimer) Start(hz int, isr func()) error {
	if t.err != nil {
		return t.err
	}
	t.hz = hz
	t.isr = isr
	t.running = true
	return nil
}

func (t *fakeTimer) Running() bool { return t.running }

type lines struct{ got []string }

func (l *lines) WriteLineString(s string) { l.got = append(l.got, s) }
func (l *lines) WriteLineBytes(b []byte)  { l.got = append(l.got, string(b)) }

func newManualEngine(t *testing.T, out Output) (*Engine, [NumButtons]*hal.Button) {
	t.Helper()
	bs, pins := newTestButtons()
	e := New(out, Deps{Buttons: pins}, Config{Revision: Rev01, NoInterrupt: true})
	if err := e.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return e, bs
}

func TestWritesDoNotReachVisibleFrameBeforeExchange(t *testing.T) {
	e, _ := newManualEngine(t, &recordOutput{})

	visible := *e.frames.front
	for i := 0; i < 64; i++ {
		e.Set(i%8, i/8, Color(i%4))
		if *e.frames.front != visible {
			t.Fatalf("visible frame changed after Set #%d", i)
		}
	}
	w := *e.Writable()
	e.Exchange()
	if *e.frames.front != w {
		t.Fatal("Exchange did not publish the writable frame")
	}
	if e.Writable() == e.frames.front {
		t.Fatal("writable and visible alias after Exchange")
	}
}

func TestClearOnlyTouchesWritable(t *testing.T) {
	e, _ := newManualEngine(t, &recordOutput{})
	e.Set(0, 0, Red)
	e.Exchange()
	e.Set(1, 1, Green)
	e.Clear()
	if *e.Writable() != (Frame{}) {
		t.Fatal("Clear left pixels in writable frame")
	}
	if e.frames.front.At(0, 0) != Red {
		t.Fatal("Clear touched visible frame")
	}
}

func TestTickScansVisibleRowsInOrder(t *testing.T) {
	out := &recordOutput{}
	e, _ := newManualEngine(t, out)
	for y := 0; y < Size; y++ {
		e.Writable()[y] = 0x100 + uint16(y)
	}
	e.Exchange()

	// Start from an arbitrary cursor position.
	for i := 0; i < 3; i++ {
		e.Tick()
	}
	start := e.scan.cursor
	out.take()

	for i := 0; i < Size; i++ {
		e.Tick()
	}
	if e.scan.cursor != start {
		t.Fatalf("cursor = %d after 8 ticks, want %d", e.scan.cursor, start)
	}
	seen := make(map[int]bool)
	for i, p := range out.take() {
		want := (start + i) % Size
		if p.y != want {
			t.Fatalf("paint %d: row %d, want %d", i, p.y, want)
		}
		if p.row != 0x100+uint16(p.y) {
			t.Fatalf("row %d painted %#x, want visible data", p.y, p.row)
		}
		seen[p.y] = true
	}
	if len(seen) != Size {
		t.Fatalf("rows painted = %d, want %d", len(seen), Size)
	}
}

func TestExchangeSnapshotsTicks(t *testing.T) {
	e, _ := newManualEngine(t, &recordOutput{})
	for i := 0; i < 13; i++ {
		e.Tick()
	}
	e.Exchange()
	if got := e.Ticks(); got != 13 {
		t.Fatalf("Ticks() = %d, want 13", got)
	}
	e.Exchange()
	if got := e.Ticks(); got != 0 {
		t.Fatalf("Ticks() = %d after idle exchange, want 0", got)
	}
}

func TestExchangeLatchesShortPress(t *testing.T) {
	e, bs := newManualEngine(t, &recordOutput{})
	up := Rev01.Buttons().Up

	bs[Rev01.PinIndex(up)].Press()
	for i := 0; i < NumButtons; i++ {
		e.Tick()
	}
	bs[Rev01.PinIndex(up)].Release()
	for i := 0; i < 10*NumButtons; i++ {
		e.Tick()
	}

	if e.WentDown(up) {
		t.Fatal("WentDown visible before Exchange")
	}
	e.Exchange()
	if !e.WentDown(up) {
		t.Fatal("short press lost across exchange interval")
	}
	if e.IsDown(up) {
		t.Fatal("short press reported as held")
	}
	e.Exchange()
	if e.WentDown(up) {
		t.Fatal("WentDown not cleared by next Exchange")
	}
}

func TestIsDownFollowsDebouncedState(t *testing.T) {
	e, bs := newManualEngine(t, &recordOutput{})
	fire := Rev01.Buttons().Fire
	bs[Rev01.PinIndex(fire)].Press()
	for i := 0; i < 6*NumButtons; i++ {
		e.Tick()
	}
	e.Exchange()
	if !e.IsDown(fire) {
		t.Fatal("IsDown(fire) = false while held")
	}
	for _, b := range []Button{0, 6, 255} {
		if e.IsDown(b) || e.WentDown(b) {
			t.Fatalf("button %d reported active", b)
		}
	}
}

func TestExchangeWaitsForTwoScans(t *testing.T) {
	out := &recordOutput{}
	_, pins := newTestButtons()
	irq := hal.NewSoftIRQ()
	defer irq.Stop()

	e := New(out, Deps{Buttons: pins, Timer: irq, IRQ: irq}, Config{Revision: Rev01})
	if err := e.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	for frame := 0; frame < 3; frame++ {
		for y := 0; y < Size; y++ {
			e.Writable()[y] = uint16(frame+1)<<8 | uint16(y)
		}
		st := irq.Disable()
		out.take()
		irq.Restore(st)

		e.Exchange()

		st = irq.Disable()
		paints := out.take()
		irq.Restore(st)

		scanned := 0
		for _, p := range paints {
			if p.row == uint16(frame+1)<<8|uint16(p.y) {
				scanned++
			}
		}
		if scanned < 2 {
			t.Fatalf("frame %d: %d rows scanned before Exchange returned, want >= 2", frame, scanned)
		}
	}
}

func TestRefreshAllGuardsRunningTimer(t *testing.T) {
	out := &recordOutput{}
	_, pins := newTestButtons()
	timer := &fakeTimer{}
	e := New(out, Deps{Buttons: pins, Timer: timer}, Config{})
	if err := e.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := e.RefreshAll(); !errors.Is(err, ErrAutoRefresh) {
		t.Fatalf("RefreshAll err = %v, want ErrAutoRefresh", err)
	}
	if err := e.SampleButtons(); !errors.Is(err, ErrAutoRefresh) {
		t.Fatalf("SampleButtons err = %v, want ErrAutoRefresh", err)
	}
	if len(out.take()) != 0 {
		t.Fatal("RefreshAll painted while refused")
	}
}

func TestRefreshAllScansFromRowZero(t *testing.T) {
	out := &recordOutput{}
	e, _ := newManualEngine(t, out)
	e.Set(3, 2, Red)
	e.Exchange()

	e.Tick() // move the cursor off row 0
	out.take()

	if err := e.RefreshAll(); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	paints := out.take()
	if len(paints) != Size {
		t.Fatalf("painted %d rows, want %d", len(paints), Size)
	}
	for i, p := range paints {
		if p.y != i {
			t.Fatalf("paint %d: row %d", i, p.y)
		}
	}
	if paints[2].row != uint16(Red)<<6 {
		t.Fatalf("row 2 = %016b, want red at x=3", paints[2].row)
	}
	if out.settles != 1 {
		t.Fatalf("Settle calls = %d, want 1", out.settles)
	}
}

func TestSampleButtonsManual(t *testing.T) {
	e, bs := newManualEngine(t, &recordOutput{})
	left := Rev01.Buttons().Left
	bs[Rev01.PinIndex(left)].Press()
	for i := 0; i < 6; i++ {
		if err := e.SampleButtons(); err != nil {
			t.Fatalf("SampleButtons: %v", err)
		}
	}
	e.Exchange()
	if !e.IsDown(left) || !e.WentDown(left) {
		t.Fatalf("IsDown=%v WentDown=%v, want both true", e.IsDown(left), e.WentDown(left))
	}
}

func TestBeginStartsTimerAtOutputRate(t *testing.T) {
	out := &recordOutput{hz: 200}
	timer := &fakeTimer{}
	log := &lines{}
	e := New(out, Deps{Timer: timer, Logger: log}, Config{})
	if err := e.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if !timer.running || timer.hz != 200 {
		t.Fatalf("timer running=%v hz=%d, want running at 200", timer.running, timer.hz)
	}
	if out.resets != 1 {
		t.Fatalf("Reset calls = %d, want 1", out.resets)
	}
	if len(log.got) != 1 {
		t.Fatalf("log lines = %q, want one start line", log.got)
	}

	timer.isr()
	if e.live.Load() != 1 {
		t.Fatal("isr passed to the timer is not Tick")
	}
}

func TestBeginNoInterruptLeavesTimerOff(t *testing.T) {
	timer := &fakeTimer{}
	e := New(&recordOutput{}, Deps{Timer: timer}, Config{NoInterrupt: true})
	if err := e.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if timer.running {
		t.Fatal("timer started with NoInterrupt")
	}
}

func TestBeginReportsTimerError(t *testing.T) {
	timer := &fakeTimer{err: hal.ErrTimerRunning}
	e := New(&recordOutput{}, Deps{Timer: timer}, Config{})
	if err := e.Begin(); !errors.Is(err, hal.ErrTimerRunning) {
		t.Fatalf("Begin err = %v, want ErrTimerRunning", err)
	}
}

func TestTextIsNoopWithoutTextStrip(t *testing.T) {
	e, _ := newManualEngine(t, &recordOutput{})
	e.AppendText("hello")
	e.AppendInt(3)
	if got := e.Text(); got != "" {
		t.Fatalf("Text() = %q, want empty without a text strip", got)
	}
}

func TestExchangeRepaintsTextOnce(t *testing.T) {
	out := &textOutput{}
	e, _ := newManualEngine(t, out)

	e.AppendText("Score: ")
	e.AppendInt(42)
	if got := e.Text(); got != "Score: 42" {
		t.Fatalf("Text() = %q, want %q", got, "Score: 42")
	}
	e.Exchange()
	if len(out.texts) != 1 || out.texts[0] != "Score: 42" {
		t.Fatalf("repaints = %q, want one", out.texts)
	}
	e.Exchange()
	if len(out.texts) != 1 {
		t.Fatalf("repaints = %q after unchanged exchange, want one", out.texts)
	}

	e.ClearText()
	e.Exchange()
	if len(out.texts) != 2 || out.texts[1] != "" {
		t.Fatalf("repaints = %q, want cleared label painted", out.texts)
	}
}

func TestExchangeWithoutTimerDoesNotBlock(t *testing.T) {
	e, _ := newManualEngine(t, &recordOutput{})
	done := make(chan struct{})
	go func() {
		e.Exchange()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Exchange blocked without a running timer")
	}
}

// stalledTimer reports running but never calls its isr.
type stalledTimer struct{ running atomic.Bool }

func (t *stalledTimer) Start(int, func()) error {
	t.running.Store(true)
	return nil
}

func (t *stalledTimer) Running() bool { return t.running.Load() }

func TestExchangeReturnsWhenTimerStops(t *testing.T) {
	timer := &stalledTimer{}
	_, pins := newTestButtons()
	e := New(&recordOutput{}, Deps{Buttons: pins, Timer: timer}, Config{Revision: Rev01})
	if err := e.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	done := make(chan struct{})
	go func() {
		e.Exchange()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Exchange returned before any row was scanned")
	case <-time.After(20 * time.Millisecond):
	}

	timer.running.Store(false)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Exchange still waiting after the timer stopped")
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("LED"); err != nil || m != ModeLED {
		t.Fatalf("ParseMode(LED) = %v, %v", m, err)
	}
	if m, err := ParseMode("tft"); err != nil || m != ModeTFT {
		t.Fatalf("ParseMode(tft) = %v, %v", m, err)
	}
	if _, err := ParseMode("oled"); err == nil {
		t.Fatal("ParseMode(oled) err = nil")
	}
}
