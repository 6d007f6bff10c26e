// Package shiftreg drives the bicolor matrix directly through two chains of
// 74HC595 shift registers: an 8-bit row chain that carries one active bit,
// and a 16-bit column chain that carries the row's pixels, low = lit.
package shiftreg

import (
	"time"

	"aberled/hal"
)

// TickHz is the refresh rate: one row per tick, 62.5 full frames per second.
const TickHz = 500

// afterglow is how long the last row stays lit at the end of a manual refresh.
const afterglow = 4 * time.Microsecond

// chain is one serial data/clock pair.
type chain struct {
	data  hal.Pin
	clock hal.Pin
}

// shiftOut clocks the low n bits of v out, most significant first. Data is
// dropped after every rising edge so it cannot bleed into the next stage.
func (c chain) shiftOut(v uint16, n int) {
	c.data.Low()
	for i := n - 1; i >= 0; i-- {
		c.clock.Low()
		if v&(1<<uint(i)) != 0 {
			c.data.High()
		} else {
			c.data.Low()
		}
		c.clock.High()
		c.data.Low()
	}
	c.clock.Low()
}

func (c chain) pulse() {
	c.clock.High()
	c.clock.Low()
}

// Output paints rows on the shield. It implements matrix.Output.
type Output struct {
	rows     chain
	cols     chain
	rowLatch hal.Pin
	colLatch hal.Pin
	rowData  hal.Pin
	hold     func(time.Duration)
}

// New returns an output on the shield's shift pins.
func New(p *hal.Shield) *Output {
	return &Output{
		rows:     chain{data: p.RowData, clock: p.RowClock},
		cols:     chain{data: p.ColData, clock: p.ColClock},
		rowLatch: p.RowLatch,
		colLatch: p.ColLatch,
		rowData:  p.RowData,
		hold:     time.Sleep,
	}
}

func (o *Output) TickHz() int { return TickHz }

// Reset empties both chains.
func (o *Output) Reset() {
	o.rowLatch.Low()
	o.rows.shiftOut(0, 8)
	o.rowLatch.High()

	o.colLatch.Low()
	o.cols.shiftOut(0, 16)
	o.colLatch.High()
}

// PaintRow selects row y and drives its columns.
//
// Row 0 feeds a 1 into the row chain; every later row only clocks it one
// stage further, so rows must be painted in order from 0.
func (o *Output) PaintRow(y int, row uint16) {
	if y == 0 {
		o.rowData.High()
	}
	o.rowLatch.Low()
	o.colLatch.Low()

	o.rows.pulse()
	o.rowData.Low()

	o.cols.shiftOut(^row, 16)

	o.rowLatch.High()
	o.colLatch.High()
}

// Settle holds the last row briefly, then turns every column off so the
// last row does not stay brighter than the rest.
func (o *Output) Settle() {
	o.hold(afterglow)

	o.rowLatch.Low()
	o.colLatch.Low()
	o.cols.shiftOut(0xFFFF, 16)
	o.rowLatch.High()
	o.colLatch.High()
}
