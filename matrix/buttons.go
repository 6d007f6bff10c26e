package matrix

import (
	"fmt"
	"strings"

	"aberled/hal"
)

// Button identifies a channel, numbered 1..5 as printed on the board (S1..S5).
type Button uint8

// NumButtons is the number of sampled channels.
const NumButtons = 5

// debounceThreshold is the number of consecutive agreeing samples needed to
// commit a new state.
const debounceThreshold = 4

// Revision selects the board wiring.
type Revision uint8

const (
	// Rev00 is the beige board.
	Rev00 Revision = iota
	// Rev01 is the black board.
	Rev01
)

// ParseRevision accepts "0", "1", "rev00", "rev01" (case-insensitive).
func ParseRevision(s string) (Revision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "00", "rev00", "beige":
		return Rev00, nil
	case "1", "01", "rev01", "black", "":
		return Rev01, nil
	}
	return Rev01, fmt.Errorf("matrix: unknown revision %q", s)
}

func (r Revision) String() string {
	if r == Rev00 {
		return "REV00"
	}
	return "REV01"
}

// channelPins maps channel index to physical input (A0, A1, A2, A3, D9).
var channelPins = [...][NumButtons]uint8{
	Rev00: {1, 0, 2, 3, 4},
	Rev01: {0, 3, 2, 1, 4},
}

// Buttons are the logical roles of the five channels.
type Buttons struct {
	Up, Down, Left, Right, Fire Button
}

// Buttons returns the role assignment for the revision.
func (r Revision) Buttons() Buttons {
	if r == Rev00 {
		return Buttons{Up: 2, Down: 4, Left: 1, Right: 3, Fire: 5}
	}
	return Buttons{Up: 1, Down: 2, Left: 4, Right: 3, Fire: 5}
}

// PinIndex returns the physical input index sampled for b, or -1.
func (r Revision) PinIndex(b Button) int {
	if b < 1 || b > NumButtons {
		return -1
	}
	return int(r.pins()[b-1])
}

func (r Revision) pins() [NumButtons]uint8 {
	if int(r) < len(channelPins) {
		return channelPins[r]
	}
	return channelPins[Rev01]
}

// debouncer samples one channel per tick, round robin.
//
// Everything here except the snapshot taken by Engine.Exchange is owned by
// the tick.
type debouncer struct {
	inputs [NumButtons]hal.InputPin
	pins   [NumButtons]uint8
	next   int

	prev      [NumButtons]bool
	counter   [NumButtons]uint8
	debounced [NumButtons]bool
	wentDown  [NumButtons]bool
}

func (d *debouncer) reset(inputs [NumButtons]hal.InputPin, rev Revision) {
	*d = debouncer{inputs: inputs, pins: rev.pins()}
}

func (d *debouncer) sample() {
	ch := d.next
	d.next = (d.next + 1) % NumButtons

	in := d.inputs[d.pins[ch]]
	if in == nil {
		return
	}
	// Pulled up, so a pressed button reads low.
	s := !in.Get()

	if s != d.prev[ch] {
		d.counter[ch] = 0
		if s {
			d.wentDown[ch] = true
		}
	} else {
		d.counter[ch]++
		if d.counter[ch] == debounceThreshold {
			d.counter[ch] = 0
			d.debounced[ch] = s
		}
	}
	d.prev[ch] = s
}

// snapshot copies committed states and went-down latches, clearing the latches.
func (d *debouncer) snapshot(states, wentDown *[NumButtons]bool) {
	for i := 0; i < NumButtons; i++ {
		wentDown[i] = d.wentDown[i]
		d.wentDown[i] = false
		states[i] = d.debounced[i]
	}
}
