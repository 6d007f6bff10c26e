package hal

import (
	"fmt"
	"sync"
)

type simPinID uint8

const (
	simRowData simPinID = iota
	simRowLatch
	simRowClock
	simColData
	simColClock
	simColLatch
	simPinCount
)

// Scan is one latch event seen by the virtual shield.
type Scan struct {
	Rows uint8  // row chain outputs, bit r high = row r selected
	Cols uint16 // column chain outputs, bit low = LED lit
}

const maxScans = 64

// VirtualShield simulates the LED shield: an 8-bit row shift register and
// a 16-bit column shift register (two daisy-chained 74HC595s), plus five
// active-low buttons.
//
// Both chains shift on the rising clock edge and copy their shift stage to
// the outputs on the rising latch edge. A column bit 2x drives the green
// die of column x and bit 2x+1 the red die; an LED is lit while its row
// output is high and its column output is low.
type VirtualShield struct {
	mu     sync.Mutex
	levels [simPinCount]bool

	rowShift uint8
	rowOut   uint8
	colShift uint16
	colOut   uint16

	lit      [8]uint16
	rowMoved bool
	scans    []Scan
	latches  uint64

	buttons [5]*Button
	shield  Shield
}

// NewVirtualShield returns a shield with all outputs low and all buttons released.
func NewVirtualShield() *VirtualShield {
	s := &VirtualShield{}
	s.shield = Shield{
		RowData:  simPin{s: s, id: simRowData},
		RowLatch: simPin{s: s, id: simRowLatch},
		RowClock: simPin{s: s, id: simRowClock},
		ColData:  simPin{s: s, id: simColData},
		ColClock: simPin{s: s, id: simColClock},
		ColLatch: simPin{s: s, id: simColLatch},
	}
	names := [5]string{"A0", "A1", "A2", "A3", "D9"}
	for i := range s.buttons {
		s.buttons[i] = NewButton(names[i])
		s.shield.Buttons[i] = s.buttons[i]
	}
	return s
}

// Shield returns the pin set wired to the simulation.
func (s *VirtualShield) Shield() *Shield { return &s.shield }

// Button returns the virtual button on physical input i (0..4).
func (s *VirtualShield) Button(i int) *Button {
	if i < 0 || i >= len(s.buttons) {
		return nil
	}
	return s.buttons[i]
}

// Row returns the lit pattern of row y, in frame encoding (bit pair x,
// low bit green, high bit red), as of the last column latch that painted
// it. Re-latching all columns off without selecting a new row blanks the
// outputs but keeps the pattern, as persistence of vision would.
func (s *VirtualShield) Row(y int) uint16 {
	if y < 0 || y >= len(s.lit) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lit[y]
}

// Pixel reports which dies of LED (x, y) are lit.
func (s *VirtualShield) Pixel(x, y int) (green, red bool) {
	if x < 0 || x >= 8 {
		return false, false
	}
	v := s.Row(y) >> (2 * uint(x))
	return v&1 != 0, v&2 != 0
}

// Outputs returns the current latched outputs of both chains.
func (s *VirtualShield) Outputs() (rows uint8, cols uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowOut, s.colOut
}

// Scans returns the most recent latch events, oldest first.
func (s *VirtualShield) Scans() []Scan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Scan, len(s.scans))
	copy(out, s.scans)
	return out
}

// Latches returns the number of latch events seen so far.
func (s *VirtualShield) Latches() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latches
}

// Active reports whether the shift chains have ever been latched.
func (s *VirtualShield) Active() bool {
	return s.Latches() > 0
}

func (s *VirtualShield) String() string {
	rows, cols := s.Outputs()
	return fmt.Sprintf("shield rows=%08b cols=%016b", rows, cols)
}

func (s *VirtualShield) drive(id simPinID, level bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.levels[id]
	s.levels[id] = level
	if prev || !level {
		return
	}

	switch id {
	case simRowClock:
		s.rowShift <<= 1
		if s.levels[simRowData] {
			s.rowShift |= 1
		}
		s.rowMoved = true
	case simColClock:
		s.colShift <<= 1
		if s.levels[simColData] {
			s.colShift |= 1
		}
	case simRowLatch:
		s.rowOut = s.rowShift
		s.record()
	case simColLatch:
		s.colOut = s.colShift
		if s.rowMoved || s.colOut != 0xFFFF {
			for r := 0; r < 8; r++ {
				if s.rowOut&(1<<r) != 0 {
					s.lit[r] = ^s.colOut
				}
			}
		}
		s.rowMoved = false
		s.record()
	}
}

func (s *VirtualShield) record() {
	s.latches++
	if len(s.scans) == maxScans {
		copy(s.scans, s.scans[1:])
		s.scans = s.scans[:maxScans-1]
	}
	s.scans = append(s.scans, Scan{Rows: s.rowOut, Cols: s.colOut})
}

type simPin struct {
	s  *VirtualShield
	id simPinID
}

func (p simPin) High() { p.s.drive(p.id, true) }
func (p simPin) Low()  { p.s.drive(p.id, false) }
