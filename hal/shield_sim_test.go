package hal

import "testing"

func shiftOut(data, clock Pin, v uint16, bits int) {
	for i := bits - 1; i >= 0; i-- {
		clock.Low()
		if v&(1<<uint(i)) != 0 {
			data.High()
		} else {
			data.Low()
		}
		clock.High()
		data.Low()
	}
	clock.Low()
}

func TestVirtualShieldLatchesColumns(t *testing.T) {
	s := NewVirtualShield()
	p := s.Shield()

	// Select row 0: shift a single 1 into the row chain.
	p.RowData.High()
	p.RowLatch.Low()
	p.ColLatch.Low()
	p.RowClock.High()
	p.RowClock.Low()
	p.RowData.Low()
	shiftOut(p.ColData, p.ColClock, ^uint16(0x0002), 16)
	p.RowLatch.High()
	p.ColLatch.High()

	rows, cols := s.Outputs()
	if rows != 0x01 {
		t.Fatalf("rows = %08b, want 00000001", rows)
	}
	if cols != ^uint16(0x0002) {
		t.Fatalf("cols = %016b, want %016b", cols, ^uint16(0x0002))
	}
	if green, red := s.Pixel(0, 0); green || !red {
		t.Fatalf("Pixel(0,0) = green %v red %v, want red only", green, red)
	}
	if got := s.Row(0); got != 0x0002 {
		t.Fatalf("Row(0) = %#04x, want 0x0002", got)
	}
}

func TestVirtualShieldRowChainRotates(t *testing.T) {
	s := NewVirtualShield()
	p := s.Shield()

	for r := 0; r < 8; r++ {
		if r == 0 {
			p.RowData.High()
		}
		p.RowLatch.Low()
		p.RowClock.High()
		p.RowClock.Low()
		p.RowData.Low()
		p.RowLatch.High()

		rows, _ := s.Outputs()
		if rows != 1<<uint(r) {
			t.Fatalf("row %d: outputs = %08b, want single bit %d", r, rows, r)
		}
	}
}

func TestVirtualShieldScanHistoryBounded(t *testing.T) {
	s := NewVirtualShield()
	p := s.Shield()
	for i := 0; i < maxScans+10; i++ {
		p.ColLatch.Low()
		p.ColLatch.High()
	}
	if got := len(s.Scans()); got != maxScans {
		t.Fatalf("len(Scans()) = %d, want %d", got, maxScans)
	}
	if got := s.Latches(); got != maxScans+10 {
		t.Fatalf("Latches() = %d, want %d", got, maxScans+10)
	}
}

func paintRow(p *Shield, first bool, cols uint16) {
	if first {
		p.RowData.High()
	}
	p.RowLatch.Low()
	p.ColLatch.Low()
	p.RowClock.High()
	p.RowClock.Low()
	p.RowData.Low()
	shiftOut(p.ColData, p.ColClock, ^cols, 16)
	p.RowLatch.High()
	p.ColLatch.High()
}

func TestVirtualShieldBlankingKeepsPattern(t *testing.T) {
	s := NewVirtualShield()
	p := s.Shield()

	paintRow(p, true, 0x0003)
	paintRow(p, false, 0x000C)

	// All columns off on the same row: outputs go dark, pattern stays.
	p.RowLatch.Low()
	p.ColLatch.Low()
	shiftOut(p.ColData, p.ColClock, 0xFFFF, 16)
	p.RowLatch.High()
	p.ColLatch.High()

	if _, cols := s.Outputs(); cols != 0xFFFF {
		t.Fatalf("cols = %016b, want all off", cols)
	}
	if got := s.Row(0); got != 0x0003 {
		t.Fatalf("Row(0) = %#04x, want 0x0003", got)
	}
	if got := s.Row(1); got != 0x000C {
		t.Fatalf("Row(1) = %#04x, want 0x000C", got)
	}
}

func TestVirtualShieldEmptyRowClearsPattern(t *testing.T) {
	s := NewVirtualShield()
	p := s.Shield()

	paintRow(p, true, 0x0003)
	for r := 1; r < 8; r++ {
		paintRow(p, false, 0)
	}
	// The marker has left the chain; feed a new one and paint row 0 empty.
	paintRow(p, true, 0)

	if got := s.Row(0); got != 0 {
		t.Fatalf("Row(0) = %#04x, want 0 after painting it empty", got)
	}
}

func TestVirtualShieldRowLatchDoesNotCopyColumns(t *testing.T) {
	s := NewVirtualShield()
	p := s.Shield()

	paintRow(p, true, 0x0002)

	// Select row 1 and latch only the row chain.
	p.RowLatch.Low()
	p.RowClock.High()
	p.RowClock.Low()
	p.RowLatch.High()

	if got := s.Row(1); got != 0 {
		t.Fatalf("Row(1) = %#04x before its columns were latched, want 0", got)
	}
	if got := s.Row(0); got != 0x0002 {
		t.Fatalf("Row(0) = %#04x, want 0x0002", got)
	}
}
