package matrix

// Output is the device the refresh driver paints on.
//
// PaintRow runs in interrupt context and must not block or allocate.
type Output interface {
	// TickHz is the refresh interrupt rate the device wants.
	TickHz() int
	// Reset puts the device in a blank state at start-up.
	Reset()
	// PaintRow shows row y of the visible frame.
	PaintRow(y int, row uint16)
	// Settle finishes a manual full refresh.
	Settle()
}

// TextPainter is implemented by outputs that have a text strip.
type TextPainter interface {
	PaintText(s string)
}

// scanner is the row state machine. The cursor is owned by whoever is
// refreshing: the tick, or RefreshAll when no tick is running.
type scanner struct {
	cursor int
}

func (s *scanner) step(front *Frame, out Output) {
	out.PaintRow(s.cursor, front[s.cursor])
	s.cursor = (s.cursor + 1) % Size
}
