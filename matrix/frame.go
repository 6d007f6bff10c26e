package matrix

// Color is a 2-bit pixel value. The low bit drives the green die and the
// high bit the red die.
type Color uint8

const (
	Off Color = iota
	Green
	Red
	Yellow
)

func (c Color) String() string {
	switch c & 3 {
	case Green:
		return "green"
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	}
	return "off"
}

// Size is the matrix edge length.
const Size = 8

// Frame is one 8x8 buffer. Row y is Frame[y]; pixel x occupies bits 2x and
// 2x+1 of the row.
type Frame [Size]uint16

// Set writes one pixel. Coordinates outside [0,8) are ignored.
func (f *Frame) Set(x, y int, c Color) {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return
	}
	shift := uint(x) * 2
	f[y] &^= 3 << shift
	f[y] |= uint16(c&3) << shift
}

// At reads one pixel. Coordinates outside [0,8) read as Off.
func (f *Frame) At(x, y int) Color {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return Off
	}
	return Color(f[y]>>(uint(x)*2)) & 3
}

func (f *Frame) Clear() {
	*f = Frame{}
}

// store owns the two frames. back is written by the application, front is
// scanned by the tick. Only the labels move on swap.
type store struct {
	bufs  [2]Frame
	back  *Frame
	front *Frame
}

func (s *store) reset() {
	s.bufs[0].Clear()
	s.bufs[1].Clear()
	s.back = &s.bufs[0]
	s.front = &s.bufs[1]
}

func (s *store) swap() {
	s.back, s.front = s.front, s.back
}
