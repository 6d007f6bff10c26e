package hal

import (
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
)

// memFramebuffer is an RGB565 little-endian framebuffer in RAM.
type memFramebuffer struct {
	mu       sync.Mutex
	width    int
	height   int
	stride   int
	buf      []byte
	presents int
}

func newMemFramebuffer(width, height int) *memFramebuffer {
	stride := width * 2
	return &memFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *memFramebuffer) present() {
	f.mu.Lock()
	f.presents++
	f.mu.Unlock()
}

func (f *memFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}

// pixelAt returns the packed pixel at (x, y), or 0 outside the buffer.
func (f *memFramebuffer) pixelAt(x, y int) uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return 0
	}
	off := y*f.stride + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

// fbPanel adapts a memFramebuffer to the Panel interface.
type fbPanel struct {
	fb *memFramebuffer
}

// NewMemoryPanel returns a Panel backed by an in-memory RGB565 framebuffer.
func NewMemoryPanel(width, height int) *MemoryPanel {
	return &MemoryPanel{fbPanel{fb: newMemFramebuffer(width, height)}}
}

// MemoryPanel is a Panel whose pixels can be read back.
type MemoryPanel struct {
	fbPanel
}

// Presents returns how many times Display has been called.
func (p *MemoryPanel) Presents() int {
	p.fb.mu.Lock()
	defer p.fb.mu.Unlock()
	return p.fb.presents
}

// PixelAt returns the packed RGB565 pixel at (x, y).
func (p *MemoryPanel) PixelAt(x, y int) uint16 { return p.fb.pixelAt(x, y) }

func (d fbPanel) Size() (x, y int16) {
	return int16(d.fb.width), int16(d.fb.height)
}

func (d fbPanel) SetPixel(x, y int16, c color.RGBA) {
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= d.fb.width || iy < 0 || iy >= d.fb.height {
		return
	}

	pixel := RGB565(c.R, c.G, c.B)
	off := iy*d.fb.stride + ix*2

	d.fb.mu.Lock()
	d.fb.buf[off] = byte(pixel)
	d.fb.buf[off+1] = byte(pixel >> 8)
	d.fb.mu.Unlock()
}

func (d fbPanel) Display() error {
	d.fb.present()
	return nil
}

func (d fbPanel) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0 := clampInt(int(x), 0, d.fb.width)
	y0 := clampInt(int(y), 0, d.fb.height)
	x1 := clampInt(int(x)+int(width), 0, d.fb.width)
	y1 := clampInt(int(y)+int(height), 0, d.fb.height)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := RGB565(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	d.fb.mu.Lock()
	defer d.fb.mu.Unlock()
	for py := y0; py < y1; py++ {
		row := py * d.fb.stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			d.fb.buf[off] = lo
			d.fb.buf[off+1] = hi
		}
	}
	return nil
}

func (d fbPanel) SetScroll(line int16) {
	_ = line
}

// SetRotation accepts only the upright orientation.
func (d fbPanel) SetRotation(rotation drivers.Rotation) error {
	if rotation != drivers.Rotation0 {
		return ErrNotImplemented
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
