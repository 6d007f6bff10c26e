// Package tft shows the matrix on a colour panel: every pixel becomes a
// filled square and the label is drawn in a strip below the grid.
package tft

import (
	"image/color"

	"aberled/hal"
	"aberled/matrix"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// TickHz is the refresh rate. Filling rectangles over SPI is slow, so the
// panel gets a lower rate than the LED matrix.
const TickHz = 200

// Cell geometry, in panel pixels.
const (
	cellPitch = 16
	cellInset = 2
	cellSize  = 12
)

// Text strip geometry.
const (
	textX      = 4
	textY      = 150
	textWidth  = 128
	textHeight = 16
	// textBaseline is where tinyfont draws; the label's top edge is textY.
	textBaseline = textY + 10
)

var (
	black = color.RGBA{A: 0xFF}
	white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Output paints rows as cells. It implements matrix.Output and
// matrix.TextPainter.
type Output struct {
	panel  hal.Panel
	colors [4]color.RGBA
	font   tinyfont.Fonter
	log    hal.Logger
}

// New returns an output on panel using pal. log may be nil.
func New(panel hal.Panel, pal matrix.Palette, log hal.Logger) *Output {
	o := &Output{
		panel: panel,
		font:  &proggy.TinySZ8pt7b,
		log:   log,
	}
	for i, p := range pal {
		o.colors[i] = hal.RGBAFrom565(p)
	}
	return o
}

func (o *Output) TickHz() int { return TickHz }

// Reset blanks the whole panel.
func (o *Output) Reset() {
	w, h := o.panel.Size()
	_ = o.panel.FillRectangle(0, 0, w, h, black)
	_ = o.panel.Display()
}

// PaintRow fills the eight cells of row y.
func (o *Output) PaintRow(y int, row uint16) {
	py := int16(cellPitch*y + cellInset)
	for x := 0; x < matrix.Size; x++ {
		q := (row >> (2 * uint(x))) & 3
		_ = o.panel.FillRectangle(int16(cellPitch*x+cellInset), py, cellSize, cellSize, o.colors[q])
	}
}

func (o *Output) Settle() {
	_ = o.panel.Display()
}

// PaintText replaces the label strip with s.
func (o *Output) PaintText(s string) {
	if o.log != nil {
		o.log.WriteLineString(s)
	}
	_ = o.panel.FillRectangle(0, textY, textWidth, textHeight, black)
	if s != "" {
		tinyfont.WriteLine(o.panel, o.font, textX, textBaseline, s, white)
	}
}
