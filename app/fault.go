package app

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"aberled/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// ShowFault reports err on the logger and, when there is a panel, fills it
// white and prints the error in black, wrapped to the panel width.
func ShowFault(h hal.HAL, err error) {
	if err == nil {
		return
	}
	if l := h.Logger(); l != nil {
		l.WriteLineString("AberLED fault: " + err.Error())
	}

	panel := h.Panel()
	if panel == nil {
		return
	}
	w, ht := panel.Size()
	_ = panel.FillRectangle(0, 0, w, ht, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})

	font := &proggy.TinySZ8pt7b
	const fontHeight, fontOffset = 10, 6
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		_ = panel.Display()
		return
	}
	cols := w / fontWidth
	if cols <= 0 {
		cols = 1
	}

	fg := color.RGBA{A: 0xFF}
	y := int16(0)
	for _, line := range append([]string{"AberLED fault:"}, strings.Split(err.Error(), ": ")...) {
		for len(line) > 0 {
			if y+fontHeight > ht {
				_ = panel.Display()
				return
			}
			chunk, rest := takeRunes(line, cols)
			x := int16(0)
			for _, r := range chunk {
				tinyfont.DrawChar(panel, font, x, y+fontOffset, r, fg)
				x += fontWidth
			}
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = panel.Display()
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
