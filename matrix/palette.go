package matrix

import (
	"errors"

	"aberled/hal"
)

// Palette maps the four pixel values to packed RGB565 colours.
type Palette [4]uint16

// DefaultPalette is black, green, red and yellow.
var DefaultPalette = Palette{0x0000, 0x07E0, 0xF800, 0xFFE0}

var ErrPaletteSize = errors.New("matrix: palette: want 12 bytes (4 colours x RGB)")

// ParsePalette converts a 12-byte table of RGB triples (Off, Green, Red,
// Yellow) to RGB565, dropping the low bits of each channel. A nil or empty
// table yields DefaultPalette.
func ParsePalette(rgb []byte) (Palette, error) {
	if len(rgb) == 0 {
		return DefaultPalette, nil
	}
	if len(rgb) != 12 {
		return DefaultPalette, ErrPaletteSize
	}
	var p Palette
	for i := range p {
		p[i] = hal.RGB565(rgb[3*i], rgb[3*i+1], rgb[3*i+2])
	}
	return p, nil
}
