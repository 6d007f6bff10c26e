//go:build tinygo && baremetal && arduino

package hal

import "machine"

var board = boardPins{
	rowData:  machine.D2,
	rowLatch: machine.D3,
	rowClock: machine.D4,
	colData:  machine.D5,
	colClock: machine.D6,
	colLatch: machine.D7,

	buttons: [5]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3, machine.D9},

	// D13 doubles as the SPI clock for the panel.
	led: machine.NoPin,

	tftCS: machine.D10,
	tftDC: machine.D8,
}
