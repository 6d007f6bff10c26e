//go:build tinygo && baremetal && itsybitsy_m4

package hal

import "machine"

var board = boardPins{
	rowData:  machine.D2,
	rowLatch: machine.D3,
	rowClock: machine.D4,
	colData:  machine.D5,
	colClock: machine.D6,
	colLatch: machine.D7,

	buttons: [5]machine.Pin{machine.A0, machine.A1, machine.A2, machine.A3, machine.D9},

	led: machine.LED,

	tftCS: machine.D10,
	tftDC: machine.D8,
}
