//go:build tinygo && baremetal

package hal

import (
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/st7735"
)

// boardPins is the shield wiring on one board. Each supported board
// provides a board variable in its own file.
type boardPins struct {
	rowData, rowLatch, rowClock machine.Pin
	colData, colClock, colLatch machine.Pin

	// Physical order: A0, A1, A2, A3, D9.
	buttons [5]machine.Pin

	led machine.Pin

	tftCS, tftDC machine.Pin
}

type tinyGoHAL struct {
	logger *serialLogger
	led    LED
	shield Shield
	panel  Panel
	timer  Timer
	irq    tinyGoInterrupts
}

// New returns the HAL for the board selected at build time.
//
// Log output goes to the default serial port. The panel is brought up on
// first use, since its SPI bus shares pins with the on-board LED on some
// boards.
func New() HAL {
	h := &tinyGoHAL{
		logger: &serialLogger{s: machine.Serial},
		timer:  newTimer(),
	}

	out := []machine.Pin{
		board.rowData, board.rowLatch, board.rowClock,
		board.colData, board.colClock, board.colLatch,
	}
	for _, p := range out {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	h.shield = Shield{
		RowData:  board.rowData,
		RowLatch: board.rowLatch,
		RowClock: board.rowClock,
		ColData:  board.colData,
		ColClock: board.colClock,
		ColLatch: board.colLatch,
	}
	for i, p := range board.buttons {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		h.shield.Buttons[i] = p
	}

	if board.led != machine.NoPin {
		board.led.Configure(machine.PinConfig{Mode: machine.PinOutput})
		h.led = &pinLED{pin: board.led}
	}
	return h
}

func (h *tinyGoHAL) Logger() Logger         { return h.logger }
func (h *tinyGoHAL) Shield() *Shield        { return &h.shield }
func (h *tinyGoHAL) Timer() Timer           { return h.timer }
func (h *tinyGoHAL) Interrupts() Interrupts { return h.irq }

func (h *tinyGoHAL) LED() LED {
	if h.led == nil {
		return nil
	}
	return h.led
}

func (h *tinyGoHAL) Panel() Panel {
	if h.panel == nil {
		h.panel = newST7735(board.tftCS, board.tftDC)
	}
	return h.panel
}

// newST7735 brings up the 1.8" 128x160 shield panel on SPI0, upside down
// so that the text strip sits below the grid.
func newST7735(cs, dc machine.Pin) Panel {
	machine.SPI0.Configure(machine.SPIConfig{
		Frequency: 8_000_000,
	})
	d := st7735.New(machine.SPI0, machine.NoPin, dc, cs, machine.NoPin)
	d.Configure(st7735.Config{
		Width:    128,
		Height:   160,
		Rotation: drivers.Rotation180,
		Model:    st7735.GREENTAB,
	})
	return &d
}
