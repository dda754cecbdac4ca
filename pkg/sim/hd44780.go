package sim

import (
	"sync"

	"github.com/itohio/apelscan/pkg/lcd"
)

// Display geometry of the simulated module.
const (
	Cols = 16
	Rows = 2

	lineLen = 40 // DDRAM bytes per line
)

// Screen is a snapshot of what the display shows.
type Screen struct {
	On     bool
	Cursor bool
	Cells  [Rows][Cols]byte
	Glyphs [lcd.MaxGlyphs]lcd.Glyph
}

// Line returns row as text. Codes below 8 (custom glyphs) are replaced by
// placeholder.
func (s Screen) Line(row int, placeholder byte) string {
	b := s.Cells[row]
	for i, c := range b {
		if c < lcd.MaxGlyphs {
			b[i] = placeholder
		}
	}
	return string(b[:])
}

// HD44780 models the controller side of the parallel bus. Transfers are
// decoded on the falling edge of EN. Only writes are modelled.
type HD44780 struct {
	mu sync.RWMutex

	data    byte
	control lcd.Control

	ddram [Rows][lineLen]byte
	cgram [lcd.MaxGlyphs * 8]byte
	addr  byte // DDRAM address (0x00-0x27, 0x40-0x67) or CGRAM address
	cg    bool // Address counter points into CGRAM

	increment bool
	on        bool
	cursor    bool
	blink     bool
	eightBit  bool
	twoLine   bool

	commands int
	writes   int
}

// Ensure HD44780 implements lcd.Bus.
var _ lcd.Bus = (*HD44780)(nil)

// NewHD44780 returns a controller in its power-on state.
func NewHD44780() *HD44780 {
	h := &HD44780{increment: true, eightBit: true}
	h.clear()
	return h
}

// SetData drives the data bus.
func (h *HD44780) SetData(b byte) {
	h.mu.Lock()
	h.data = b
	h.mu.Unlock()
}

// SetControl drives the control lines and latches on EN falling.
func (h *HD44780) SetControl(c lcd.Control) {
	h.mu.Lock()
	defer h.mu.Unlock()

	falling := h.control&lcd.EN != 0 && c&lcd.EN == 0
	h.control = c
	if !falling || c&lcd.RW != 0 {
		return
	}
	if c&lcd.RS != 0 {
		h.write(h.data)
	} else {
		h.command(h.data)
	}
}

func (h *HD44780) command(c byte) {
	h.commands++
	switch {
	case c&lcd.CmdSetDDRAM != 0:
		h.cg = false
		h.addr = c &^ lcd.CmdSetDDRAM
	case c&lcd.CmdSetCGRAM != 0:
		h.cg = true
		h.addr = c &^ lcd.CmdSetCGRAM
	case c&lcd.CmdFunctionSet != 0:
		h.eightBit = c&lcd.Flag8Bit != 0
		h.twoLine = c&lcd.Flag2Line != 0
	case c&lcd.CmdShift != 0:
		// Bit 3 selects display shift, which is not modelled.
		if c&0x08 == 0 {
			h.step(c&0x04 != 0)
		}
	case c&lcd.CmdDisplay != 0:
		h.on = c&lcd.FlagDisplayOn != 0
		h.cursor = c&lcd.FlagCursorOn != 0
		h.blink = c&lcd.FlagBlinkOn != 0
	case c&lcd.CmdEntryMode != 0:
		h.increment = c&lcd.FlagEntryIncrement != 0
	case c&lcd.CmdHome != 0:
		h.cg = false
		h.addr = 0
	case c&lcd.CmdClear != 0:
		h.clear()
	}
}

func (h *HD44780) write(b byte) {
	h.writes++
	if h.cg {
		h.cgram[h.addr&0x3F] = b & 0x1F
		if h.increment {
			h.addr = (h.addr + 1) & 0x3F
		} else {
			h.addr = (h.addr - 1) & 0x3F
		}
		return
	}

	row, col := h.position()
	h.ddram[row][col] = b
	h.step(h.increment)
}

// position maps the DDRAM address to a line and offset. Addresses outside the
// two 40 byte windows alias into them.
func (h *HD44780) position() (row, col int) {
	if h.addr&lcd.Line2 != 0 {
		row = 1
	}
	return row, int(h.addr&0x3F) % lineLen
}

// step moves the DDRAM address counter, wrapping from the end of the first
// line into the second and back.
func (h *HD44780) step(forward bool) {
	row, col := h.position()
	if forward {
		col++
		if col == lineLen {
			col = 0
			row ^= 1
		}
	} else {
		col--
		if col < 0 {
			col = lineLen - 1
			row ^= 1
		}
	}
	h.addr = byte(row*lcd.Line2 + col)
}

func (h *HD44780) clear() {
	for r := range h.ddram {
		for c := range h.ddram[r] {
			h.ddram[r][c] = ' '
		}
	}
	h.cg = false
	h.addr = 0
	h.increment = true
}

// Screen returns the visible contents.
func (h *HD44780) Screen() Screen {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Screen{On: h.on, Cursor: h.cursor}
	for r := 0; r < Rows; r++ {
		copy(s.Cells[r][:], h.ddram[r][:Cols])
	}
	for i := range s.Glyphs {
		copy(s.Glyphs[i][:], h.cgram[i*8:i*8+8])
	}
	return s
}

// Address returns the address counter and whether it points into CGRAM.
func (h *HD44780) Address() (addr byte, cgram bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.addr, h.cg
}

// Mode reports the function set flags.
func (h *HD44780) Mode() (eightBit, twoLine bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.eightBit, h.twoLine
}

// Counters returns how many commands and data bytes were latched.
func (h *HD44780) Counters() (commands, writes int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.commands, h.writes
}
