// Package lcd drives an HD44780 compatible character display over an 8-bit
// parallel bus by toggling the control lines directly.
package lcd

import "time"

// Control is the state of the display control lines.
type Control uint8

const (
	RS Control = 1 << iota // Register select: set for data, clear for commands
	RW                     // Read/write: always written low
	EN                     // Enable: a falling edge latches the bus
)

// Commands understood by the controller.
const (
	CmdClear       = 0x01
	CmdHome        = 0x02
	CmdEntryMode   = 0x04
	CmdDisplay     = 0x08
	CmdShift       = 0x10
	CmdFunctionSet = 0x20
	CmdSetCGRAM    = 0x40
	CmdSetDDRAM    = 0x80

	FlagEntryIncrement = 0x02
	FlagDisplayOn      = 0x04
	FlagCursorOn       = 0x02
	FlagBlinkOn        = 0x01
	Flag8Bit           = 0x10
	Flag2Line          = 0x08
	Flag5x10           = 0x04
)

// Row start addresses in display data RAM.
const (
	Line1 = 0x00
	Line2 = 0x40
)

// DefaultSettle is the hold time around each enable pulse.
const DefaultSettle = 2 * time.Millisecond

// Bus is the parallel interface to the display.
type Bus interface {
	SetData(b byte)
	SetControl(c Control)
}

// Config configures a Display.
type Config struct {
	Settle time.Duration       // Hold time before and after latching (DefaultSettle if zero)
	Sleep  func(time.Duration) // Delay function (time.Sleep if nil)
}

// Display sends commands and data to the controller.
// It keeps no shadow of the display contents.
type Display struct {
	bus    Bus
	settle time.Duration
	sleep  func(time.Duration)
}

// New creates a Display on the given bus.
func New(bus Bus, cfg Config) *Display {
	if cfg.Settle == 0 {
		cfg.Settle = DefaultSettle
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	return &Display{
		bus:    bus,
		settle: cfg.Settle,
		sleep:  cfg.Sleep,
	}
}

// Init sets 8-bit two line mode, turns the display on with the cursor off,
// clears it and homes the address counter.
func (d *Display) Init() {
	d.Command(CmdFunctionSet | Flag8Bit | Flag2Line)
	d.Command(CmdDisplay | FlagDisplayOn)
	d.Command(CmdClear)
	d.Command(CmdSetDDRAM | Line1)
}

// Command writes a raw command byte.
func (d *Display) Command(c byte) {
	d.transfer(0, c)
}

// Data writes a raw data byte at the current address.
func (d *Display) Data(b byte) {
	d.transfer(RS, b)
}

// SetCursor moves the address counter to the given column and row.
func (d *Display) SetCursor(col, row uint8) {
	addr := byte(Line1)
	if row > 0 {
		addr = Line2
	}
	d.Command(CmdSetDDRAM | (addr + col))
}

// Print writes s up to its end or the first NUL byte.
func (d *Display) Print(s string) {
	for i := 0; i < len(s) && s[i] != 0; i++ {
		d.Data(s[i])
	}
}

// Write implements io.Writer. It never fails.
func (d *Display) Write(p []byte) (int, error) {
	for _, b := range p {
		d.Data(b)
	}
	return len(p), nil
}

// LoadGlyphs stores custom characters in CGRAM starting at code 0.
// At most eight glyphs fit; the rest are ignored.
func (d *Display) LoadGlyphs(glyphs []Glyph) {
	for i, g := range glyphs {
		if i >= MaxGlyphs {
			return
		}
		d.Command(CmdSetCGRAM | byte(i<<3))
		for _, row := range g {
			d.Data(row)
		}
	}
}

// transfer drives the data bus, raises enable and drops it to latch.
func (d *Display) transfer(rs Control, b byte) {
	d.bus.SetData(b)
	d.bus.SetControl(rs | EN)
	d.sleep(d.settle)
	d.bus.SetControl(rs)
	d.sleep(d.settle)
}
