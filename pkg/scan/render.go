package scan

import (
	"github.com/itohio/apelscan/pkg/lcd"
	"github.com/itohio/apelscan/pkg/volt"
)

// DefaultBanner is shown under the logo on power up.
const DefaultBanner = "UNLV  2017"

// Screen positions as DDRAM addresses.
const (
	posLogo       = lcd.Line1 + 1
	posBanner     = lcd.Line2 + 3
	posPeakTitle  = lcd.Line1 + 2
	posBiasTitle  = lcd.Line1 + 3
	posBiasCursor = lcd.Line2 + 2
	posReading    = lcd.Line2
)

// renderer draws the fixed screen layouts. Every layout redraws from a
// cleared display; nothing is diffed.
type renderer struct {
	display DisplayWriter
	banner  string
	buf     [volt.Width + 4]byte
}

func (r *renderer) moveTo(addr byte) {
	r.display.Command(lcd.CmdSetDDRAM | addr)
}

// logo prints "A.P.E.L. Scan" using the custom glyphs on the first row.
func (r *renderer) logo() {
	r.moveTo(posLogo)
	for i := range lcd.Logo {
		if i > 0 {
			r.display.Data('.')
		}
		r.display.Data(byte(i))
	}
	r.display.Print(". Scan")
}

func (r *renderer) welcome() {
	r.logo()
	r.moveTo(posBanner)
	r.display.Print(r.banner)
}

func (r *renderer) running() {
	r.display.Init()
	r.logo()
	r.moveTo(posBanner)
	r.display.Print("Running...")
}

func (r *renderer) peak(v float32) {
	r.display.Init()
	r.moveTo(posPeakTitle)
	r.display.Print("Peak Voltage")
	r.reading(v)
}

func (r *renderer) biasLabel() {
	r.display.Init()
	r.moveTo(posBiasTitle)
	r.display.Print("SiPM Bias")
	r.moveTo(posBiasCursor)
}

func (r *renderer) reading(v float32) {
	r.moveTo(posReading)
	r.display.Write(volt.Append(r.buf[:0], v))
}
