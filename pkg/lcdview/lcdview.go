// Package lcdview draws a simulated 16x2 character display as a Fyne widget.
package lcdview

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/apelscan/pkg/lcd"
	"github.com/itohio/apelscan/pkg/sim"
)

// Glyph cell geometry in dots.
const (
	dotCols = 5
	dotRows = 8
)

var (
	colorBacklight = color.RGBA{R: 120, G: 190, B: 60, A: 255}
	colorCell      = color.RGBA{R: 110, G: 178, B: 55, A: 255}
	colorInk       = color.RGBA{R: 20, G: 40, B: 20, A: 255}
	colorOff       = color.RGBA{R: 60, G: 80, B: 50, A: 255}
)

// LCD is a custom Fyne widget showing a sim.Screen.
type LCD struct {
	widget.BaseWidget

	mu     sync.RWMutex
	screen sim.Screen
}

// New creates a blank display widget.
func New() *LCD {
	l := &LCD{}
	for r := range l.screen.Cells {
		for c := range l.screen.Cells[r] {
			l.screen.Cells[r][c] = ' '
		}
	}
	l.ExtendBaseWidget(l)
	return l
}

// Update replaces the shown screen. Call it from the UI goroutine, e.g. via
// fyne.Do.
func (l *LCD) Update(s sim.Screen) {
	l.mu.Lock()
	changed := l.screen != s
	l.screen = s
	l.mu.Unlock()

	if changed {
		l.Refresh()
	}
}

// Screen returns the screen currently shown.
func (l *LCD) Screen() sim.Screen {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.screen
}

// CreateRenderer creates the widget renderer.
func (l *LCD) CreateRenderer() fyne.WidgetRenderer {
	return newRenderer(l)
}

// cellText returns the text drawn for a character code. Custom glyph codes
// return "" since they are rasterized. Codes outside ASCII follow the A00
// character ROM where there is a close Unicode match.
func cellText(c byte) string {
	switch {
	case c < lcd.MaxGlyphs:
		return ""
	case c == 0x5C:
		return "¥"
	case c == 0x7E:
		return "→"
	case c == 0x7F:
		return "←"
	case c == 0xDF:
		return "°"
	case c == 0xFF:
		return "█"
	case c >= 0x20 && c < 0x7E:
		return string(rune(c))
	}
	return " "
}

// glyphDot reports whether pixel (x, y) of a w by h raster falls on a lit dot
// of g. Dots are separated by a one pixel gap when the raster is big enough.
func glyphDot(g lcd.Glyph, x, y, w, h int) bool {
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	col := x * dotCols / w
	row := y * dotRows / h

	if w >= 2*dotCols && (x+1)*dotCols/w != col {
		return false
	}
	if h >= 2*dotRows && (y+1)*dotRows/h != row {
		return false
	}
	return g[row]&(1<<(dotCols-1-col)) != 0
}
