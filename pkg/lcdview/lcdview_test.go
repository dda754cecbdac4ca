package lcdview

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/apelscan/pkg/lcd"
	"github.com/itohio/apelscan/pkg/sim"
)

func TestCellText(t *testing.T) {
	tests := []struct {
		code byte
		want string
	}{
		{code: 0, want: ""},
		{code: 7, want: ""},
		{code: 'A', want: "A"},
		{code: '.', want: "."},
		{code: ' ', want: " "},
		{code: 0x5C, want: "¥"},
		{code: 0x7E, want: "→"},
		{code: 0xDF, want: "°"},
		{code: 0x10, want: " "},
		{code: 0xA5, want: " "},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cellText(tt.code), "code 0x%02X", tt.code)
	}
}

func TestGlyphDot(t *testing.T) {
	var g lcd.Glyph
	g[0] = 0x10 // Leftmost dot of the top row
	g[7] = 0x01 // Rightmost dot of the bottom row

	// One pixel per dot.
	assert.True(t, glyphDot(g, 0, 0, 5, 8))
	assert.False(t, glyphDot(g, 1, 0, 5, 8))
	assert.True(t, glyphDot(g, 4, 7, 5, 8))
	assert.False(t, glyphDot(g, 4, 6, 5, 8))

	// Two pixels per dot, the second is the gap.
	assert.True(t, glyphDot(g, 0, 0, 10, 16))
	assert.False(t, glyphDot(g, 1, 0, 10, 16))
	assert.False(t, glyphDot(g, 0, 1, 10, 16))
	assert.True(t, glyphDot(g, 8, 14, 10, 16))

	// Out of range.
	assert.False(t, glyphDot(g, -1, 0, 5, 8))
	assert.False(t, glyphDot(g, 5, 0, 5, 8))
	assert.False(t, glyphDot(g, 0, 0, 0, 0))
}

func TestLCD_Update(t *testing.T) {
	test.NewTempApp(t)

	h := sim.NewHD44780()
	d := lcd.New(h, lcd.Config{Sleep: func(time.Duration) {}})
	d.Init()
	d.LoadGlyphs(lcd.Logo)
	d.SetCursor(0, 0)
	d.Data(0)
	d.Print("PEL")

	w := New()
	w.Resize(w.MinSize())
	w.Update(h.Screen())
	assert.Equal(t, h.Screen(), w.Screen())

	r, ok := test.WidgetRenderer(w).(*lcdRenderer)
	require.True(t, ok)
	assert.Equal(t, "", r.cells[0][0].text.Text)
	assert.Equal(t, "P", r.cells[0][1].text.Text)
	assert.Equal(t, "L", r.cells[0][3].text.Text)
	assert.Equal(t, " ", r.cells[1][0].text.Text)

	px := r.glyphPixels(0, 0)
	// The top row of "A" is 0x03: only the two rightmost dots are lit.
	assert.Equal(t, colorInk, px(3, 0, 5, 8))
	assert.NotEqual(t, colorInk, px(0, 0, 5, 8))
}

func TestLCD_DisplayOff(t *testing.T) {
	test.NewTempApp(t)

	w := New()
	s := w.Screen()
	s.Cells[0][0] = 'X'
	s.On = false
	w.Update(s)

	r := test.WidgetRenderer(w).(*lcdRenderer)
	assert.Equal(t, "", r.cells[0][0].text.Text)
	assert.Equal(t, colorOff, r.background.FillColor)
}
