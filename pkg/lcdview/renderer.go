package lcdview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/itohio/apelscan/pkg/lcd"
	"github.com/itohio/apelscan/pkg/sim"
)

// cell is one character position.
type cell struct {
	box   *canvas.Rectangle
	text  *canvas.Text
	glyph *canvas.Raster
}

// lcdRenderer renders the LCD widget.
type lcdRenderer struct {
	lcd *LCD

	background *canvas.Rectangle
	cells      [sim.Rows][sim.Cols]cell

	// Snapshot used by the glyph rasters between refreshes
	screen sim.Screen

	objects []fyne.CanvasObject
}

func newRenderer(l *LCD) *lcdRenderer {
	r := &lcdRenderer{
		lcd:        l,
		background: canvas.NewRectangle(colorBacklight),
		screen:     l.Screen(),
	}
	r.objects = append(r.objects, r.background)

	for row := range r.cells {
		for col := range r.cells[row] {
			c := &r.cells[row][col]
			c.box = canvas.NewRectangle(colorCell)
			c.text = canvas.NewText("", colorInk)
			c.text.TextStyle = fyne.TextStyle{Monospace: true}
			c.text.Alignment = fyne.TextAlignCenter
			c.glyph = canvas.NewRasterWithPixels(r.glyphPixels(row, col))
			r.objects = append(r.objects, c.box, c.text, c.glyph)
		}
	}
	r.Refresh()
	return r
}

// glyphPixels returns the pixel function of the raster at (row, col).
func (r *lcdRenderer) glyphPixels(row, col int) func(x, y, w, h int) color.Color {
	return func(x, y, w, h int) color.Color {
		code := r.screen.Cells[row][col]
		if code >= lcd.MaxGlyphs || !r.screen.On {
			return color.Transparent
		}
		if glyphDot(r.screen.Glyphs[code], x, y, w, h) {
			return colorInk
		}
		return color.Transparent
	}
}

// MinSize returns the minimum size of the widget.
func (r *lcdRenderer) MinSize() fyne.Size {
	return fyne.NewSize(sim.Cols*18+24, sim.Rows*30+24)
}

// Layout places cells on an even grid with a bezel around them.
func (r *lcdRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	const bezel, gap = 12, 2
	cw := (size.Width - 2*bezel) / sim.Cols
	ch := (size.Height - 2*bezel) / sim.Rows
	if cw <= gap || ch <= gap {
		return
	}
	inner := fyne.NewSize(cw-gap, ch-gap)

	for row := range r.cells {
		for col := range r.cells[row] {
			c := &r.cells[row][col]
			pos := fyne.NewPos(bezel+float32(col)*cw, bezel+float32(row)*ch)

			c.box.Move(pos)
			c.box.Resize(inner)
			c.text.Move(pos)
			c.text.Resize(inner)
			c.text.TextSize = inner.Height * 0.7
			c.glyph.Move(pos)
			c.glyph.Resize(inner)
		}
	}
}

// Refresh updates cell contents from the widget state.
func (r *lcdRenderer) Refresh() {
	r.screen = r.lcd.Screen()

	if r.screen.On {
		r.background.FillColor = colorBacklight
	} else {
		r.background.FillColor = colorOff
	}
	r.background.Refresh()

	for row := range r.cells {
		for col := range r.cells[row] {
			c := &r.cells[row][col]
			text := ""
			if r.screen.On {
				text = cellText(r.screen.Cells[row][col])
			}
			if c.text.Text != text {
				c.text.Text = text
				c.text.Refresh()
			}
			c.glyph.Refresh()
		}
	}
}

// Objects returns all canvas objects for rendering.
func (r *lcdRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *lcdRenderer) Destroy() {}
