package lcd

// Glyph is a 5x8 custom character, one row per byte, low five bits used.
type Glyph [8]byte

// MaxGlyphs is the number of CGRAM character slots.
const MaxGlyphs = 8

// Logo spells "APEL" in bold letters at codes 0..3.
var Logo = []Glyph{
	{0x03, 0x07, 0x0B, 0x13, 0x1F, 0x13, 0x13, 0x00}, // A
	{0x1E, 0x1B, 0x1B, 0x1E, 0x18, 0x18, 0x18, 0x00}, // P
	{0x1E, 0x18, 0x1E, 0x18, 0x18, 0x1E, 0x1E, 0x00}, // E
	{0x10, 0x10, 0x10, 0x10, 0x10, 0x1E, 0x1E, 0x00}, // L
}
