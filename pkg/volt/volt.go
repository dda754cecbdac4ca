// Package volt renders voltages as fixed-point text for a character display.
package volt

import (
	"strconv"

	"github.com/chewxy/math32"
)

// Width is the longest text Append produces for voltages below 1000 V.
const Width = len("999.999 V")

// Append appends "<int>.<frac> V" to dst, where frac is the fractional part
// truncated (not rounded) to three digits and zero padded.
// Negative voltages are not supported.
func Append(dst []byte, v float32) []byte {
	ip, frac := math32.Modf(v)
	dec := int(float32(frac * 1000))

	dst = strconv.AppendInt(dst, int64(ip), 10)
	dst = append(dst, '.')
	switch {
	case dec < 10:
		dst = append(dst, "00"...)
	case dec < 100:
		dst = append(dst, '0')
	}
	dst = strconv.AppendInt(dst, int64(dec), 10)
	return append(dst, " V"...)
}

// Format returns the text Append would produce.
func Format(v float32) string {
	var buf [Width + 4]byte
	return string(Append(buf[:0], v))
}
