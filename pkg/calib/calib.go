package calib

// Divider describes an ADC input behind a resistor divider.
// R1 is the upper (source side) resistor and R2 the lower one, across which
// the ADC pin measures.
type Divider struct {
	VRef      float32 `yaml:"vref"`       // ADC reference voltage (V)
	R1        float32 `yaml:"r1"`         // Upper divider resistor
	R2        float32 `yaml:"r2"`         // Lower divider resistor
	FullScale float32 `yaml:"full_scale"` // Count corresponding to VRef (1023 for 10-bit)
}

var (
	// Peak converts integrator samples taken against the 1.1V bandgap
	// through a ~1/6 divider.
	Peak = Divider{VRef: 1.1, R1: 495.2, R2: 101.65, FullScale: 1023.0}
	// Bias converts SiPM bias samples taken against the 5V supply through
	// a ~1/6 divider.
	Bias = Divider{VRef: 5.0, R1: 498.1, R2: 101.8, FullScale: 1023.0}
)

// Convert turns a raw ADC count into the voltage at the divider input.
// Formula: V_in = raw * VRef * ((R1 + R2) / R2) / FullScale
func (d Divider) Convert(raw uint16) float32 {
	return float32(raw) * d.VRef * ((d.R1 + d.R2) / d.R2) / d.FullScale
}

// Ratio returns the divider gain (R1 + R2) / R2.
func (d Divider) Ratio() float32 {
	return (d.R1 + d.R2) / d.R2
}

// Pin returns the voltage seen by the ADC pin for a given input voltage.
// Formula: V_out = V_in * (R2 / (R1 + R2))
func (d Divider) Pin(vin float32) float32 {
	return vin * d.R2 / (d.R1 + d.R2)
}

// Valid reports whether the divider can be used for conversion.
func (d Divider) Valid() bool {
	return d.VRef > 0 && d.R1 >= 0 && d.R2 > 0 && d.FullScale > 0
}
