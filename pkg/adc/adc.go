// Package adc performs single conversions on an ATmega328P style successive
// approximation ADC through its multiplexer and control registers.
package adc

// ADMUX bits.
const (
	REFS1 = 1 << 7
	REFS0 = 1 << 6
	ADLAR = 1 << 5

	MuxMask = 0x0F
	RefMask = REFS1 | REFS0
)

// ADCSRA bits.
const (
	ADEN  = 1 << 7
	ADSC  = 1 << 6
	ADATE = 1 << 5
	ADIF  = 1 << 4
	ADIE  = 1 << 3

	PrescalerMask = 0x07
)

// Conversion clock limits for full 10-bit resolution.
const (
	MinClockHz = 50_000
	MaxClockHz = 200_000
)

// Reference selects the conversion reference voltage.
type Reference uint8

const (
	ReferenceExternal Reference = 0             // AREF pin
	ReferenceSupply   Reference = REFS0         // AVcc
	ReferenceBandgap  Reference = REFS1 | REFS0 // Internal 1.1V
)

func (r Reference) String() string {
	switch r {
	case ReferenceExternal:
		return "AREF"
	case ReferenceSupply:
		return "AVcc"
	case ReferenceBandgap:
		return "1.1V"
	default:
		return "reserved"
	}
}

// Registers gives access to the ADC register file.
type Registers interface {
	Mux() uint8
	SetMux(v uint8)
	Control() uint8
	SetControl(v uint8)
	// Result returns the 10-bit conversion result (ADCL then ADCH).
	Result() uint16
}

// Sampler reads raw counts from the ADC.
// Callers must select the reference matching the channel they read; no
// mismatch is detected.
type Sampler struct {
	regs      Registers
	prescaler uint8
	ref       Reference
}

// New creates a Sampler whose conversion clock is derived from cpuHz.
func New(regs Registers, cpuHz uint32) *Sampler {
	bits, _ := PrescalerFor(cpuHz)
	return &Sampler{
		regs:      regs,
		prescaler: bits,
	}
}

// InitSupply references conversions to the supply voltage.
func (s *Sampler) InitSupply() {
	s.init(ReferenceSupply)
}

// InitBandgap references conversions to the internal bandgap for better
// resolution on small signals.
func (s *Sampler) InitBandgap() {
	s.init(ReferenceBandgap)
}

func (s *Sampler) init(ref Reference) {
	s.ref = ref
	s.regs.SetMux(uint8(ref))
	s.regs.SetControl(ADEN | s.prescaler)
}

// Reference returns the last selected reference.
func (s *Sampler) Reference() Reference {
	return s.ref
}

// Read selects channel (low four bits only), starts a single conversion and
// spins until it completes. A conversion takes 13 ADC clocks, about 104µs at
// 125kHz.
func (s *Sampler) Read(channel uint8) uint16 {
	s.regs.SetMux(s.regs.Mux()&^MuxMask | channel&MuxMask)
	s.regs.SetControl(s.regs.Control() | ADSC)
	for s.regs.Control()&ADSC != 0 {
	}
	return s.regs.Result()
}

// prescalers maps ADPS bits to the clock divisor. Bits 0 and 1 both divide
// by two; 1 is used.
var prescalers = [...]struct {
	bits uint8
	div  uint32
}{
	{1, 2},
	{2, 4},
	{3, 8},
	{4, 16},
	{5, 32},
	{6, 64},
	{7, 128},
}

// PrescalerFor returns the ADPS bits of the smallest divisor that keeps the
// conversion clock at or below MaxClockHz. ok is false when the resulting
// clock is below MinClockHz or no divisor is slow enough.
func PrescalerFor(cpuHz uint32) (bits uint8, ok bool) {
	for _, p := range prescalers {
		clk := cpuHz / p.div
		if clk <= MaxClockHz {
			return p.bits, clk >= MinClockHz
		}
	}
	return prescalers[len(prescalers)-1].bits, false
}
